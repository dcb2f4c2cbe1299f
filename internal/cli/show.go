package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rwharper/edla/internal/session"
	"github.com/rwharper/edla/internal/storage"
)

// Execute implements the go-flags Commander interface for ShowCommand.
func (c *ShowCommand) Execute(args []string) error {
	if c.ID == "" {
		return fmt.Errorf("--id is required")
	}

	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	return c.executeWithStore(store)
}

// executeWithStore runs show against a provided store (for testing).
func (c *ShowCommand) executeWithStore(store storage.Store) error {
	sum, err := store.GetSession(context.Background(), c.ID)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	}

	printSummary(sum, c.Events)
	return nil
}

func printSummary(s *session.Summary, withEvents bool) {
	fmt.Printf("Session %s\n", s.SessionID)
	fmt.Println(strings.Repeat("=", len(s.SessionID)+8))
	if s.Commander != "" {
		fmt.Printf("Commander:     %s\n", s.Commander)
	}
	if s.StartTime != nil {
		fmt.Printf("Start:         %s\n", *s.StartTime)
	}
	if s.EndTime != "" {
		fmt.Printf("End:           %s\n", s.EndTime)
	}
	fmt.Printf("Log file:      %s\n", s.LogFile)
	fmt.Printf("Events:        %s\n", formatNumber(int64(s.TotalEvents)))

	fmt.Println()
	fmt.Printf("Credits:       %s change (%s)\n", formatNumber(s.CreditsChange), describeShips(s))
	fmt.Printf("Travel:        %d jumps, %.1f ly, %d systems, %d stations, %d landings\n",
		s.Jumps, s.LightYearsTraveled, len(s.SystemsVisited), len(s.StationsVisited), s.PlanetsLanded)
	fmt.Printf("Combat:        %d kills, %d deaths, %s bounties, %s bonds\n",
		s.Kills, s.Deaths, formatCredits(s.BountiesEarned), formatCredits(s.CombatBonds))
	fmt.Printf("Exploration:   %d scans (%d FSS, %d DSS), %s sold\n",
		s.Scans, s.FSSScans, s.DSSScans, formatCredits(s.ExplorationValue))
	fmt.Printf("Trading:       %s profit (%d buys, %d sells)\n",
		formatCredits(s.TradeProfit), s.MarketBuys, s.MarketSells)
	fmt.Printf("Missions:      %d accepted, %d completed, %d failed, %s rewards\n",
		s.MissionsAccepted, s.MissionsCompleted, s.MissionsFailed, formatCredits(s.MissionRewards))

	if len(s.EventCounts) > 0 {
		fmt.Println()
		fmt.Println("Top event types:")
		for _, tc := range topEventCounts(s.EventCounts, 10) {
			fmt.Printf("  %-24s %d\n", tc.name, tc.count)
		}
	}

	if withEvents {
		fmt.Println()
		if s.EventsSummary != "" {
			fmt.Println(s.EventsSummary)
		}
		for _, ev := range s.Events {
			fmt.Printf("  %s  %s\n", ev.Timestamp, ev.Event)
		}
	}
}

func describeShips(s *session.Summary) string {
	switch {
	case s.FirstShip == "" && s.LastShip == "":
		return "no ship recorded"
	case s.FirstShip == s.LastShip || s.LastShip == "":
		return s.FirstShip
	default:
		return s.FirstShip + " -> " + s.LastShip
	}
}

type typeCount struct {
	name  string
	count int
}

// topEventCounts returns the n most frequent event types, ties broken by
// name for stable output.
func topEventCounts(counts map[string]int, n int) []typeCount {
	out := make([]typeCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, typeCount{name, count})
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].count > out[i].count ||
				(out[j].count == out[i].count && out[j].name < out[i].name) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}
