package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rwharper/edla/internal/storage"
)

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
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

func (c *StatsCommand) executeWithStore(store storage.Store) error {
	agg, err := store.Aggregate(context.Background(), c.Commander)
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(agg)
	}

	printAggregate(agg, c.Commander)
	return nil
}

func printAggregate(a *storage.AggregateStats, commander string) {
	if commander != "" {
		fmt.Printf("Lifetime statistics for %s\n", commander)
	} else {
		fmt.Println("Lifetime statistics (all commanders)")
	}
	fmt.Println()

	if a.TotalSessions == 0 {
		fmt.Println("No sessions recorded yet. Run 'edla scan' first.")
		return
	}

	fmt.Printf("Sessions:          %s\n", formatNumber(a.TotalSessions))
	if a.FirstSession != nil {
		fmt.Printf("First session:     %s\n", *a.FirstSession)
	}
	if a.LastSession != nil {
		fmt.Printf("Last session:      %s\n", *a.LastSession)
	}
	fmt.Printf("Events processed:  %s\n", formatNumber(a.TotalEvents))
	fmt.Println()

	fmt.Printf("Credits change:    %s\n", formatCredits(a.TotalCreditsChange))
	fmt.Println()

	fmt.Printf("Jumps:             %s (%.1f ly)\n", formatNumber(a.TotalJumps), a.TotalLightYears)
	fmt.Printf("Systems visited:   %s\n", formatNumber(a.TotalSystemsVisited))
	fmt.Printf("Stations visited:  %s\n", formatNumber(a.TotalStationsVisited))
	fmt.Printf("Dockings:          %s\n", formatNumber(a.TotalDocked))
	fmt.Printf("Planets landed:    %s\n", formatNumber(a.TotalPlanetsLanded))
	fmt.Println()

	fmt.Printf("Kills:             %s\n", formatNumber(a.TotalKills))
	fmt.Printf("Deaths:            %s\n", formatNumber(a.TotalDeaths))
	fmt.Printf("Bounties:          %s\n", formatCredits(a.TotalBounties))
	fmt.Printf("Combat bonds:      %s\n", formatCredits(a.TotalCombatBonds))
	fmt.Println()

	fmt.Printf("Scans:             %s (%s FSS, %s DSS)\n",
		formatNumber(a.TotalScans), formatNumber(a.TotalFSSScans), formatNumber(a.TotalDSSScans))
	fmt.Printf("Codex entries:     %s\n", formatNumber(a.TotalCodexEntries))
	fmt.Printf("Exploration data:  %s\n", formatCredits(a.TotalExplorationValue))
	fmt.Println()

	fmt.Printf("Trade profit:      %s\n", formatCredits(a.TotalTradeProfit))
	fmt.Printf("Missions:          %s accepted, %s completed, %s failed\n",
		formatNumber(a.TotalMissionsAccepted), formatNumber(a.TotalMissionsCompleted), formatNumber(a.TotalMissionsFailed))
	fmt.Printf("Mission rewards:   %s\n", formatCredits(a.TotalMissionRewards))
}
