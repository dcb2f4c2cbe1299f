package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"
	"time"

	"github.com/rwharper/edla/internal/journal"
	"github.com/rwharper/edla/internal/session"
)

// Execute implements the go-flags Commander interface for WatchCommand.
func (c *WatchCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	journalDir, err := cfg.JournalDir()
	if err != nil {
		return err
	}

	interval := time.Duration(cfg.Watch.PollIntervalSeconds) * time.Second
	if c.Interval != "" {
		interval, err = parseDuration(c.Interval)
		if err != nil {
			return fmt.Errorf("invalid interval: %w", err)
		}
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}

	tracker := session.NewTracker()
	tracker.SetStartupSnapshot(journal.ReadStartupSnapshot(journalDir))
	feed := session.NewFeed(tracker)

	if c.Once {
		c.pollOnce(feed, journalDir)
		return c.printStats(tracker)
	}

	if c.globals == nil || !c.globals.JSON {
		fmt.Printf("Watching %s (every %s, Ctrl-C to stop)\n", journalDir, interval)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			if c.globals == nil || !c.globals.JSON {
				fmt.Println()
			}
			return c.printStats(tracker)
		case <-ticker.C:
			if c.pollOnce(feed, journalDir) > 0 {
				if err := c.printStats(tracker); err != nil {
					return err
				}
			}
		}
	}
}

// pollOnce tails the newest journal file and returns the number of new
// records delivered. A directory with no journal files delivers nothing.
func (c *WatchCommand) pollOnce(feed *session.Feed, journalDir string) int {
	path, ok := newestJournalFile(journalDir)
	if !ok {
		return 0
	}
	return feed.FileChanged(path)
}

func (c *WatchCommand) printStats(tracker *session.Tracker) error {
	stats := tracker.Statistics()

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	if !tracker.HasActiveSession() {
		fmt.Println("No active session yet. Waiting for a LoadGame event.")
		return nil
	}

	fmt.Printf("[%s] CMDR %s", time.Now().Format("15:04:05"), stats.Commander)
	if stats.CurrentShip != "" {
		fmt.Printf(" (%s)", stats.CurrentShip)
	}
	if stats.CurrentSystem != "" {
		fmt.Printf(" in %s", stats.CurrentSystem)
	}
	fmt.Println()
	fmt.Printf("  Credits:  %s change (earned %s, spent %s)\n",
		formatNumber(stats.Credits.Change), formatCredits(stats.Credits.Earned), formatCredits(stats.Credits.Spent))
	fmt.Printf("  Travel:   %d jumps, %.1f ly, %d systems\n",
		stats.Travel.Jumps, stats.Travel.LightYears, stats.Travel.SystemsVisited)
	fmt.Printf("  Combat:   %d kills, %s bounties\n",
		stats.Combat.Kills, formatCredits(stats.Combat.BountiesEarned))
	fmt.Printf("  Missions: %d active, %d completed, %s rewards\n",
		len(stats.Missions.Active), stats.Missions.Completed, formatCredits(stats.Missions.Rewards))
	return nil
}

// newestJournalFile returns the lexically greatest Journal*.log in dir,
// which for the 14-digit timestamp naming scheme is also the newest.
func newestJournalFile(dir string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, "Journal*.log"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[len(matches)-1], true
}
