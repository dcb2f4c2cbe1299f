package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rwharper/edla/internal/session"
	"github.com/rwharper/edla/internal/storage"
)

// Execute implements the go-flags Commander interface for SessionsCommand.
func (c *SessionsCommand) Execute(args []string) error {
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

// executeWithStore runs the listing against a provided store (for testing).
func (c *SessionsCommand) executeWithStore(store storage.Store) error {
	sessions, err := store.ListSessions(context.Background(), c.Commander, c.Limit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	}

	if len(sessions) == 0 {
		fmt.Println("No archived sessions. Run `edla scan` first.")
		return nil
	}

	for _, s := range sessions {
		printSessionLine(s)
	}
	fmt.Printf("\n%d session(s)\n", len(sessions))
	return nil
}

func printSessionLine(s *session.Summary) {
	start := "unknown start"
	if s.StartTime != nil {
		start = *s.StartTime
	}
	commander := s.Commander
	if commander == "" {
		commander = "(no commander)"
	}
	fmt.Printf("%-42s %-20s %s  %4d jumps  %8.1f ly  %s\n",
		s.SessionID, commander, start, s.Jumps, s.LightYearsTraveled,
		formatCredits(s.CreditsChange))
}
