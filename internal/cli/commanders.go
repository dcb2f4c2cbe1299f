package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rwharper/edla/internal/journal"
)

// Execute implements the go-flags Commander interface for CommandersCommand.
func (c *CommandersCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	journalDir, err := cfg.JournalDir()
	if err != nil {
		return err
	}

	names := journal.DetectCommanders(journalDir)
	if names == nil {
		names = []string{}
	}

	if c.globals != nil && c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"commanders": names})
	}

	if len(names) == 0 {
		fmt.Printf("No commanders found in %s\n", journalDir)
		return nil
	}

	fmt.Printf("Commanders found in %s:\n", journalDir)
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
