package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rwharper/edla/internal/config"
	"github.com/rwharper/edla/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string               `json:"version"`
	DatabasePath      string               `json:"database_path"`
	DatabaseSizeBytes int64                `json:"database_size_bytes"`
	JournalDir        string               `json:"journal_dir"`
	TotalSessions     int64                `json:"total_sessions"`
	ProcessedFiles    int64                `json:"processed_files"`
	OldestSession     string               `json:"oldest_session,omitempty"`
	NewestSession     string               `json:"newest_session,omitempty"`
	Commanders        []commanderCountJSON `json:"commanders"`
}

type commanderCountJSON struct {
	Commander string `json:"commander"`
	Sessions  int64  `json:"sessions"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
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

	return c.executeWithStore(cfg, store, db)
}

// executeWithStore runs status against a provided store and db (for testing).
func (c *StatusCommand) executeWithStore(cfg *config.Config, store *storage.SQLiteStore, db *sql.DB) error {
	stats, err := store.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	dbSize := databaseSize(db, dbPath)

	journalDir, err := cfg.JournalDir()
	if err != nil {
		journalDir = cfg.Journal.Dir
	}

	if c.globals != nil && c.globals.JSON {
		return c.printStatusJSON(stats, dbPath, dbSize, journalDir)
	}
	return c.printStatusHuman(stats, dbPath, dbSize, journalDir)
}

func (c *StatusCommand) printStatusHuman(stats *storage.Stats, dbPath string, dbSize int64, journalDir string) error {
	fmt.Println("EDLA Status")
	fmt.Println("===========")
	fmt.Printf("Version:        %s\n", c.version)
	fmt.Printf("Database:       %s (%s)\n", dbPath, formatBytes(dbSize))
	fmt.Printf("Journal dir:    %s\n", journalDir)
	fmt.Printf("Sessions:       %s\n", formatNumber(stats.TotalSessions))
	fmt.Printf("Files scanned:  %s\n", formatNumber(stats.ProcessedFiles))

	if stats.OldestSession != nil {
		fmt.Printf("Oldest session: %s\n", *stats.OldestSession)
	}
	if stats.NewestSession != nil {
		fmt.Printf("Newest session: %s\n", *stats.NewestSession)
	}

	if len(stats.Commanders) > 0 {
		fmt.Println()
		fmt.Println("Commanders:")
		for _, cc := range stats.Commanders {
			fmt.Printf("  %-24s %s sessions\n", cc.Commander, formatNumber(cc.Count))
		}
	}

	return nil
}

func (c *StatusCommand) printStatusJSON(stats *storage.Stats, dbPath string, dbSize int64, journalDir string) error {
	out := statusJSON{
		Version:           c.version,
		DatabasePath:      dbPath,
		DatabaseSizeBytes: dbSize,
		JournalDir:        journalDir,
		TotalSessions:     stats.TotalSessions,
		ProcessedFiles:    stats.ProcessedFiles,
		Commanders:        make([]commanderCountJSON, len(stats.Commanders)),
	}

	if stats.OldestSession != nil {
		out.OldestSession = *stats.OldestSession
	}
	if stats.NewestSession != nil {
		out.NewestSession = *stats.NewestSession
	}

	for i, cc := range stats.Commanders {
		out.Commanders[i] = commanderCountJSON{Commander: cc.Commander, Sessions: cc.Count}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
