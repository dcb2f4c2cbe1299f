package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rwharper/edla/internal/session"
)

// Earlier releases kept two flat JSON documents in the data directory:
// sessions.json holding every summary and processed_files.json holding the
// processed-path set. MigrateLegacyData imports both into the store once,
// then renames the originals with a .migrated suffix so the import never
// repeats and nothing is deleted.

const (
	legacySessionsFile  = "sessions.json"
	legacyProcessedFile = "processed_files.json"
	migratedSuffix      = ".migrated"
)

type legacySessions struct {
	Sessions map[string]session.Summary `json:"sessions"`
}

type legacyProcessed struct {
	ProcessedFiles []string `json:"processed_files"`
}

// MigrateLegacyData performs the one-time legacy layout import. It returns
// the number of sessions imported; when no legacy files exist it is a no-op.
func MigrateLegacyData(ctx context.Context, dataDir string, store Store) (int, error) {
	imported, err := migrateLegacySessions(ctx, dataDir, store)
	if err != nil {
		return imported, err
	}
	if err := migrateLegacyProcessed(ctx, dataDir, store); err != nil {
		return imported, err
	}
	return imported, nil
}

func migrateLegacySessions(ctx context.Context, dataDir string, store Store) (int, error) {
	path := filepath.Join(dataDir, legacySessionsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read legacy sessions: %w", err)
	}

	var legacy legacySessions
	if err := json.Unmarshal(data, &legacy); err != nil {
		return 0, fmt.Errorf("parse legacy sessions: %w", err)
	}

	imported := 0
	for id, sum := range legacy.Sessions {
		if sum.SessionID == "" {
			sum.SessionID = id
		}
		s := sum
		if err := store.PutSession(ctx, &s); err != nil {
			return imported, fmt.Errorf("import legacy session %s: %w", id, err)
		}
		imported++
	}

	// Rename only after every record landed; a failed import retries next
	// startup against the untouched original.
	if err := os.Rename(path, path+migratedSuffix); err != nil {
		return imported, fmt.Errorf("rename legacy sessions: %w", err)
	}
	return imported, nil
}

func migrateLegacyProcessed(ctx context.Context, dataDir string, store Store) error {
	path := filepath.Join(dataDir, legacyProcessedFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read legacy processed files: %w", err)
	}

	var legacy legacyProcessed
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("parse legacy processed files: %w", err)
	}

	for _, p := range legacy.ProcessedFiles {
		if err := store.MarkProcessed(ctx, p); err != nil {
			return fmt.Errorf("import legacy processed file %s: %w", p, err)
		}
	}

	if err := os.Rename(path, path+migratedSuffix); err != nil {
		return fmt.Errorf("rename legacy processed files: %w", err)
	}
	return nil
}
