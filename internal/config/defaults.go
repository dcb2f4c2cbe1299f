package config

import "path/filepath"

// DefaultJournalDir is where the game writes journal files on Windows.
var DefaultJournalDir = filepath.Join("~", "Saved Games", "Frontier Developments", "Elite Dangerous")

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Journal: JournalConfig{
			Dir: DefaultJournalDir,
		},
		Storage: StorageConfig{
			Path:       "~/.edla",
			SQLiteFile: "edla.db",
		},
		Scan: ScanConfig{
			TimeoutSeconds: 120,
		},
		Watch: WatchConfig{
			PollIntervalSeconds: 2,
		},
	}
}
