package storage

import "database/sql"

// migrateV001 creates the initial schema: the sessions table (one row per
// archived journal file, scalar counters as columns for SQL aggregation,
// collections and the full summary as JSON text) and the processed_files
// set. Every statement uses IF NOT EXISTS for idempotency.
func migrateV001(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id         TEXT PRIMARY KEY,
			commander          TEXT NOT NULL DEFAULT '',
			log_file           TEXT NOT NULL,
			start_time         TEXT,
			end_time           TEXT NOT NULL DEFAULT '',
			total_events       INTEGER NOT NULL DEFAULT 0,
			jumps              INTEGER NOT NULL DEFAULT 0,
			light_years        REAL    NOT NULL DEFAULT 0,
			docked_count       INTEGER NOT NULL DEFAULT 0,
			planets_landed     INTEGER NOT NULL DEFAULT 0,
			kills              INTEGER NOT NULL DEFAULT 0,
			deaths             INTEGER NOT NULL DEFAULT 0,
			bounties_earned    INTEGER NOT NULL DEFAULT 0,
			combat_bonds       INTEGER NOT NULL DEFAULT 0,
			scans              INTEGER NOT NULL DEFAULT 0,
			fss_scans          INTEGER NOT NULL DEFAULT 0,
			dss_scans          INTEGER NOT NULL DEFAULT 0,
			codex_entries      INTEGER NOT NULL DEFAULT 0,
			exploration_value  INTEGER NOT NULL DEFAULT 0,
			trade_profit       INTEGER NOT NULL DEFAULT 0,
			missions_accepted  INTEGER NOT NULL DEFAULT 0,
			missions_completed INTEGER NOT NULL DEFAULT 0,
			missions_failed    INTEGER NOT NULL DEFAULT 0,
			mission_rewards    INTEGER NOT NULL DEFAULT 0,
			credits_change     INTEGER NOT NULL DEFAULT 0,
			systems_json       TEXT NOT NULL DEFAULT '[]',
			stations_json      TEXT NOT NULL DEFAULT '[]',
			summary_json       TEXT NOT NULL,
			created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS processed_files (
			path         TEXT PRIMARY KEY,
			processed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_commander  ON sessions(commander)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time)`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
