package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rwharper/edla/internal/session"
)

// Store defines the durable session archive: keyed session summaries plus
// the processed-file set used for idempotent re-scans.
type Store interface {
	PutSession(ctx context.Context, s *session.Summary) error
	CommitSession(ctx context.Context, s *session.Summary) error
	GetSession(ctx context.Context, id string) (*session.Summary, error)
	ListSessions(ctx context.Context, commander string, limit int) ([]*session.Summary, error)
	IsProcessed(ctx context.Context, path string) (bool, error)
	MarkProcessed(ctx context.Context, path string) error
	Aggregate(ctx context.Context, commander string) (*AggregateStats, error)
	GetStats(ctx context.Context) (*Stats, error)
	PurgeAll(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	upsertSession *sql.Stmt
	getSession    *sql.Stmt
	isProcessed   *sql.Stmt
	markProcessed *sql.Stmt
}

const upsertSessionSQL = `
	INSERT INTO sessions (
		session_id, commander, log_file, start_time, end_time,
		total_events, jumps, light_years, docked_count, planets_landed,
		kills, deaths, bounties_earned, combat_bonds,
		scans, fss_scans, dss_scans, codex_entries, exploration_value,
		trade_profit, missions_accepted, missions_completed, missions_failed,
		mission_rewards, credits_change, systems_json, stations_json, summary_json
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		commander = excluded.commander,
		log_file = excluded.log_file,
		start_time = excluded.start_time,
		end_time = excluded.end_time,
		total_events = excluded.total_events,
		jumps = excluded.jumps,
		light_years = excluded.light_years,
		docked_count = excluded.docked_count,
		planets_landed = excluded.planets_landed,
		kills = excluded.kills,
		deaths = excluded.deaths,
		bounties_earned = excluded.bounties_earned,
		combat_bonds = excluded.combat_bonds,
		scans = excluded.scans,
		fss_scans = excluded.fss_scans,
		dss_scans = excluded.dss_scans,
		codex_entries = excluded.codex_entries,
		exploration_value = excluded.exploration_value,
		trade_profit = excluded.trade_profit,
		missions_accepted = excluded.missions_accepted,
		missions_completed = excluded.missions_completed,
		missions_failed = excluded.missions_failed,
		mission_rewards = excluded.mission_rewards,
		credits_change = excluded.credits_change,
		systems_json = excluded.systems_json,
		stations_json = excluded.stations_json,
		summary_json = excluded.summary_json,
		updated_at = CURRENT_TIMESTAMP
`

const markProcessedSQL = `INSERT OR IGNORE INTO processed_files (path) VALUES (?)`

// NewSQLiteStore creates a SQLiteStore from an already-opened and migrated
// database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}
	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsertSession, err = s.db.Prepare(upsertSessionSQL)
	if err != nil {
		return err
	}

	s.getSession, err = s.db.Prepare(`SELECT summary_json FROM sessions WHERE session_id = ?`)
	if err != nil {
		return err
	}

	s.isProcessed, err = s.db.Prepare(`SELECT COUNT(*) FROM processed_files WHERE path = ?`)
	if err != nil {
		return err
	}

	s.markProcessed, err = s.db.Prepare(markProcessedSQL)
	if err != nil {
		return err
	}

	return nil
}

// sessionArgs flattens a summary into the upsert's bind order.
func sessionArgs(sum *session.Summary) ([]any, error) {
	summaryJSON, err := json.Marshal(sum)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	systemsJSON, err := json.Marshal(sum.SystemsVisited)
	if err != nil {
		return nil, fmt.Errorf("marshal systems: %w", err)
	}
	stationsJSON, err := json.Marshal(sum.StationsVisited)
	if err != nil {
		return nil, fmt.Errorf("marshal stations: %w", err)
	}

	var startTime any
	if sum.StartTime != nil {
		startTime = *sum.StartTime
	}

	return []any{
		sum.SessionID, sum.Commander, sum.LogFile, startTime, sum.EndTime,
		sum.TotalEvents, sum.Jumps, sum.LightYearsTraveled, sum.DockedCount, sum.PlanetsLanded,
		sum.Kills, sum.Deaths, sum.BountiesEarned, sum.CombatBonds,
		sum.Scans, sum.FSSScans, sum.DSSScans, sum.CodexEntries, sum.ExplorationValue,
		sum.TradeProfit, sum.MissionsAccepted, sum.MissionsCompleted, sum.MissionsFailed,
		sum.MissionRewards, sum.CreditsChange, string(systemsJSON), string(stationsJSON), string(summaryJSON),
	}, nil
}

// PutSession upserts a session summary, replacing any prior record with the
// same id.
func (s *SQLiteStore) PutSession(ctx context.Context, sum *session.Summary) error {
	args, err := sessionArgs(sum)
	if err != nil {
		return err
	}
	if _, err := s.upsertSession.ExecContext(ctx, args...); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

// CommitSession stores a summary and marks its log file processed in a
// single transaction, so the processed-file set can never get ahead of the
// archive.
func (s *SQLiteStore) CommitSession(ctx context.Context, sum *session.Summary) error {
	args, err := sessionArgs(sum)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, upsertSessionSQL, args...); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, markProcessedSQL, sum.LogFile); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}

	return tx.Commit()
}

// GetSession retrieves a single session summary by id.
func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*session.Summary, error) {
	var blob string
	err := s.getSession.QueryRowContext(ctx, id).Scan(&blob)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s not found", id)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sum session.Summary
	if err := json.Unmarshal([]byte(blob), &sum); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &sum, nil
}

// ListSessions returns stored summaries ordered by start_time descending,
// with null start times sorting last. An empty commander matches all; a
// limit <= 0 means no limit.
func (s *SQLiteStore) ListSessions(ctx context.Context, commander string, limit int) ([]*session.Summary, error) {
	var clauses []string
	var args []any

	query := `SELECT summary_json FROM sessions`
	if commander != "" {
		clauses = append(clauses, "commander = ?")
		args = append(args, commander)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY (start_time IS NULL), start_time DESC LIMIT ?"
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*session.Summary{}
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		var sum session.Summary
		if err := json.Unmarshal([]byte(blob), &sum); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		sessions = append(sessions, &sum)
	}
	return sessions, rows.Err()
}

// IsProcessed reports whether a log file path has already been archived.
func (s *SQLiteStore) IsProcessed(ctx context.Context, path string) (bool, error) {
	var count int
	if err := s.isProcessed.QueryRowContext(ctx, path).Scan(&count); err != nil {
		return false, fmt.Errorf("check processed: %w", err)
	}
	return count > 0, nil
}

// MarkProcessed inserts a path into the processed-file set. Re-marking an
// already-processed path is a no-op.
func (s *SQLiteStore) MarkProcessed(ctx context.Context, path string) error {
	if _, err := s.markProcessed.ExecContext(ctx, path); err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	return nil
}

// Aggregate computes the cross-session rollup, optionally filtered by
// commander. Scalar counters are summed in SQL; distinct systems and
// stations are unioned from the per-session JSON columns.
func (s *SQLiteStore) Aggregate(ctx context.Context, commander string) (*AggregateStats, error) {
	where := ""
	var args []any
	if commander != "" {
		where = " WHERE commander = ?"
		args = append(args, commander)
	}

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(jumps), 0),
		       COALESCE(SUM(light_years), 0),
		       COALESCE(SUM(docked_count), 0),
		       COALESCE(SUM(planets_landed), 0),
		       COALESCE(SUM(total_events), 0),
		       COALESCE(SUM(credits_change), 0),
		       COALESCE(SUM(kills), 0),
		       COALESCE(SUM(deaths), 0),
		       COALESCE(SUM(bounties_earned), 0),
		       COALESCE(SUM(combat_bonds), 0),
		       COALESCE(SUM(exploration_value), 0),
		       COALESCE(SUM(trade_profit), 0),
		       COALESCE(SUM(mission_rewards), 0),
		       COALESCE(SUM(scans), 0),
		       COALESCE(SUM(fss_scans), 0),
		       COALESCE(SUM(dss_scans), 0),
		       COALESCE(SUM(codex_entries), 0),
		       COALESCE(SUM(missions_accepted), 0),
		       COALESCE(SUM(missions_completed), 0),
		       COALESCE(SUM(missions_failed), 0),
		       MIN(start_time),
		       MAX(start_time)
		FROM sessions` + where

	agg := &AggregateStats{}
	var first, last sql.NullString
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&agg.TotalSessions, &agg.TotalJumps, &agg.TotalLightYears,
		&agg.TotalDocked, &agg.TotalPlanetsLanded, &agg.TotalEvents,
		&agg.TotalCreditsChange, &agg.TotalKills, &agg.TotalDeaths,
		&agg.TotalBounties, &agg.TotalCombatBonds, &agg.TotalExplorationValue,
		&agg.TotalTradeProfit, &agg.TotalMissionRewards,
		&agg.TotalScans, &agg.TotalFSSScans, &agg.TotalDSSScans,
		&agg.TotalCodexEntries, &agg.TotalMissionsAccepted,
		&agg.TotalMissionsCompleted, &agg.TotalMissionsFailed,
		&first, &last,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate sessions: %w", err)
	}
	if first.Valid {
		agg.FirstSession = &first.String
	}
	if last.Valid {
		agg.LastSession = &last.String
	}

	systems, stations, err := s.distinctPlaces(ctx, where, args)
	if err != nil {
		return nil, err
	}
	agg.TotalSystemsVisited = systems
	agg.TotalStationsVisited = stations

	return agg, nil
}

// distinctPlaces unions the systems/stations JSON columns across matching
// sessions and returns the distinct counts.
func (s *SQLiteStore) distinctPlaces(ctx context.Context, where string, args []any) (int64, int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT systems_json, stations_json FROM sessions`+where, args...)
	if err != nil {
		return 0, 0, fmt.Errorf("query visited places: %w", err)
	}
	defer rows.Close()

	systems := make(map[string]struct{})
	stations := make(map[string]struct{})
	for rows.Next() {
		var systemsBlob, stationsBlob string
		if err := rows.Scan(&systemsBlob, &stationsBlob); err != nil {
			return 0, 0, fmt.Errorf("scan visited places: %w", err)
		}
		mergeJSONSet(systems, systemsBlob)
		mergeJSONSet(stations, stationsBlob)
	}
	return int64(len(systems)), int64(len(stations)), rows.Err()
}

func mergeJSONSet(dst map[string]struct{}, blob string) {
	var names []string
	if err := json.Unmarshal([]byte(blob), &names); err != nil {
		return // tolerate a malformed row rather than failing the rollup
	}
	for _, name := range names {
		dst[name] = struct{}{}
	}
}

// GetStats returns store-level health numbers.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&stats.TotalSessions); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM processed_files").Scan(&stats.ProcessedFiles); err != nil {
		return nil, fmt.Errorf("count processed files: %w", err)
	}

	if stats.TotalSessions > 0 {
		var oldest, newest sql.NullString
		err := s.db.QueryRowContext(ctx,
			"SELECT MIN(start_time), MAX(start_time) FROM sessions",
		).Scan(&oldest, &newest)
		if err != nil {
			return nil, fmt.Errorf("session time range: %w", err)
		}
		if oldest.Valid {
			stats.OldestSession = &oldest.String
		}
		if newest.Valid {
			stats.NewestSession = &newest.String
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT commander, COUNT(*) as cnt FROM sessions
		WHERE commander != '' GROUP BY commander ORDER BY cnt DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("count commanders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cc CommanderCount
		if err := rows.Scan(&cc.Commander, &cc.Count); err != nil {
			return nil, err
		}
		stats.Commanders = append(stats.Commanders, cc)
	}
	return stats, rows.Err()
}

// PurgeAll deletes all sessions and the processed-file set.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM processed_files",
		"DELETE FROM sessions",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.upsertSession, s.getSession, s.isProcessed, s.markProcessed,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
