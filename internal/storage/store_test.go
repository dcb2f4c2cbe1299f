package storage

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rwharper/edla/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore creates a migrated in-memory Store for testing.
func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runner := NewMigrationRunner(db)
	require.NoError(t, runner.Run())

	store, err := NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

// testSummary builds a populated summary keyed by id.
func testSummary(id, commander, startTime string) *session.Summary {
	first := int64(1000)
	last := int64(6000)
	s := &session.Summary{
		SessionID:          id,
		LogFile:            "/logs/" + id,
		Commander:          commander,
		EndTime:            startTime,
		TotalEvents:        42,
		Jumps:              3,
		LightYearsTraveled: 12.5,
		DockedCount:        2,
		PlanetsLanded:      1,
		Kills:              4,
		Deaths:             1,
		BountiesEarned:     75000,
		CombatBonds:        30000,
		Scans:              6,
		FSSScans:           2,
		DSSScans:           1,
		CodexEntries:       1,
		ExplorationValue:   250000,
		TradeProfit:        6000,
		MissionsAccepted:   3,
		MissionsCompleted:  2,
		MissionsFailed:     1,
		MissionRewards:     100000,
		FirstCredits:       &first,
		LastCredits:        &last,
		CreditsChange:      5000,
		SystemsVisited:     []string{"Alpha Centauri", "Sol"},
		StationsVisited:    []string{"Hutton Orbital"},
		UniqueShips:        []string{"Anaconda"},
		EventCounts:        map[string]int{"FSDJump": 3},
	}
	if startTime != "" {
		s.StartTime = &startTime
	}
	return s
}

func TestPutSession_GetSession_Roundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sum := testSummary("Journal.20240131204512.01.log", "Jameson", "2024-01-31T20:45:12")
	require.NoError(t, store.PutSession(ctx, sum))

	got, err := store.GetSession(ctx, sum.SessionID)
	require.NoError(t, err)
	assert.Equal(t, sum.SessionID, got.SessionID)
	assert.Equal(t, "Jameson", got.Commander)
	assert.Equal(t, 42, got.TotalEvents)
	assert.Equal(t, int64(75000), got.BountiesEarned)
	assert.Equal(t, []string{"Alpha Centauri", "Sol"}, got.SystemsVisited)
	require.NotNil(t, got.FirstCredits)
	assert.Equal(t, int64(1000), *got.FirstCredits)
	assert.Equal(t, 3, got.EventCounts["FSDJump"])
}

func TestPutSession_UpsertReplaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sum := testSummary("Journal.20240131204512.01.log", "Jameson", "2024-01-31T20:45:12")
	require.NoError(t, store.PutSession(ctx, sum))

	sum.Kills = 99
	require.NoError(t, store.PutSession(ctx, sum))

	got, err := store.GetSession(ctx, sum.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 99, got.Kills)

	sessions, err := store.ListSessions(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, sessions, 1, "upsert must not duplicate")
}

func TestGetSession_NotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetSession(context.Background(), "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestListSessions_OrderAndFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSession(ctx, testSummary("a.log", "Jameson", "2024-01-01T10:00:00")))
	require.NoError(t, store.PutSession(ctx, testSummary("b.log", "Jameson", "2024-02-01T10:00:00")))
	require.NoError(t, store.PutSession(ctx, testSummary("c.log", "Duval", "2024-03-01T10:00:00")))
	require.NoError(t, store.PutSession(ctx, testSummary("d.log", "Jameson", ""))) // no start time

	all, err := store.ListSessions(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "c.log", all[0].SessionID)
	assert.Equal(t, "b.log", all[1].SessionID)
	assert.Equal(t, "a.log", all[2].SessionID)
	assert.Equal(t, "d.log", all[3].SessionID, "null start times sort last")

	jameson, err := store.ListSessions(ctx, "Jameson", 0)
	require.NoError(t, err)
	assert.Len(t, jameson, 3)

	limited, err := store.ListSessions(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestProcessedFiles(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ok, err := store.IsProcessed(ctx, "/logs/a.log")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.MarkProcessed(ctx, "/logs/a.log"))
	require.NoError(t, store.MarkProcessed(ctx, "/logs/a.log")) // idempotent

	ok, err = store.IsProcessed(ctx, "/logs/a.log")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCommitSession_MarksProcessedAtomically(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	sum := testSummary("Journal.20240131204512.01.log", "Jameson", "2024-01-31T20:45:12")
	require.NoError(t, store.CommitSession(ctx, sum))

	got, err := store.GetSession(ctx, sum.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "Jameson", got.Commander)

	ok, err := store.IsProcessed(ctx, sum.LogFile)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAggregate_EmptyStoreIsZeros(t *testing.T) {
	store := openTestStore(t)

	agg, err := store.Aggregate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), agg.TotalSessions)
	assert.Equal(t, int64(0), agg.TotalJumps)
	assert.Equal(t, int64(0), agg.TotalSystemsVisited)
	assert.Nil(t, agg.FirstSession)
	assert.Nil(t, agg.LastSession)
}

func TestAggregate_SumsAndDistinctPlaces(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	a := testSummary("a.log", "Jameson", "2024-01-01T10:00:00")
	b := testSummary("b.log", "Jameson", "2024-02-01T10:00:00")
	b.SystemsVisited = []string{"Barnard's Star", "Sol"} // Sol overlaps with a
	b.StationsVisited = []string{"Daedalus"}
	require.NoError(t, store.PutSession(ctx, a))
	require.NoError(t, store.PutSession(ctx, b))

	agg, err := store.Aggregate(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), agg.TotalSessions)
	assert.Equal(t, int64(6), agg.TotalJumps)
	assert.InDelta(t, 25.0, agg.TotalLightYears, 0.001)
	assert.Equal(t, int64(84), agg.TotalEvents)
	assert.Equal(t, int64(150000), agg.TotalBounties)
	assert.Equal(t, int64(10000), agg.TotalCreditsChange)
	assert.Equal(t, int64(3), agg.TotalSystemsVisited, "distinct across sessions")
	assert.Equal(t, int64(2), agg.TotalStationsVisited)
	require.NotNil(t, agg.FirstSession)
	assert.Equal(t, "2024-01-01T10:00:00", *agg.FirstSession)
	require.NotNil(t, agg.LastSession)
	assert.Equal(t, "2024-02-01T10:00:00", *agg.LastSession)
}

func TestAggregate_CommanderFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.PutSession(ctx, testSummary("a.log", "Jameson", "2024-01-01T10:00:00")))
	require.NoError(t, store.PutSession(ctx, testSummary("b.log", "Duval", "2024-02-01T10:00:00")))

	agg, err := store.Aggregate(ctx, "Jameson")
	require.NoError(t, err)
	assert.Equal(t, int64(1), agg.TotalSessions)
}

func TestGetStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.PutSession(ctx,
			testSummary(fmt.Sprintf("j%d.log", i), "Jameson", fmt.Sprintf("2024-0%d-01T10:00:00", i+1))))
	}
	require.NoError(t, store.PutSession(ctx, testSummary("d.log", "Duval", "2024-04-01T10:00:00")))
	require.NoError(t, store.MarkProcessed(ctx, "/logs/x.log"))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalSessions)
	assert.Equal(t, int64(1), stats.ProcessedFiles)
	require.NotNil(t, stats.OldestSession)
	assert.Equal(t, "2024-01-01T10:00:00", *stats.OldestSession)
	require.NotNil(t, stats.NewestSession)
	assert.Equal(t, "2024-04-01T10:00:00", *stats.NewestSession)
	require.Len(t, stats.Commanders, 2)
	assert.Equal(t, "Jameson", stats.Commanders[0].Commander)
	assert.Equal(t, int64(3), stats.Commanders[0].Count)
}

func TestPurgeAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CommitSession(ctx, testSummary("a.log", "Jameson", "2024-01-01T10:00:00")))
	require.NoError(t, store.PurgeAll(ctx))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalSessions)
	assert.Equal(t, int64(0), stats.ProcessedFiles)

	ok, err := store.IsProcessed(ctx, "/logs/a.log")
	require.NoError(t, err)
	assert.False(t, ok)
}
