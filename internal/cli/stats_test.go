package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rwharper/edla/internal/session"
	"github.com/rwharper/edla/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_EmptyStore(t *testing.T) {
	store, _ := setupCLITest(t)

	cmd := &StatsCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})
	assert.Contains(t, output, "No sessions recorded yet")
}

func TestStats_PrintsTotals(t *testing.T) {
	store, _ := setupCLITest(t)
	start := "2024-01-01T10:00:00"
	sum := &session.Summary{
		SessionID:          "a.log",
		LogFile:            "/logs/a.log",
		StartTime:          &start,
		Commander:          "Jameson",
		TotalEvents:        5000,
		Jumps:              10,
		LightYearsTraveled: 123.4,
		Kills:              7,
		BountiesEarned:     1250000,
		CreditsChange:      99000,
		SystemsVisited:     []string{"Sol", "Alpha Centauri"},
	}
	require.NoError(t, store.PutSession(context.Background(), sum))

	cmd := &StatsCommand{globals: &GlobalFlags{}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	assert.Contains(t, output, "all commanders")
	assert.Contains(t, output, "Sessions:          1")
	assert.Contains(t, output, "First session:     2024-01-01T10:00:00")
	assert.Contains(t, output, "Events processed:  5,000")
	assert.Contains(t, output, "1,250,000 cr")
	assert.Contains(t, output, "Systems visited:   2")
}

func TestStats_CommanderFilter(t *testing.T) {
	store, _ := setupCLITest(t)
	seedSession(t, store, "a.log", "Jameson", "2024-01-01T10:00:00")
	seedSession(t, store, "b.log", "Duval", "2024-02-01T10:00:00")

	cmd := &StatsCommand{globals: &GlobalFlags{}, Commander: "Duval"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	assert.Contains(t, output, "Lifetime statistics for Duval")
	assert.Contains(t, output, "Sessions:          1")
}

func TestStats_JSONOutput(t *testing.T) {
	store, _ := setupCLITest(t)
	seedSession(t, store, "a.log", "Jameson", "2024-01-01T10:00:00")

	cmd := &StatsCommand{globals: &GlobalFlags{JSON: true}}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	var agg storage.AggregateStats
	require.NoError(t, json.Unmarshal([]byte(output), &agg))
	assert.Equal(t, int64(1), agg.TotalSessions)
	assert.Equal(t, int64(2), agg.TotalJumps)
}
