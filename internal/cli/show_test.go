package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rwharper/edla/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow_RequiresID(t *testing.T) {
	cmd := &ShowCommand{globals: &GlobalFlags{}}
	err := cmd.Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id is required")
}

func TestShow_NotFound(t *testing.T) {
	store, _ := setupCLITest(t)

	cmd := &ShowCommand{globals: &GlobalFlags{}, ID: "missing.log"}
	err := cmd.executeWithStore(store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestShow_PrintsSummary(t *testing.T) {
	store, _ := setupCLITest(t)
	start := "2024-01-31T20:45:12"
	sum := &session.Summary{
		SessionID:       "Journal.20240131204512.01.log",
		LogFile:         "/logs/Journal.20240131204512.01.log",
		StartTime:       &start,
		EndTime:         "2024-01-31T22:00:00Z",
		Commander:       "Jameson",
		TotalEvents:     1234,
		Jumps:           5,
		Kills:           2,
		BountiesEarned:  75000,
		FirstShip:       "Eagle",
		LastShip:        "Python",
		EventCounts:     map[string]int{"FSDJump": 5, "Scan": 10},
		SystemsVisited:  []string{"Sol"},
		StationsVisited: []string{"Abraham Lincoln"},
	}
	require.NoError(t, store.PutSession(context.Background(), sum))

	cmd := &ShowCommand{globals: &GlobalFlags{}, ID: sum.SessionID}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	assert.Contains(t, output, "Session Journal.20240131204512.01.log")
	assert.Contains(t, output, "Commander:     Jameson")
	assert.Contains(t, output, "1,234")
	assert.Contains(t, output, "Eagle -> Python")
	assert.Contains(t, output, "75,000 cr bounties")
	assert.Contains(t, output, "Top event types:")
	assert.Contains(t, output, "Scan")
}

func TestShow_EventsFlag(t *testing.T) {
	store, _ := setupCLITest(t)
	sum := &session.Summary{
		SessionID: "a.log",
		LogFile:   "/logs/a.log",
		Events: []session.EventSample{
			{Event: "FSDJump", Timestamp: "2024-01-31T20:46:00Z"},
		},
		EventsSummary: "Total: 251 events (showing first 100 and last 100)",
	}
	require.NoError(t, store.PutSession(context.Background(), sum))

	cmd := &ShowCommand{globals: &GlobalFlags{}, ID: "a.log", Events: true}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	assert.Contains(t, output, "Total: 251 events")
	assert.Contains(t, output, "2024-01-31T20:46:00Z  FSDJump")
}

func TestShow_JSONOutput(t *testing.T) {
	store, _ := setupCLITest(t)
	seedSession(t, store, "a.log", "Jameson", "2024-01-01T10:00:00")

	cmd := &ShowCommand{globals: &GlobalFlags{JSON: true}, ID: "a.log"}
	output := captureOutput(t, func() {
		require.NoError(t, cmd.executeWithStore(store))
	})

	var got session.Summary
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, "a.log", got.SessionID)
	assert.Equal(t, "Jameson", got.Commander)
}
