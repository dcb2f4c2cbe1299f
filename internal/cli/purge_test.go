package cli

import (
	"context"
	"encoding/json"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurge_WithoutAllFlag_Errors(t *testing.T) {
	err := RunWithArgs("test", []string{"purge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purge requires --all flag for safety")
}

func TestPurge_WithAllAndForce_Succeeds(t *testing.T) {
	store, db := setupCLITest(t)
	seedSession(t, store, "a.log", "Jameson", "2024-01-01T10:00:00")
	require.NoError(t, store.MarkProcessed(context.Background(), "/logs/a.log"))

	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{}}
	cmd.setDB(db)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})
	assert.Contains(t, output, "Purged all session data")

	var sessions, processed int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&sessions))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM processed_files").Scan(&processed))
	assert.Zero(t, sessions)
	assert.Zero(t, processed)
}

func TestPurge_JSONOutput(t *testing.T) {
	_, db := setupCLITest(t)

	cmd := &PurgeCommand{All: true, Force: true, globals: &GlobalFlags{JSON: true}}
	cmd.setDB(db)

	output := captureOutput(t, func() {
		require.NoError(t, cmd.Execute(nil))
	})

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, true, result["purged"])
}
