package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJournal(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestProcessor_BasicSession(t *testing.T) {
	path := writeJournal(t, t.TempDir(), "Journal.20240131204512.01.log",
		`{"timestamp":"2024-01-31T20:45:12Z","event":"LoadGame","Commander":"Jameson","Ship":"Anaconda","Credits":1000000,"StarSystem":"Sol"}`,
		`{"timestamp":"2024-01-31T20:46:00Z","event":"FSDJump","StarSystem":"Alpha Centauri","JumpDist":4.3}`,
		`{"timestamp":"2024-01-31T20:50:00Z","event":"Docked","StationName":"Hutton Orbital"}`,
		`{"timestamp":"2024-01-31T20:55:00Z","event":"Undocked"}`,
		`{"timestamp":"2024-01-31T21:00:00Z","event":"Bounty","TotalReward":75000,"Credits":1075000}`,
	)

	sum, err := NewProcessor().Process(path)
	require.NoError(t, err)

	assert.Equal(t, "Journal.20240131204512.01.log", sum.SessionID)
	assert.Equal(t, path, sum.LogFile)
	require.NotNil(t, sum.StartTime)
	assert.Equal(t, "2024-01-31T20:45:12", *sum.StartTime)
	assert.Equal(t, "2024-01-31T21:00:00Z", sum.EndTime)
	assert.Equal(t, "Jameson", sum.Commander)
	assert.Equal(t, 5, sum.TotalEvents)
	assert.Equal(t, 1, sum.Jumps)
	assert.Equal(t, 1, sum.DockedCount)
	assert.Equal(t, 1, sum.UndockedCount)
	assert.Equal(t, 1, sum.BountyCount)
	assert.Equal(t, int64(75000), sum.BountiesEarned)
	assert.Equal(t, 1, sum.Kills)
	assert.False(t, sum.Died)

	require.NotNil(t, sum.FirstCredits)
	assert.Equal(t, int64(1000000), *sum.FirstCredits)
	require.NotNil(t, sum.LastCredits)
	assert.Equal(t, int64(1075000), *sum.LastCredits)
	assert.Equal(t, int64(75000), sum.CreditsChange)

	assert.Equal(t, []string{"Alpha Centauri"}, sum.SystemsVisited)
	assert.Equal(t, []string{"Hutton Orbital"}, sum.StationsVisited)
	assert.Equal(t, []string{"Anaconda"}, sum.UniqueShips)
	assert.Equal(t, 1, sum.EventCounts["FSDJump"])
	assert.Len(t, sum.Events, 5)
	assert.Empty(t, sum.EventsSummary)
}

func TestProcessor_MalformedLinesSkipped(t *testing.T) {
	path := writeJournal(t, t.TempDir(), "Journal.20240131204512.01.log",
		`{"timestamp":"t1","event":"LoadGame","Commander":"Jameson","Ship":"Eagle","Credits":100}`,
		`garbage`,
		``,
		`{"timestamp":"t2","event":"Touchdown"}`,
	)

	sum, err := NewProcessor().Process(path)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalEvents)
	assert.Equal(t, 1, sum.PlanetsLanded)
}

func TestProcessor_MissingFile(t *testing.T) {
	_, err := NewProcessor().Process(filepath.Join(t.TempDir(), "nope.log"))
	assert.Error(t, err)
}

func TestProcessor_SampleBound(t *testing.T) {
	lines := []string{
		`{"timestamp":"t0","event":"LoadGame","Commander":"Jameson","Ship":"Eagle","Credits":100}`,
	}
	for i := 1; i <= 250; i++ {
		lines = append(lines, fmt.Sprintf(`{"timestamp":"t%d","event":"Scan","BodyName":"Body %d"}`, i, i))
	}
	path := writeJournal(t, t.TempDir(), "Journal.20240131204512.01.log", lines...)

	sum, err := NewProcessor().Process(path)
	require.NoError(t, err)

	assert.Equal(t, 251, sum.TotalEvents)
	require.Len(t, sum.Events, 200)
	assert.Equal(t, "Total: 251 events (showing first 100 and last 100)", sum.EventsSummary)
	assert.Equal(t, "t0", sum.Events[0].Timestamp)
	assert.Equal(t, "t99", sum.Events[99].Timestamp)
	assert.Equal(t, "t151", sum.Events[100].Timestamp)
	assert.Equal(t, "t250", sum.Events[199].Timestamp)
}

func TestProcessor_SampleBoundExactBoundary(t *testing.T) {
	var lines []string
	for i := 0; i < 200; i++ {
		lines = append(lines, fmt.Sprintf(`{"timestamp":"t%d","event":"Scan"}`, i))
	}
	path := writeJournal(t, t.TempDir(), "Journal.20240131204512.01.log", lines...)

	sum, err := NewProcessor().Process(path)
	require.NoError(t, err)
	assert.Len(t, sum.Events, 200)
	assert.Empty(t, sum.EventsSummary, "exactly at the bound keeps everything")
}

func TestProcessor_RanksAndPromotions(t *testing.T) {
	path := writeJournal(t, t.TempDir(), "Journal.20240131204512.01.log",
		`{"timestamp":"t1","event":"LoadGame","Commander":"Jameson","Ship":"Eagle","Credits":100}`,
		`{"timestamp":"t2","event":"Rank","Combat":5,"Trade":3,"Explore":7,"Empire":2,"Federation":1}`,
		`{"timestamp":"t3","event":"Rank","Combat":6}`,
		`{"timestamp":"t4","event":"Promotion","Rank":"combat","NewRank":6}`,
	)

	sum, err := NewProcessor().Process(path)
	require.NoError(t, err)

	assert.Equal(t, 5, sum.StartRanks["combat"], "only the first occurrence counts")
	assert.Equal(t, 3, sum.StartRanks["trade"])
	assert.Equal(t, 7, sum.StartRanks["exploration"])
	assert.Equal(t, 6, sum.EndRanks["combat"])
}

func TestProcessor_ShipChanges(t *testing.T) {
	path := writeJournal(t, t.TempDir(), "Journal.20240131204512.01.log",
		`{"timestamp":"t1","event":"LoadGame","Commander":"Jameson","Ship":"Eagle","Credits":100}`,
		`{"timestamp":"t2","event":"Loadout","Ship":"Python"}`,
	)

	sum, err := NewProcessor().Process(path)
	require.NoError(t, err)
	assert.Equal(t, "Eagle", sum.FirstShip)
	assert.Equal(t, "Python", sum.LastShip)
	assert.Equal(t, []string{"Eagle", "Python"}, sum.UniqueShips)
}

func TestParseFilenameTime(t *testing.T) {
	ts := ParseFilenameTime("Journal.20240131204512.01.log")
	require.NotNil(t, ts)
	assert.Equal(t, "2024-01-31T20:45:12", *ts)

	assert.Nil(t, ParseFilenameTime("random.log"))
	assert.Nil(t, ParseFilenameTime("Journal.2024.01.log"))
	assert.Nil(t, ParseFilenameTime("Journal.20241345999999.01.log"), "impossible date")
}
