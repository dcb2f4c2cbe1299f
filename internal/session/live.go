package session

import (
	"math"
	"sync"

	"github.com/rwharper/edla/internal/journal"
)

// Tracker is the live aggregator: it folds the incremental event stream for
// the currently active journal file and resets wholesale when a new session
// is detected. It is safe for the tailing goroutine to feed while another
// goroutine reads snapshots.
type Tracker struct {
	mu        sync.Mutex
	commander string
	logFile   string
	startTime string
	counters  *Counters
}

// NewTracker returns a Tracker with no active session.
func NewTracker() *Tracker {
	return &Tracker{counters: NewCounters()}
}

// Process folds one record into the live session. A LoadGame naming a new
// commander, or arriving from a different journal file, atomically replaces
// the whole session state; a duplicate LoadGame for the same commander and
// file only refreshes current credits/ship/system. Events arriving before
// any LoadGame are dropped.
func (t *Tracker) Process(rec journal.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if lg, ok := rec.Event.(*journal.LoadGame); ok && lg.Commander != "" {
		switch {
		case t.commander == "" || rec.LogFile != t.logFile:
			t.resetLocked()
			t.commander = lg.Commander
			t.logFile = rec.LogFile
			t.startTime = rec.Timestamp

			credits := lg.Credits
			t.counters.StartCredits = &credits
			current := credits
			t.counters.CurrentCredits = &current
			t.counters.FirstShip = lg.Ship
			t.counters.CurrentShip = lg.Ship
			t.counters.FirstSystem = lg.StarSystem
			t.counters.CurrentSystem = lg.StarSystem

		case lg.Commander == t.commander:
			// Same commander and file: an update pulse, not a new session.
			credits := lg.Credits
			t.counters.CurrentCredits = &credits
			if lg.Ship != "" {
				t.counters.CurrentShip = lg.Ship
			}
			if lg.StarSystem != "" {
				t.counters.CurrentSystem = lg.StarSystem
			}
		}
	}

	if t.commander == "" {
		return
	}

	Fold(t.counters, rec)
}

// resetLocked discards all session state. Caller holds the mutex.
func (t *Tracker) resetLocked() {
	t.commander = ""
	t.logFile = ""
	t.startTime = ""
	t.counters = NewCounters()
}

// Reset discards the live session entirely.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

// HasActiveSession reports whether a LoadGame has established an identity.
func (t *Tracker) HasActiveSession() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.commander != ""
}

// SetStartupSnapshot merges externally read startup data into the snapshot
// categories without disturbing live counters. Empty categories in the
// incoming snapshot leave the existing ones untouched.
func (t *Tracker) SetStartupSnapshot(snap journal.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(snap.LoadGame) > 0 {
		t.counters.Snapshot.LoadGame = copyMap(snap.LoadGame)
	}
	if len(snap.Ranks) > 0 {
		t.counters.Snapshot.Ranks = copyMap(snap.Ranks)
	}
	if len(snap.Progress) > 0 {
		t.counters.Snapshot.Progress = copyMap(snap.Progress)
	}
	if len(snap.Powerplay) > 0 {
		t.counters.Snapshot.Powerplay = copyMap(snap.Powerplay)
	}
	if len(snap.Reputation) > 0 {
		t.counters.Snapshot.Reputation = copyMap(snap.Reputation)
	}
}

// CreditsStats is the credits block of a live statistics snapshot.
type CreditsStats struct {
	Start   *int64 `json:"start"`
	Current *int64 `json:"current"`
	Change  int64  `json:"change"`
	Earned  int64  `json:"earned"`
	Spent   int64  `json:"spent"`
}

// TravelStats is the travel block of a live statistics snapshot.
type TravelStats struct {
	LightYears      float64 `json:"light_years"`
	Jumps           int     `json:"jumps"`
	SystemsVisited  int     `json:"systems_visited"`
	StationsVisited int     `json:"stations_visited"`
	PlanetsLanded   int     `json:"planets_landed"`
}

// CombatStats is the combat block of a live statistics snapshot.
type CombatStats struct {
	Kills          int   `json:"kills"`
	Deaths         int   `json:"deaths"`
	BountiesEarned int64 `json:"bounties_earned"`
	CombatBonds    int64 `json:"combat_bonds"`
}

// ExplorationStats is the exploration block of a live statistics snapshot.
type ExplorationStats struct {
	Scans            int   `json:"scans"`
	FSSScans         int   `json:"fss_scans"`
	DSSScans         int   `json:"dss_scans"`
	ExplorationValue int64 `json:"exploration_value"`
}

// TradingStats is the trading block of a live statistics snapshot.
type TradingStats struct {
	TradeProfit int64 `json:"trade_profit"`
}

// MissionStats is the missions block of a live statistics snapshot.
type MissionStats struct {
	Completed     int                `json:"completed"`
	Rewards       int64              `json:"rewards"`
	Active        []Mission          `json:"active"`
	CompletedList []CompletedMission `json:"completed_list"`
	FailedList    []FailedMission    `json:"failed_list"`
}

// Statistics is an immutable-for-the-caller snapshot of the live session.
type Statistics struct {
	Commander       string             `json:"commander"`
	StartTime       string             `json:"start_time"`
	CurrentSystem   string             `json:"current_system"`
	CurrentShip     string             `json:"current_ship"`
	Credits         CreditsStats       `json:"credits"`
	Travel          TravelStats        `json:"travel"`
	Combat          CombatStats        `json:"combat"`
	Exploration     ExplorationStats   `json:"exploration"`
	Trading         TradingStats       `json:"trading"`
	Missions        MissionStats       `json:"missions"`
	Reputation      map[string]float64 `json:"reputation"`
	StartupSnapshot journal.Snapshot   `json:"startup_snapshot"`
}

// Statistics returns a deep-copied snapshot of every live counter.
func (t *Tracker) Statistics() Statistics {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := t.counters
	stats := Statistics{
		Commander:     t.commander,
		StartTime:     t.startTime,
		CurrentSystem: c.CurrentSystem,
		CurrentShip:   c.CurrentShip,
		Credits: CreditsStats{
			Start:   copyInt64(c.StartCredits),
			Current: copyInt64(c.CurrentCredits),
			Change:  c.CreditsChange(),
			Earned:  c.MoneyEarned,
			Spent:   c.MoneySpent,
		},
		Travel: TravelStats{
			LightYears:      math.Round(c.LightYearsTraveled*100) / 100,
			Jumps:           c.Jumps,
			SystemsVisited:  len(c.SystemsVisited),
			StationsVisited: len(c.StationsVisited),
			PlanetsLanded:   c.PlanetsLanded,
		},
		Combat: CombatStats{
			Kills:          c.Kills,
			Deaths:         c.Deaths,
			BountiesEarned: c.BountiesEarned,
			CombatBonds:    c.CombatBonds,
		},
		Exploration: ExplorationStats{
			Scans:            c.Scans,
			FSSScans:         c.FSSScans,
			DSSScans:         c.DSSScans,
			ExplorationValue: c.ExplorationValue,
		},
		Trading: TradingStats{TradeProfit: c.TradeProfit},
		Missions: MissionStats{
			Completed:     c.MissionsCompleted,
			Rewards:       c.MissionRewards,
			Active:        append([]Mission(nil), c.ActiveMissions...),
			CompletedList: append([]CompletedMission(nil), c.CompletedMissions...),
			FailedList:    append([]FailedMission(nil), c.FailedMissions...),
		},
		Reputation:      make(map[string]float64, len(c.Reputation)),
		StartupSnapshot: c.Snapshot.Clone(),
	}
	for k, v := range c.Reputation {
		stats.Reputation[k] = v
	}
	return stats
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
