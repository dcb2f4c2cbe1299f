package session

import (
	"sort"

	"github.com/rwharper/edla/internal/journal"
)

// Mission is an entry of the active mission list, keyed unique by MissionID.
type Mission struct {
	MissionID          int64  `json:"MissionID"`
	Name               string `json:"Name"`
	Faction            string `json:"Faction"`
	Expiry             string `json:"Expiry"`
	DestinationSystem  string `json:"DestinationSystem"`
	DestinationStation string `json:"DestinationStation"`
}

// FactionEffect is the flattened reputation/influence outcome recorded with
// a completed mission.
type FactionEffect struct {
	Faction         string   `json:"Faction"`
	ReputationTrend string   `json:"ReputationTrend"`
	Reputation      string   `json:"Reputation"`
	Influence       []string `json:"Influence"`
}

// MaterialReward is a material granted by a completed mission, with
// localised names preferred.
type MaterialReward struct {
	Name     string `json:"Name"`
	Category string `json:"Category"`
	Count    int64  `json:"Count"`
}

// CompletedMission is an append-only completion record.
type CompletedMission struct {
	Name            string           `json:"Name"`
	Faction         string           `json:"Faction"`
	Reward          int64            `json:"Reward"`
	FactionEffects  []FactionEffect  `json:"FactionEffects"`
	MaterialsReward []MaterialReward `json:"MaterialsReward"`
}

// FailedMission is an append-only failure record.
type FailedMission struct {
	Name    string `json:"Name"`
	Faction string `json:"Faction"`
}

// Counters is the running aggregate state both aggregators fold events into.
// The live tracker resets it wholesale on session change; the archival
// processor allocates a fresh one per file.
type Counters struct {
	StartCredits   *int64
	CurrentCredits *int64
	MoneyEarned    int64
	MoneySpent     int64

	Jumps              int
	LightYearsTraveled float64
	SystemsVisited     map[string]struct{}
	StationsVisited    map[string]struct{}
	PlanetsLanded      int

	Kills          int
	Deaths         int
	BountiesEarned int64
	CombatBonds    int64

	Scans            int
	FSSScans         int
	DSSScans         int
	ExplorationValue int64

	TradeProfit int64

	MissionsCompleted int
	MissionRewards    int64
	ActiveMissions    []Mission
	CompletedMissions []CompletedMission
	FailedMissions    []FailedMission

	Reputation map[string]float64
	Snapshot   journal.Snapshot

	FirstShip     string
	CurrentShip   string
	FirstSystem   string
	CurrentSystem string
}

// NewCounters returns a zeroed Counters with all collections allocated.
func NewCounters() *Counters {
	return &Counters{
		SystemsVisited:  make(map[string]struct{}),
		StationsVisited: make(map[string]struct{}),
		Reputation:      make(map[string]float64),
		Snapshot:        journal.EmptySnapshot(),
	}
}

// CreditsChange returns current minus start credits, or 0 when either side
// is unknown.
func (c *Counters) CreditsChange() int64 {
	if c.StartCredits == nil || c.CurrentCredits == nil {
		return 0
	}
	return *c.CurrentCredits - *c.StartCredits
}

// sortedKeys returns a set's members as a sorted slice for serialization.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
