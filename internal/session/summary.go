package session

// EventSample is one retained raw journal entry in a session summary.
type EventSample struct {
	Event     string         `json:"event"`
	Timestamp string         `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// Summary is the immutable per-file session record produced by the archival
// processor and persisted in the session store. Field names match the
// serialized snake_case layout.
type Summary struct {
	SessionID string  `json:"session_id"`
	LogFile   string  `json:"log_file"`
	StartTime *string `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Commander string  `json:"commander"`

	Events        []EventSample  `json:"events"`
	EventsSummary string         `json:"events_summary,omitempty"`
	EventCounts   map[string]int `json:"event_counts"`
	TotalEvents   int            `json:"total_events"`

	FirstShip     string `json:"first_ship"`
	LastShip      string `json:"last_ship"`
	FirstSystem   string `json:"first_system"`
	LastSystem    string `json:"last_system"`
	FirstCredits  *int64 `json:"first_credits"`
	LastCredits   *int64 `json:"last_credits"`
	CreditsChange int64  `json:"credits_change"`

	Jumps              int     `json:"jumps"`
	LightYearsTraveled float64 `json:"light_years_traveled"`
	DockedCount        int     `json:"docked_count"`
	UndockedCount      int     `json:"undocked_count"`
	PlanetsLanded      int     `json:"planets_landed"`

	BountiesEarned int64 `json:"bounties_earned"`
	BountyCount    int   `json:"bounty_count"`
	CombatBonds    int64 `json:"combat_bonds"`
	Died           bool  `json:"died"`
	Kills          int   `json:"kills"`
	Deaths         int   `json:"deaths"`

	Scans            int   `json:"scans"`
	FSSScans         int   `json:"fss_scans"`
	DSSScans         int   `json:"dss_scans"`
	CodexEntries     int   `json:"codex_entries"`
	ExplorationValue int64 `json:"exploration_value"`

	MarketBuys  int   `json:"market_buys"`
	MarketSells int   `json:"market_sells"`
	TradeProfit int64 `json:"trade_profit"`

	MissionsAccepted  int   `json:"missions_accepted"`
	MissionsCompleted int   `json:"missions_completed"`
	MissionsFailed    int   `json:"missions_failed"`
	MissionRewards    int64 `json:"mission_rewards"`

	SystemsVisited  []string `json:"systems_visited"`
	StationsVisited []string `json:"stations_visited"`
	UniqueShips     []string `json:"unique_ships"`

	StartRanks map[string]int `json:"start_ranks"`
	EndRanks   map[string]int `json:"end_ranks"`
}
