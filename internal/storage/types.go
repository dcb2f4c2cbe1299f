package storage

// AggregateStats is the cross-session rollup used for historical display.
// Every field is always populated; aggregating zero sessions yields zeros,
// never nulls, so callers need no empty-store special case.
type AggregateStats struct {
	TotalSessions          int64   `json:"total_sessions"`
	TotalJumps             int64   `json:"total_jumps"`
	TotalLightYears        float64 `json:"total_light_years"`
	TotalDocked            int64   `json:"total_docked"`
	TotalPlanetsLanded     int64   `json:"total_planets_landed"`
	TotalEvents            int64   `json:"total_events"`
	TotalCreditsChange     int64   `json:"total_credits_change"`
	TotalKills             int64   `json:"total_kills"`
	TotalDeaths            int64   `json:"total_deaths"`
	TotalBounties          int64   `json:"total_bounties"`
	TotalCombatBonds       int64   `json:"total_combat_bonds"`
	TotalExplorationValue  int64   `json:"total_exploration_value"`
	TotalTradeProfit       int64   `json:"total_trade_profit"`
	TotalMissionRewards    int64   `json:"total_mission_rewards"`
	TotalSystemsVisited    int64   `json:"total_systems_visited"`
	TotalStationsVisited   int64   `json:"total_stations_visited"`
	TotalScans             int64   `json:"total_scans"`
	TotalFSSScans          int64   `json:"total_fss_scans"`
	TotalDSSScans          int64   `json:"total_dss_scans"`
	TotalCodexEntries      int64   `json:"total_codex_entries"`
	TotalMissionsAccepted  int64   `json:"total_missions_accepted"`
	TotalMissionsCompleted int64   `json:"total_missions_completed"`
	TotalMissionsFailed    int64   `json:"total_missions_failed"`
	FirstSession           *string `json:"first_session"`
	LastSession            *string `json:"last_session"`
}

// Stats holds store-level health numbers for the status command.
type Stats struct {
	TotalSessions  int64
	ProcessedFiles int64
	OldestSession  *string
	NewestSession  *string
	Commanders     []CommanderCount
}

// CommanderCount pairs a commander with their stored session count.
type CommanderCount struct {
	Commander string
	Count     int64
}
