package journal

// Event is the typed payload of a decoded journal record. One concrete type
// exists for each event kind the aggregators fold; every other event decodes
// to Unrecognized, which still carries the raw field map for generic display.
type Event interface {
	eventType() string
}

// LoadGame marks the start of a play session and identifies the commander.
type LoadGame struct {
	Commander  string `json:"Commander"`
	Ship       string `json:"Ship"`
	ShipID     int64  `json:"ShipID"`
	Credits    int64  `json:"Credits"`
	Loan       int64  `json:"Loan"`
	StarSystem string `json:"StarSystem"`
	GameMode   string `json:"GameMode"`
}

// FSDJump is a hyperspace jump to another system.
type FSDJump struct {
	StarSystem string  `json:"StarSystem"`
	JumpDist   float64 `json:"JumpDist"`
}

// Location reports the current star system without a jump.
type Location struct {
	StarSystem string `json:"StarSystem"`
}

// Docked is written when the ship docks at a station.
type Docked struct {
	StationName string `json:"StationName"`
}

// Undocked is written when the ship leaves a station.
type Undocked struct{}

// Touchdown is a planetary landing.
type Touchdown struct{}

// Bounty is a bounty voucher awarded for a kill.
type Bounty struct {
	TotalReward int64 `json:"TotalReward"`
}

// FactionKillBond is a combat bond awarded in a conflict zone.
type FactionKillBond struct {
	Reward int64 `json:"Reward"`
}

// Died is written when the commander's ship is destroyed.
type Died struct{}

// Scan is a body scan.
type Scan struct{}

// FSSBodySignals is a full-spectrum scanner body signal discovery.
type FSSBodySignals struct{}

// SAAScanComplete is a completed detailed surface scan.
type SAAScanComplete struct{}

// CodexEntry is a new codex discovery.
type CodexEntry struct{}

// SellExplorationData is a sale of accumulated exploration data.
type SellExplorationData struct {
	TotalEarnings int64 `json:"TotalEarnings"`
}

// MarketBuy is a commodity purchase.
type MarketBuy struct{}

// MarketSell is a commodity sale. Profit is TotalSale minus the average
// price paid for the sold quantity.
type MarketSell struct {
	TotalSale    int64 `json:"TotalSale"`
	AvgPricePaid int64 `json:"AvgPricePaid"`
	Count        int64 `json:"Count"`
}

// MissionAccepted adds a mission to the active set, keyed by MissionID.
type MissionAccepted struct {
	MissionID          int64  `json:"MissionID"`
	Name               string `json:"Name"`
	Faction            string `json:"Faction"`
	Expiry             string `json:"Expiry"`
	DestinationSystem  string `json:"DestinationSystem"`
	DestinationStation string `json:"DestinationStation"`
}

// InfluenceEffect is a single influence change inside a FactionEffect.
type InfluenceEffect struct {
	Trend     string `json:"Trend"`
	Influence string `json:"Influence"`
}

// FactionEffect describes the reputation/influence outcome of a completed
// mission for one faction.
type FactionEffect struct {
	Faction         string            `json:"Faction"`
	ReputationTrend string            `json:"ReputationTrend"`
	Reputation      string            `json:"Reputation"`
	Influence       []InfluenceEffect `json:"Influence"`
}

// MaterialReward is a material granted by a completed mission.
type MaterialReward struct {
	Name              string `json:"Name"`
	NameLocalised     string `json:"Name_Localised"`
	Category          string `json:"Category"`
	CategoryLocalised string `json:"Category_Localised"`
	Count             int64  `json:"Count"`
}

// MissionCompleted removes a mission from the active set and records its
// rewards and faction effects.
type MissionCompleted struct {
	MissionID       int64            `json:"MissionID"`
	Name            string           `json:"Name"`
	Faction         string           `json:"Faction"`
	Reward          int64            `json:"Reward"`
	FactionEffects  []FactionEffect  `json:"FactionEffects"`
	MaterialsReward []MaterialReward `json:"MaterialsReward"`
}

// MissionFailed removes a mission from the active set and records a failure.
type MissionFailed struct {
	MissionID int64  `json:"MissionID"`
	Name      string `json:"Name"`
	Faction   string `json:"Faction"`
}

// MissionAbandoned removes a mission from the active set.
type MissionAbandoned struct {
	MissionID int64 `json:"MissionID"`
}

// Rank reports the commander's ranks across the eight known categories.
// Pointer fields distinguish absent keys, which must not overwrite.
type Rank struct {
	Combat       *int `json:"Combat"`
	Trade        *int `json:"Trade"`
	Explore      *int `json:"Explore"`
	Empire       *int `json:"Empire"`
	Federation   *int `json:"Federation"`
	CQC          *int `json:"CQC"`
	Mercenary    *int `json:"Mercenary"`
	Exobiologist *int `json:"Exobiologist"`
}

// Progress reports rank progress percentages for the same eight categories.
type Progress struct {
	Combat       *int `json:"Combat"`
	Trade        *int `json:"Trade"`
	Explore      *int `json:"Explore"`
	Empire       *int `json:"Empire"`
	Federation   *int `json:"Federation"`
	CQC          *int `json:"CQC"`
	Mercenary    *int `json:"Mercenary"`
	Exobiologist *int `json:"Exobiologist"`
}

// Powerplay reports the commander's power pledge state.
type Powerplay struct {
	Power       string `json:"Power"`
	Rank        int    `json:"Rank"`
	Merits      int    `json:"Merits"`
	Votes       int    `json:"Votes"`
	TimePledged int64  `json:"TimePledged"`
}

// FactionStanding is one entry of a Reputation event's Factions list. The
// journal supplies Reputation either as a number or as a textual rating.
type FactionStanding struct {
	Name       string   `json:"Name"`
	Reputation RepValue `json:"Reputation"`
}

// Reputation reports current standings with factions. The journal emits two
// shapes: a Factions array, or flat faction:value top-level keys. The flat
// form is recovered from Record.Raw by the folding layer.
type Reputation struct {
	Factions []FactionStanding `json:"Factions"`
}

// Promotion is a rank promotion notice.
type Promotion struct {
	Rank    string `json:"Rank"`
	NewRank int    `json:"NewRank"`
}

// Unrecognized is the catch-all for event types the aggregators do not fold.
// The raw field map is preserved so callers can still display the event.
type Unrecognized struct {
	Fields map[string]any
}

func (LoadGame) eventType() string            { return "LoadGame" }
func (FSDJump) eventType() string             { return "FSDJump" }
func (Location) eventType() string            { return "Location" }
func (Docked) eventType() string              { return "Docked" }
func (Undocked) eventType() string            { return "Undocked" }
func (Touchdown) eventType() string           { return "Touchdown" }
func (Bounty) eventType() string              { return "Bounty" }
func (FactionKillBond) eventType() string     { return "FactionKillBond" }
func (Died) eventType() string                { return "Died" }
func (Scan) eventType() string                { return "Scan" }
func (FSSBodySignals) eventType() string      { return "FSSBodySignals" }
func (SAAScanComplete) eventType() string     { return "SAAScanComplete" }
func (CodexEntry) eventType() string          { return "CodexEntry" }
func (SellExplorationData) eventType() string { return "SellExplorationData" }
func (MarketBuy) eventType() string           { return "MarketBuy" }
func (MarketSell) eventType() string          { return "MarketSell" }
func (MissionAccepted) eventType() string     { return "MissionAccepted" }
func (MissionCompleted) eventType() string    { return "MissionCompleted" }
func (MissionFailed) eventType() string       { return "MissionFailed" }
func (MissionAbandoned) eventType() string    { return "MissionAbandoned" }
func (Rank) eventType() string                { return "Rank" }
func (Progress) eventType() string            { return "Progress" }
func (Powerplay) eventType() string           { return "Powerplay" }
func (Reputation) eventType() string          { return "Reputation" }
func (Promotion) eventType() string           { return "Promotion" }
func (Unrecognized) eventType() string        { return "Unrecognized" }
