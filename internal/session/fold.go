package session

import (
	"fmt"
	"os"
	"strings"

	"github.com/rwharper/edla/internal/journal"
)

// Fold applies one event's folding rules to the counters. It is the single
// rule table shared by the live tracker and the archival processor, so the
// two cannot drift. A panic while folding one record is recovered here: one
// corrupt record must not lose the rest of the file or session.
func Fold(c *Counters, rec journal.Record) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "warning: folding %s event: %v\n", rec.Type, r)
		}
	}()

	// Any event carrying Credits moves the running balance; a positive delta
	// is earnings, anything else is spending.
	if rec.Credits != nil {
		if c.CurrentCredits != nil {
			change := *rec.Credits - *c.CurrentCredits
			if change > 0 {
				c.MoneyEarned += change
			} else {
				c.MoneySpent += -change
			}
		}
		credits := *rec.Credits
		c.CurrentCredits = &credits
	}

	switch e := rec.Event.(type) {
	case *journal.FSDJump:
		c.Jumps++
		c.LightYearsTraveled += e.JumpDist
		if e.StarSystem != "" {
			c.CurrentSystem = e.StarSystem
			c.SystemsVisited[e.StarSystem] = struct{}{}
		}

	case *journal.Location:
		if e.StarSystem != "" {
			c.CurrentSystem = e.StarSystem
			c.SystemsVisited[e.StarSystem] = struct{}{}
		}

	case *journal.Docked:
		if e.StationName != "" {
			c.StationsVisited[e.StationName] = struct{}{}
		}

	case *journal.Touchdown:
		c.PlanetsLanded++

	case *journal.Bounty:
		if e.TotalReward > 0 {
			c.BountiesEarned += e.TotalReward
			c.Kills++
		}

	case *journal.FactionKillBond:
		if e.Reward > 0 {
			c.CombatBonds += e.Reward
			c.Kills++
		}

	case *journal.Died:
		c.Deaths++

	case *journal.Scan:
		c.Scans++

	case *journal.FSSBodySignals:
		c.FSSScans++

	case *journal.SAAScanComplete:
		c.DSSScans++

	case *journal.SellExplorationData:
		c.ExplorationValue += e.TotalEarnings

	case *journal.MarketSell:
		// Sales at a loss are dropped, not netted. Documented behavior
		// inherited from the stats this replaces; do not "fix" silently.
		profit := e.TotalSale - e.AvgPricePaid*e.Count
		if profit > 0 {
			c.TradeProfit += profit
		}

	case *journal.MissionAccepted:
		c.upsertMission(Mission{
			MissionID:          e.MissionID,
			Name:               e.Name,
			Faction:            e.Faction,
			Expiry:             e.Expiry,
			DestinationSystem:  e.DestinationSystem,
			DestinationStation: e.DestinationStation,
		})

	case *journal.MissionCompleted:
		c.removeMission(e.MissionID)
		c.MissionsCompleted++
		c.MissionRewards += e.Reward
		c.CompletedMissions = append(c.CompletedMissions, CompletedMission{
			Name:            e.Name,
			Faction:         e.Faction,
			Reward:          e.Reward,
			FactionEffects:  flattenFactionEffects(e.FactionEffects),
			MaterialsReward: flattenMaterials(e.MaterialsReward),
		})

	case *journal.MissionFailed:
		c.removeMission(e.MissionID)
		c.FailedMissions = append(c.FailedMissions, FailedMission{
			Name:    e.Name,
			Faction: e.Faction,
		})

	case *journal.MissionAbandoned:
		c.removeMission(e.MissionID)

	case *journal.Rank:
		mergeRanks(c.Snapshot.Ranks, e.Combat, e.Trade, e.Explore, e.Empire, e.Federation, e.CQC, e.Mercenary, e.Exobiologist)

	case *journal.Progress:
		mergeRanks(c.Snapshot.Progress, e.Combat, e.Trade, e.Explore, e.Empire, e.Federation, e.CQC, e.Mercenary, e.Exobiologist)

	case *journal.Powerplay:
		c.Snapshot.Powerplay = map[string]any{
			"Power":       e.Power,
			"Rank":        e.Rank,
			"Merits":      e.Merits,
			"Votes":       e.Votes,
			"TimePledged": e.TimePledged,
		}

	case *journal.Reputation:
		foldReputation(c, e, rec.Raw)
	}

	if rec.Ship != nil {
		c.CurrentShip = *rec.Ship
	}
}

// upsertMission replaces any active mission with the same id, else appends.
func (c *Counters) upsertMission(m Mission) {
	c.removeMission(m.MissionID)
	c.ActiveMissions = append(c.ActiveMissions, m)
}

func (c *Counters) removeMission(missionID int64) {
	kept := c.ActiveMissions[:0]
	for _, m := range c.ActiveMissions {
		if m.MissionID != missionID {
			kept = append(kept, m)
		}
	}
	c.ActiveMissions = kept
}

// foldReputation handles both Reputation shapes: a Factions list, or flat
// faction:value top-level keys. Unrecognized textual ratings are ignored,
// never defaulted.
func foldReputation(c *Counters, e *journal.Reputation, raw map[string]any) {
	if e.Factions != nil {
		for _, f := range e.Factions {
			if f.Name == "" || !f.Reputation.Known {
				continue
			}
			c.Reputation[f.Name] = f.Reputation.Value
		}
		return
	}

	for key, value := range raw {
		if key == "event" || key == "timestamp" || key == "Factions" {
			continue
		}
		switch v := value.(type) {
		case float64:
			c.Reputation[key] = v
		case string:
			if n, ok := journal.RepTextValue(v); ok {
				c.Reputation[key] = n
			}
		}
	}
}

// rankCategories mirrors the journal's eight rank/progress keys, in the
// order mergeRanks receives its values.
var rankCategories = []string{
	"Combat", "Trade", "Explore", "Empire",
	"Federation", "CQC", "Mercenary", "Exobiologist",
}

// mergeRanks overwrites only the categories present in the event.
func mergeRanks(dst map[string]any, values ...*int) {
	for i, v := range values {
		if v != nil {
			dst[rankCategories[i]] = *v
		}
	}
}

func flattenFactionEffects(effects []journal.FactionEffect) []FactionEffect {
	var out []FactionEffect
	for _, fe := range effects {
		var influence []string
		for _, inf := range fe.Influence {
			part := strings.TrimSpace(inf.Influence + " " + inf.Trend)
			if part != "" {
				influence = append(influence, part)
			}
		}
		out = append(out, FactionEffect{
			Faction:         fe.Faction,
			ReputationTrend: fe.ReputationTrend,
			Reputation:      fe.Reputation,
			Influence:       influence,
		})
	}
	return out
}

func flattenMaterials(materials []journal.MaterialReward) []MaterialReward {
	var out []MaterialReward
	for _, mat := range materials {
		name := mat.NameLocalised
		if name == "" {
			name = mat.Name
		}
		category := mat.CategoryLocalised
		if category == "" {
			category = mat.Category
		}
		out = append(out, MaterialReward{Name: name, Category: category, Count: mat.Count})
	}
	return out
}
