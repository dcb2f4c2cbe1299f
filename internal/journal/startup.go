package journal

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
)

// Snapshot holds the startup sequence a session writes right after login:
// the LoadGame identity plus rank, progress, powerplay, and superpower
// reputation standings. It is the shape consumed by the live tracker's
// SetStartupSnapshot.
type Snapshot struct {
	LoadGame   map[string]any `json:"load_game"`
	Ranks      map[string]any `json:"ranks"`
	Progress   map[string]any `json:"progress"`
	Powerplay  map[string]any `json:"powerplay"`
	Reputation map[string]any `json:"reputation"`
}

// EmptySnapshot returns a Snapshot with all categories allocated.
func EmptySnapshot() Snapshot {
	return Snapshot{
		LoadGame:   map[string]any{},
		Ranks:      map[string]any{},
		Progress:   map[string]any{},
		Powerplay:  map[string]any{},
		Reputation: map[string]any{},
	}
}

// Clone deep-copies the snapshot's category maps.
func (s Snapshot) Clone() Snapshot {
	out := EmptySnapshot()
	for k, v := range s.LoadGame {
		out.LoadGame[k] = v
	}
	for k, v := range s.Ranks {
		out.Ranks[k] = v
	}
	for k, v := range s.Progress {
		out.Progress[k] = v
	}
	for k, v := range s.Powerplay {
		out.Powerplay[k] = v
	}
	for k, v := range s.Reputation {
		out.Reputation[k] = v
	}
	return out
}

// rankCategories are the eight known rank/progress keys.
var rankCategories = []string{
	"Combat", "Trade", "Explore", "Empire",
	"Federation", "CQC", "Mercenary", "Exobiologist",
}

// superpowers are the startup Reputation keys (-100 to +100 scale).
var superpowers = []string{"Empire", "Federation", "Independent", "Alliance"}

// ReadStartupSnapshot reads the newest Journal*.log in logDir and extracts
// the first LoadGame plus the surrounding Rank, Progress, Powerplay, and
// Reputation events, stopping at the first gameplay event after LoadGame.
// A missing directory or unreadable file yields an empty snapshot.
func ReadStartupSnapshot(logDir string) Snapshot {
	result := EmptySnapshot()

	matches, err := filepath.Glob(filepath.Join(logDir, "Journal*.log"))
	if err != nil || len(matches) == 0 {
		return result
	}
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	latest := matches[0]

	f, err := os.Open(latest)
	if err != nil {
		return result
	}
	defer f.Close()

	seenLoadGame := false
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		rec, ok := Decode(scanner.Bytes())
		if !ok {
			continue
		}

		switch e := rec.Event.(type) {
		case *LoadGame:
			if seenLoadGame {
				continue
			}
			result.LoadGame = map[string]any{
				"Commander":  e.Commander,
				"Ship":       e.Ship,
				"ShipID":     e.ShipID,
				"Credits":    e.Credits,
				"Loan":       e.Loan,
				"StarSystem": e.StarSystem,
				"GameMode":   e.GameMode,
			}
			seenLoadGame = true
		case *Rank:
			mergeRankFields(result.Ranks, e.Combat, e.Trade, e.Explore, e.Empire, e.Federation, e.CQC, e.Mercenary, e.Exobiologist)
		case *Progress:
			mergeRankFields(result.Progress, e.Combat, e.Trade, e.Explore, e.Empire, e.Federation, e.CQC, e.Mercenary, e.Exobiologist)
		case *Powerplay:
			result.Powerplay = map[string]any{
				"Power":       e.Power,
				"Rank":        e.Rank,
				"Merits":      e.Merits,
				"Votes":       e.Votes,
				"TimePledged": e.TimePledged,
			}
		case *Reputation:
			// Startup Reputation carries superpower standings as flat keys;
			// it only counts once the session identity is known.
			if !seenLoadGame {
				continue
			}
			for _, key := range superpowers {
				if v, ok := rec.Raw[key]; ok {
					result.Reputation[key] = v
				}
			}
		default:
			// The startup run is over once gameplay events appear.
			if seenLoadGame {
				return result
			}
		}
	}
	return result
}

// mergeRankFields writes the eight category values in declaration order,
// skipping absent ones.
func mergeRankFields(dst map[string]any, values ...*int) {
	for i, v := range values {
		if v != nil {
			dst[rankCategories[i]] = *v
		}
	}
}
