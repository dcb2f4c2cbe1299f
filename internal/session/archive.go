package session

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rwharper/edla/internal/journal"
)

// sampleHead and sampleTail bound the raw event sample retained per summary.
// The bound caps storage size; it has no bearing on counter correctness.
const (
	sampleHead = 100
	sampleTail = 100
)

// filenameStamp matches the 14-digit timestamp embedded in journal file
// names, e.g. Journal.20240131204512.01.log.
var filenameStamp = regexp.MustCompile(`Journal\.(\d{14})\.`)

// Processor is the archival aggregator: it reads a journal file front to
// back, independent of any tailing offset, and produces one immutable
// Summary per file.
type Processor struct{}

// NewProcessor returns an archival Processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Process reads the whole file and folds its events into a fresh Summary.
// It fails only when the file cannot be opened; malformed lines are skipped
// silently, consumed rather than retried.
func (p *Processor) Process(path string) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	summary := &Summary{
		SessionID:   name,
		LogFile:     path,
		StartTime:   ParseFilenameTime(name),
		EventCounts: make(map[string]int),
		StartRanks:  make(map[string]int),
		EndRanks:    make(map[string]int),
	}

	counters := NewCounters()
	uniqueShips := make(map[string]struct{})
	var samples []EventSample
	var lastTimestamp string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		rec, ok := journal.Decode(scanner.Bytes())
		if !ok {
			continue
		}
		rec.LogFile = path

		if rec.Timestamp != "" {
			lastTimestamp = rec.Timestamp
		}

		samples = append(samples, EventSample{
			Event:     rec.Type,
			Timestamp: rec.Timestamp,
			Data:      rec.Raw,
		})
		summary.TotalEvents++
		summary.EventCounts[rec.Type]++

		Fold(counters, rec)
		p.foldArchival(summary, counters, rec, uniqueShips)
	}
	// A read error mid-file keeps whatever was consumed; the file boundary
	// already guards the caller.
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: read %s: %v\n", path, err)
	}

	summary.EndTime = lastTimestamp
	p.finish(summary, counters, samples, uniqueShips)
	return summary, nil
}

// foldArchival applies the archival-only tallies on top of the shared fold:
// per-type counts the live view never needs, plus session identity captured
// from the first LoadGame.
func (p *Processor) foldArchival(s *Summary, c *Counters, rec journal.Record, ships map[string]struct{}) {
	switch e := rec.Event.(type) {
	case *journal.LoadGame:
		if s.Commander == "" {
			s.Commander = e.Commander
		}
		if s.FirstShip == "" {
			s.FirstShip = e.Ship
		}
		if s.FirstSystem == "" {
			s.FirstSystem = e.StarSystem
		}
		if s.FirstCredits == nil {
			credits := e.Credits
			s.FirstCredits = &credits
		}
	case *journal.Docked:
		s.DockedCount++
	case *journal.Undocked:
		s.UndockedCount++
	case *journal.Bounty:
		if e.TotalReward > 0 {
			s.BountyCount++
		}
	case *journal.Died:
		s.Died = true
	case *journal.CodexEntry:
		s.CodexEntries++
	case *journal.MarketBuy:
		s.MarketBuys++
	case *journal.MarketSell:
		s.MarketSells++
	case *journal.MissionAccepted:
		s.MissionsAccepted++
	case *journal.MissionFailed:
		s.MissionsFailed++
	case *journal.Rank:
		captureStartRanks(s.StartRanks, e)
	case *journal.Promotion:
		if e.Rank != "" {
			s.EndRanks[e.Rank] = e.NewRank
		}
	}

	if rec.Ship != nil {
		ships[*rec.Ship] = struct{}{}
	}
}

// finish copies the folded counters into the summary and applies the raw
// event sample bound.
func (p *Processor) finish(s *Summary, c *Counters, samples []EventSample, ships map[string]struct{}) {
	s.LastShip = c.CurrentShip
	s.LastSystem = c.CurrentSystem
	s.LastCredits = copyInt64(c.CurrentCredits)
	if s.FirstCredits != nil && s.LastCredits != nil {
		s.CreditsChange = *s.LastCredits - *s.FirstCredits
	}

	s.Jumps = c.Jumps
	s.LightYearsTraveled = c.LightYearsTraveled
	s.PlanetsLanded = c.PlanetsLanded
	s.BountiesEarned = c.BountiesEarned
	s.CombatBonds = c.CombatBonds
	s.Kills = c.Kills
	s.Deaths = c.Deaths
	s.Scans = c.Scans
	s.FSSScans = c.FSSScans
	s.DSSScans = c.DSSScans
	s.ExplorationValue = c.ExplorationValue
	s.TradeProfit = c.TradeProfit
	s.MissionsCompleted = c.MissionsCompleted
	s.MissionRewards = c.MissionRewards

	s.SystemsVisited = sortedKeys(c.SystemsVisited)
	s.StationsVisited = sortedKeys(c.StationsVisited)
	s.UniqueShips = sortedKeys(ships)

	if len(samples) > sampleHead+sampleTail {
		kept := make([]EventSample, 0, sampleHead+sampleTail)
		kept = append(kept, samples[:sampleHead]...)
		kept = append(kept, samples[len(samples)-sampleTail:]...)
		s.Events = kept
		s.EventsSummary = fmt.Sprintf("Total: %d events (showing first %d and last %d)",
			s.TotalEvents, sampleHead, sampleTail)
	} else {
		s.Events = samples
	}
}

// captureStartRanks records combat/trade/exploration/empire/federation ranks
// seen in a Rank event, preserving only the first occurrence of each.
func captureStartRanks(dst map[string]int, e *journal.Rank) {
	set := func(key string, v *int) {
		if v == nil {
			return
		}
		if _, ok := dst[key]; !ok {
			dst[key] = *v
		}
	}
	set("combat", e.Combat)
	set("trade", e.Trade)
	set("exploration", e.Explore)
	set("empire", e.Empire)
	set("federation", e.Federation)
}

// ParseFilenameTime extracts the session start time from the 14-digit stamp
// in a journal file name. Returns nil when the name carries no parseable
// stamp; that is non-fatal.
func ParseFilenameTime(filename string) *string {
	m := filenameStamp.FindStringSubmatch(filename)
	if m == nil {
		return nil
	}
	t, err := time.Parse("20060102150405", m[1])
	if err != nil {
		return nil
	}
	iso := t.Format("2006-01-02T15:04:05")
	return &iso
}
