package journal

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is one decoded journal line. Type and Timestamp are taken verbatim
// from the JSON; Credits and Ship are cross-cutting fields any event kind may
// carry; Event is the typed payload; Raw holds every field as decoded.
type Record struct {
	Type      string
	Timestamp string
	LogFile   string
	Credits   *int64
	Ship      *string
	Event     Event
	Raw       map[string]any
}

// Decode parses one line of journal text. Blank lines, partial lines, and
// anything that is not a JSON object return ok=false; a well-formed object
// always decodes, defaulting the event type to "Unknown" when the event
// field is missing.
func Decode(line []byte) (Record, bool) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return Record{}, false
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Record{}, false
	}

	rec := Record{Type: "Unknown", Raw: raw}
	if t, ok := raw["event"].(string); ok && t != "" {
		rec.Type = t
	}
	if ts, ok := raw["timestamp"].(string); ok {
		rec.Timestamp = ts
	}
	if v, ok := raw["Credits"]; ok {
		if n, ok := asInt64(v); ok {
			rec.Credits = &n
		}
	}
	if s, ok := raw["Ship"].(string); ok && s != "" {
		ship := s
		rec.Ship = &ship
	}

	rec.Event = decodeTyped(rec.Type, trimmed, raw)
	return rec, true
}

// decodeTyped unmarshals the line into the concrete event struct for its
// type. A shape mismatch degrades to Unrecognized rather than failing the
// whole record; the input is untrusted.
func decodeTyped(eventType string, line []byte, raw map[string]any) Event {
	unmarshal := func(e Event) Event {
		if err := json.Unmarshal(line, e); err != nil {
			return &Unrecognized{Fields: raw}
		}
		return e
	}

	switch eventType {
	case "LoadGame":
		return unmarshal(&LoadGame{})
	case "FSDJump":
		return unmarshal(&FSDJump{})
	case "Location":
		return unmarshal(&Location{})
	case "Docked":
		return unmarshal(&Docked{})
	case "Undocked":
		return &Undocked{}
	case "Touchdown":
		return &Touchdown{}
	case "Bounty":
		return unmarshal(&Bounty{})
	case "FactionKillBond":
		return unmarshal(&FactionKillBond{})
	case "Died":
		return &Died{}
	case "Scan":
		return &Scan{}
	case "FSSBodySignals":
		return &FSSBodySignals{}
	case "SAAScanComplete":
		return &SAAScanComplete{}
	case "CodexEntry":
		return &CodexEntry{}
	case "SellExplorationData":
		return unmarshal(&SellExplorationData{})
	case "MarketBuy":
		return &MarketBuy{}
	case "MarketSell":
		return unmarshal(&MarketSell{})
	case "MissionAccepted":
		return unmarshal(&MissionAccepted{})
	case "MissionCompleted":
		return unmarshal(&MissionCompleted{})
	case "MissionFailed":
		return unmarshal(&MissionFailed{})
	case "MissionAbandoned":
		return unmarshal(&MissionAbandoned{})
	case "Rank":
		return unmarshal(&Rank{})
	case "Progress":
		return unmarshal(&Progress{})
	case "Powerplay":
		return unmarshal(&Powerplay{})
	case "Reputation":
		return unmarshal(&Reputation{})
	case "Promotion":
		return unmarshal(&Promotion{})
	default:
		return &Unrecognized{Fields: raw}
	}
}

// RepValue is a faction reputation on the journal's 0-100 scale. The journal
// supplies it either as a number or as a textual rating; only the six known
// rating strings are recognized, anything else leaves Known false.
type RepValue struct {
	Value float64
	Known bool
}

// repTextScale maps the journal's textual ratings to the 0-100 scale.
var repTextScale = map[string]float64{
	"hostile":    0,
	"unfriendly": 25,
	"neutral":    50,
	"cordial":    60,
	"friendly":   75,
	"allied":     100,
}

// RepTextValue converts a textual reputation rating to the 0-100 scale.
func RepTextValue(text string) (float64, bool) {
	v, ok := repTextScale[strings.ToLower(strings.TrimSpace(text))]
	return v, ok
}

// UnmarshalJSON accepts either a JSON number or a rating string.
func (r *RepValue) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		r.Value = num
		r.Known = true
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		r.Value, r.Known = RepTextValue(text)
		return nil
	}
	// Unexpected shape: ignore rather than fail the whole event.
	r.Known = false
	return nil
}

// asInt64 coerces a decoded JSON value to int64. encoding/json decodes
// numbers in an untyped map as float64.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
