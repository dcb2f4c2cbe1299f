package journal

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// The game writes a handful of JSON status files next to the journal logs.
// These readers surface them for display; a missing or invalid file is nil,
// never an error.

// ReadCargo reads Cargo.json from the journal directory.
func ReadCargo(logDir string) map[string]any {
	return readJSONFile(filepath.Join(logDir, "Cargo.json"))
}

// ReadNavRoute reads NavRoute.json from the journal directory.
func ReadNavRoute(logDir string) map[string]any {
	return readJSONFile(filepath.Join(logDir, "NavRoute.json"))
}

// ReadMarket reads Market.json from the journal directory.
func ReadMarket(logDir string) map[string]any {
	return readJSONFile(filepath.Join(logDir, "Market.json"))
}

func readJSONFile(path string) map[string]any {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// CargoSummary is a small rollup of the current cargo hold.
type CargoSummary struct {
	Items      int `json:"count"`
	TotalCargo int `json:"total_cargo"`
}

// ReadCargoSummary returns item and unit counts from Cargo.json.
func ReadCargoSummary(logDir string) CargoSummary {
	data := ReadCargo(logDir)
	if data == nil {
		return CargoSummary{}
	}
	inventory, ok := data["Inventory"].([]any)
	if !ok {
		inventory, ok = data["Cargo"].([]any)
		if !ok {
			return CargoSummary{}
		}
	}

	summary := CargoSummary{Items: len(inventory)}
	for _, item := range inventory {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if n, ok := asInt64(entry["Count"]); ok {
			summary.TotalCargo += int(n)
		}
	}
	return summary
}

// ReadRouteWaypoints returns the waypoints of the currently plotted nav
// route, or nil when no route is set.
func ReadRouteWaypoints(logDir string) []map[string]any {
	data := ReadNavRoute(logDir)
	if data == nil {
		return nil
	}
	route, ok := data["Route"].([]any)
	if !ok {
		return nil
	}
	var points []map[string]any
	for _, wp := range route {
		if entry, ok := wp.(map[string]any); ok {
			points = append(points, entry)
		}
	}
	return points
}
