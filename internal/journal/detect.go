package journal

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
)

// DetectCommanders scans every *.log file in logDir and returns the sorted
// set of commander names found in LoadGame events. A missing directory
// yields an empty result.
func DetectCommanders(logDir string) []string {
	matches, err := filepath.Glob(filepath.Join(logDir, "*.log"))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	for _, path := range matches {
		if name, ok := commanderFromFile(path); ok {
			seen[name] = struct{}{}
		}
	}

	commanders := make([]string, 0, len(seen))
	for name := range seen {
		commanders = append(commanders, name)
	}
	sort.Strings(commanders)
	return commanders
}

// commanderFromFile returns the commander named by the first LoadGame event
// in the file, if any.
func commanderFromFile(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		rec, ok := Decode(scanner.Bytes())
		if !ok {
			continue
		}
		if lg, ok := rec.Event.(*LoadGame); ok && lg.Commander != "" {
			return lg.Commander, true
		}
	}
	return "", false
}
