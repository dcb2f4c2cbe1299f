package session

import "github.com/rwharper/edla/internal/journal"

// Feed is the push entry point of the live path: an external notifier calls
// FileChanged when a journal file may have new bytes, and the feed tails the
// file and folds every new record into the tracker. The watching mechanism
// itself lives outside this package.
type Feed struct {
	reader  *journal.TailReader
	tracker *Tracker
}

// NewFeed wires a fresh tail reader to the given tracker.
func NewFeed(tracker *Tracker) *Feed {
	return &Feed{reader: journal.NewTailReader(), tracker: tracker}
}

// FileChanged polls the file for appended bytes and delivers the decoded
// records to the tracker in on-disk order. Returns the number delivered.
func (f *Feed) FileChanged(path string) int {
	records := f.reader.Poll(path)
	for _, rec := range records {
		f.tracker.Process(rec)
	}
	return len(records)
}

// Tracker returns the live tracker behind this feed.
func (f *Feed) Tracker() *Tracker {
	return f.tracker
}
