package journal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// TailReader reads only the bytes appended to journal files since its last
// poll. Offsets live in memory for the process lifetime; a fresh process
// re-reads files from zero and relies on the session store's processed-file
// set for reconciliation.
type TailReader struct {
	mu      sync.Mutex
	offsets map[string]int64
	warnf   func(format string, args ...any)
}

// NewTailReader creates a TailReader with empty offsets.
func NewTailReader() *TailReader {
	return &TailReader{
		offsets: make(map[string]int64),
		warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		},
	}
}

// Poll reads all bytes appended to path since the previous call and returns
// the records decoded from them. A missing file yields an empty result. On
// read failure the offset is left unchanged so the same bytes are retried on
// the next poll. Lines that fail to decode are consumed, not re-read.
func (r *TailReader) Poll(path string) []Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.warnf("open %s: %v", path, err)
		}
		return nil
	}
	defer f.Close()

	offset := r.offsets[path]
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		r.warnf("seek %s: %v", path, err)
		return nil
	}

	data, err := io.ReadAll(f)
	if err != nil {
		r.warnf("read %s: %v", path, err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	// Everything read counts as consumed, including undecodable lines and a
	// trailing partial line; the offset never moves backwards.
	r.offsets[path] = offset + int64(len(data))

	var records []Record
	for _, line := range strings.Split(string(data), "\n") {
		rec, ok := Decode([]byte(line))
		if !ok {
			continue
		}
		rec.LogFile = path
		records = append(records, rec)
	}
	return records
}

// Offset returns the stored byte offset for a file (0 if unseen).
func (r *TailReader) Offset(path string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offsets[path]
}
