package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rwharper/edla/internal/session"
	"github.com/rwharper/edla/internal/storage"
)

// Options control a single scan pass.
type Options struct {
	// ForceRescan re-archives files the store already marks processed.
	ForceRescan bool
	// Progress, if set, is invoked after every file, including skipped
	// ones, so callers can show an accurate completion percentage.
	Progress func(done, total int)
}

// Result summarizes a scan pass. Cancellation is a first-class outcome, not
// an error: files committed before the cancel stay committed.
type Result struct {
	Total     int  `json:"total"`
	Processed int  `json:"processed"`
	Skipped   int  `json:"skipped"`
	Failed    int  `json:"failed"`
	Cancelled bool `json:"cancelled"`
}

// Scanner walks a journal directory, archives each unprocessed file, and
// commits every summary atomically with its processed-file mark. Concurrent
// Scan calls are not supported; callers serialize.
type Scanner struct {
	dir       string
	store     storage.Store
	processor *session.Processor
	warnf     func(format string, args ...any)
}

// New creates a Scanner over the given journal directory and store.
func New(dir string, store storage.Store) *Scanner {
	return &Scanner{
		dir:       dir,
		store:     store,
		processor: session.NewProcessor(),
		warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		},
	}
}

// Scan lists all journal files in lexicographic order (filenames embed
// timestamps, so this is chronological) and archives each one not yet in
// the processed set. Cancellation is checked before each file; an in-flight
// file finishes and commits before the cancel is honored. Per-file failures
// are logged and never abort the batch.
func (s *Scanner) Scan(ctx context.Context, opts Options) (*Result, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.log"))
	if err != nil {
		return nil, fmt.Errorf("list journal files: %w", err)
	}
	sort.Strings(files)

	result := &Result{Total: len(files)}
	done := 0
	progress := func() {
		done++
		if opts.Progress != nil {
			opts.Progress(done, result.Total)
		}
	}

	for _, path := range files {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		if !opts.ForceRescan {
			processed, err := s.store.IsProcessed(ctx, path)
			if err != nil {
				return result, fmt.Errorf("check processed %s: %w", path, err)
			}
			if processed {
				result.Skipped++
				progress()
				continue
			}
		}

		summary, err := s.processor.Process(path)
		if err != nil {
			// A file that cannot be read contributes nothing this pass; it
			// stays unmarked and is retried next scan.
			s.warnf("process %s: %v", path, err)
			result.Failed++
			progress()
			continue
		}

		if err := s.store.CommitSession(ctx, summary); err != nil {
			s.warnf("store %s: %v", path, err)
			result.Failed++
			progress()
			continue
		}

		result.Processed++
		progress()
	}

	return result, nil
}
