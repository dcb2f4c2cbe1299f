package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rwharper/edla/internal/scan"
)

// cancelAckWait bounds how long a timed-out scan waits for the worker to
// finish its in-flight file before reporting it as still running.
const cancelAckWait = 5 * time.Second

// Execute implements the go-flags Commander interface for ScanCommand.
func (c *ScanCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	defer store.Close()

	journalDir, err := cfg.JournalDir()
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.Scan.TimeoutSeconds) * time.Second
	if c.Timeout != "" {
		timeout, err = parseDuration(c.Timeout)
		if err != nil {
			return err
		}
	}

	scanner := scan.New(journalDir, store)
	opts := scan.Options{ForceRescan: c.ForceRescan}
	if !c.Quiet && !c.globals.JSON {
		opts.Progress = func(done, total int) {
			fmt.Printf("\rScanning journal files... %d/%d", done, total)
		}
	}

	result, err := c.runWithTimeout(scanner, opts, timeout)
	if !c.Quiet && !c.globals.JSON && result != nil && result.Total > 0 {
		fmt.Println()
	}
	if err != nil {
		return err
	}

	if c.globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return c.printResult(result)
}

// runWithTimeout runs the scan on a worker goroutine with a cooperative
// deadline. On timeout the worker is asked to cancel and given a bounded
// wait to finish its in-flight file; if it does not acknowledge, the scan
// keeps racing in the background and the partial result stands; the store
// already reflects every file committed so far.
func (c *ScanCommand) runWithTimeout(scanner *scan.Scanner, opts scan.Options, timeout time.Duration) (*scan.Result, error) {
	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	type outcome struct {
		result *scan.Result
		err    error
	}
	resultCh := make(chan outcome, 1)
	go func() {
		r, err := scanner.Scan(ctx, opts)
		resultCh <- outcome{r, err}
	}()

	if timeout <= 0 {
		out := <-resultCh
		return out.result, out.err
	}

	select {
	case out := <-resultCh:
		return out.result, out.err
	case <-ctx.Done():
		cancel()
		select {
		case out := <-resultCh:
			return out.result, out.err
		case <-time.After(cancelAckWait):
			fmt.Fprintf(os.Stderr, "warning: scan timed out after %s and is still finishing its current file in the background; completed files are saved, run scan again to pick up the rest\n", timeout)
			return &scan.Result{Cancelled: true}, nil
		}
	}
}

func (c *ScanCommand) printResult(result *scan.Result) error {
	if result.Cancelled {
		fmt.Printf("Scan cancelled: %d processed, %d skipped, %d failed (of %d files)\n",
			result.Processed, result.Skipped, result.Failed, result.Total)
		fmt.Println("Already-processed files are saved; run scan again to continue.")
		return nil
	}

	if result.Processed == 0 && result.Failed == 0 {
		fmt.Printf("Up to date: %d file(s), nothing new to process\n", result.Total)
		return nil
	}

	fmt.Printf("Processed %d new session(s), skipped %d, failed %d (of %d files)\n",
		result.Processed, result.Skipped, result.Failed, result.Total)
	return nil
}
