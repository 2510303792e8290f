// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mirror drives the download loop: build snapshot URL, fetch,
// write, one entry at a time with a fixed pause between requests.
package mirror

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/wayback-mirror/internal/archive"
	"github.com/pdiddy/wayback-mirror/internal/store"
	"github.com/pdiddy/wayback-mirror/pkg/types"
)

// sleep is the inter-request pause. Tests override this to avoid real sleeps.
var sleep = time.Sleep

// Fetcher downloads one snapshot body.
type Fetcher interface {
	Fetch(ctx context.Context, snapshotURL string) (string, error)
}

// Recorder receives run lifecycle events and per-entry outcomes.
// *manifest.Store implements it.
type Recorder interface {
	BeginRun(ctx context.Context, inputFile, outputDir string, total int) (string, error)
	RecordOutcome(ctx context.Context, runID string, seq int, o types.Outcome) error
	FinishRun(ctx context.Context, runID string, done, failed int) error
}

// BatchResult holds the outcome of a mirror run.
type BatchResult struct {
	Done     int
	Failed   int
	Outcomes []types.Outcome
}

// Total returns the number of entries processed.
func (r BatchResult) Total() int {
	return r.Done + r.Failed
}

// HasFailures reports whether any entries failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run processes entries strictly in order: each entry is fetched and
// written before the next begins, and every entry is followed by an
// unconditional cfg.RequestDelay pause, success or failure alike. A
// failed entry is logged to w and the loop continues; failures never
// propagate across entries. cfg.Limit > 0 truncates the sequence to its
// first Limit entries before processing.
//
// rec may be nil to disable manifest recording. Recorder errors are
// reported as warnings and never abort the run.
//
// Run returns an error only when entries is empty; no network call is
// made in that case.
func Run(ctx context.Context, client Fetcher, inputFile string, entries []types.Entry, cfg types.MirrorConfig, rec Recorder, w io.Writer) (BatchResult, error) {
	if len(entries) == 0 {
		return BatchResult{}, fmt.Errorf("no valid URL entries in %s", inputFile)
	}

	if cfg.Limit > 0 && cfg.Limit < len(entries) {
		entries = entries[:cfg.Limit]
		fmt.Fprintf(w, "limited to %d entries\n", cfg.Limit)
	}
	fmt.Fprintf(w, "mirroring %d entries to %s\n", len(entries), cfg.OutputDir)

	var runID string
	if rec != nil {
		id, err := rec.BeginRun(ctx, inputFile, cfg.OutputDir, len(entries))
		if err != nil {
			fmt.Fprintf(w, "warning: manifest unavailable: %v\n", err)
			rec = nil
		} else {
			runID = id
		}
	}

	var result BatchResult
	for seq, entry := range entries {
		outcome := processEntry(ctx, client, entry, cfg.OutputDir, w)
		if outcome.State == types.StateDone {
			result.Done++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if rec != nil {
			if err := rec.RecordOutcome(ctx, runID, seq, outcome); err != nil {
				fmt.Fprintf(w, "warning: manifest record failed: %v\n", err)
			}
		}

		sleep(cfg.RequestDelay)
	}

	if rec != nil {
		if err := rec.FinishRun(ctx, runID, result.Done, result.Failed); err != nil {
			fmt.Fprintf(w, "warning: manifest finish failed: %v\n", err)
		}
	}

	fmt.Fprintf(w, "\nRun summary: %d saved, %d failed (total: %d)\n",
		result.Done, result.Failed, result.Total())
	return result, nil
}

// processEntry moves one entry through fetching to done or failed.
func processEntry(ctx context.Context, client Fetcher, entry types.Entry, outputDir string, w io.Writer) types.Outcome {
	outcome := types.Outcome{
		Entry:       entry,
		SnapshotURL: archive.SnapshotURL(entry.OriginalURL, entry.Timestamp),
		State:       types.StateFetching,
	}

	fmt.Fprintf(w, "fetching: %s\n", outcome.SnapshotURL)

	// Recover the percent-decoded original URL from the snapshot URL by
	// parsing the known template. A malformed entry (e.g. a timestamp
	// containing a slash) fails here, recoverably, instead of deriving a
	// bogus storage path.
	originalURL, _, err := archive.ParseSnapshotURL(outcome.SnapshotURL)
	if err != nil {
		fmt.Fprintf(w, "failed:   %s (%v)\n", entry.OriginalURL, err)
		outcome.State = types.StateFailed
		outcome.Err = err
		return outcome
	}

	body, err := client.Fetch(ctx, outcome.SnapshotURL)
	if err != nil {
		fmt.Fprintf(w, "failed:   %s (%v)\n", entry.OriginalURL, err)
		outcome.State = types.StateFailed
		outcome.Err = err
		return outcome
	}

	path, err := store.Write(originalURL, body, outputDir)
	if err != nil {
		fmt.Fprintf(w, "failed:   %s (%v)\n", entry.OriginalURL, err)
		outcome.State = types.StateFailed
		outcome.Err = err
		return outcome
	}

	fmt.Fprintf(w, "saved:    %s\n", path)
	outcome.State = types.StateDone
	outcome.FilePath = path
	return outcome
}
