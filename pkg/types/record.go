// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the wayback-mirror pipeline.
package types

// Entry is one (original URL, timestamp) pair from the input file, the
// unit of work processed by the mirror loop.
type Entry struct {
	// OriginalURL is the live-web URL that was snapshotted.
	OriginalURL string `json:"original_url" yaml:"original_url"`

	// Timestamp is the archive snapshot timestamp (e.g. "20230115123456").
	// It is passed through unvalidated; a malformed value surfaces as a
	// fetch failure downstream.
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

// SnapshotRequest pairs an entry's original URL with the derived archive
// retrieval URL. It has no identity of its own; it exists only as an
// intermediate value between URL building and fetching.
type SnapshotRequest struct {
	OriginalURL string `json:"original_url" yaml:"original_url"`
	SnapshotURL string `json:"snapshot_url" yaml:"snapshot_url"`
}

// EntryState tracks an entry through the mirror loop.
type EntryState string

const (
	StatePending  EntryState = "pending"
	StateFetching EntryState = "fetching"
	StateDone     EntryState = "done"
	StateFailed   EntryState = "failed"
)

// Outcome records the final result of processing one entry.
type Outcome struct {
	// Entry is the input pair this outcome belongs to.
	Entry Entry `json:"entry" yaml:"entry"`

	// SnapshotURL is the archive URL that was (or would have been) fetched.
	SnapshotURL string `json:"snapshot_url" yaml:"snapshot_url"`

	// State is the terminal state: done or failed.
	State EntryState `json:"state" yaml:"state"`

	// FilePath is the written file on success, empty on failure.
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`

	// Err holds the fetch or write failure, nil on success.
	Err error `json:"-" yaml:"-"`
}

// ErrText returns the failure text for serialization, empty on success.
func (o Outcome) ErrText() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}
