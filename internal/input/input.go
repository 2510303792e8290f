// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package input loads (original URL, timestamp) entries from a JSON
// export file.
package input

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pdiddy/wayback-mirror/pkg/types"
)

// headerRow is the literal header some exports carry as their first row.
var headerRow = []string{"original", "timestamp", "endkey"}

// Load parses path as a JSON array of rows and returns the entries in
// input order. A first row equal to the export header is excluded. Each
// remaining row with at least two string fields yields one Entry from
// fields 0 and 1; extra trailing fields are ignored. Shorter rows, and
// rows that are not arrays of strings, are dropped silently.
//
// An unreadable file or content that is not a JSON array is a fatal
// error for the run; Load returns no partial result in that case.
func Load(path string) ([]types.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file %s: %w", path, err)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing input file %s: %w", path, err)
	}

	entries := make([]types.Entry, 0, len(rows))
	for i, raw := range rows {
		var fields []string
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		if i == 0 && isHeader(fields) {
			continue
		}
		if len(fields) < 2 {
			continue
		}
		entries = append(entries, types.Entry{
			OriginalURL: fields[0],
			Timestamp:   fields[1],
		})
	}
	return entries, nil
}

// isHeader reports whether fields equals the export header row exactly.
func isHeader(fields []string) bool {
	if len(fields) != len(headerRow) {
		return false
	}
	for i, f := range fields {
		if f != headerRow[i] {
			return false
		}
	}
	return true
}
