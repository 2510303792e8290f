// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store writes fetched snapshot bodies to disk under paths
// derived from the original URL.
package store

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// DerivePaths maps originalURL to its storage location under outputRoot.
// The filename stem is the URL path with separators replaced by
// underscores and edge underscores trimmed; a path ending in "/" gets an
// "index" segment first (serving-root convention). The subdirectory is
// the URL path with separators replaced by underscores, untrimmed.
// Distinct URLs can derive the same paths; the later write wins.
// An unparseable URL is a recoverable error.
func DerivePaths(originalURL, outputRoot string) (dir, file string, err error) {
	u, err := url.Parse(originalURL)
	if err != nil {
		return "", "", fmt.Errorf("parsing original URL %q: %w", originalURL, err)
	}

	p := u.Path
	stemSrc := p
	if strings.HasSuffix(stemSrc, "/") {
		stemSrc += "index"
	}
	stem := strings.Trim(strings.ReplaceAll(stemSrc, "/", "_"), "_")

	dir = filepath.Join(outputRoot, strings.ReplaceAll(p, "/", "_"))
	file = filepath.Join(dir, stem+".html")
	return dir, file, nil
}

// Write stores html as UTF-8 text at the path derived from originalURL,
// creating the subdirectory (and parents) as needed. The write goes to a
// temp file renamed into place, so a failed write leaves no partial
// file; an existing file at the target path is silently overwritten.
// Returns the written path. Any I/O failure is a per-entry error, not
// fatal to the run.
func Write(originalURL, html, outputRoot string) (string, error) {
	dir, file, err := DerivePaths(originalURL, outputRoot)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".mirror-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.WriteString(html)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing snapshot: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, file); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return file, nil
}
