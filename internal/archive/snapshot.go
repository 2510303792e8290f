// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive builds and parses Wayback Machine snapshot URLs.
package archive

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SnapshotBase is the retrieval URL prefix for archived snapshots.
// Declared as a var so tests can substitute httptest servers.
var SnapshotBase = "https://web.archive.org/web/"

// SnapshotURL returns the retrieval URL for the snapshot of originalURL
// taken at timestamp. It is a pure string interpolation; neither value is
// validated, and malformed values surface as fetch failures downstream.
func SnapshotURL(originalURL, timestamp string) string {
	return SnapshotBase + timestamp + "/" + originalURL
}

// ParseSnapshotURL extracts the timestamp and the (percent-decoded)
// original URL from a snapshot URL. It parses against the known template
// rather than splitting on positional slashes, so original URLs that
// themselves contain slashes or query strings survive the round trip.
// A URL that does not match the template is a recoverable error.
func ParseSnapshotURL(snapshotURL string) (originalURL, timestamp string, err error) {
	rest, ok := strings.CutPrefix(snapshotURL, SnapshotBase)
	if !ok {
		return "", "", fmt.Errorf("not a snapshot URL: %q", snapshotURL)
	}
	timestamp, encoded, ok := strings.Cut(rest, "/")
	if !ok || timestamp == "" || encoded == "" {
		return "", "", fmt.Errorf("snapshot URL missing timestamp or original URL: %q", snapshotURL)
	}
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return "", "", fmt.Errorf("decoding original URL in %q: %w", snapshotURL, err)
	}
	return decoded, timestamp, nil
}

// BrowserHeaders returns the fixed browser-emulation header set sent with
// every snapshot request. The caller owns the returned map.
func BrowserHeaders() http.Header {
	return http.Header{
		"User-Agent":                {"Mozilla/5.0 (X11; Linux x86_64; rv:142.0) Gecko/20100101 Firefox/142.0"},
		"Accept":                    {"text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"},
		"Accept-Language":           {"en-US,en;q=0.5"},
		"Upgrade-Insecure-Requests": {"1"},
		"Sec-Fetch-Dest":            {"document"},
		"Sec-Fetch-Mode":            {"navigate"},
		"Sec-Fetch-Site":            {"same-origin"},
		"Priority":                  {"u=0, i"},
	}
}
