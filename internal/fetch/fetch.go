// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch performs single blocking snapshot downloads.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/wayback-mirror/internal/archive"
	"github.com/pdiddy/wayback-mirror/pkg/types"
)

// Client fetches snapshot bodies over HTTP with a fixed browser-emulation
// header set. It issues exactly one request per snapshot: no retries, no
// backoff. Redirects follow the transport default.
type Client struct {
	http    *http.Client
	headers http.Header
}

// NewClient builds a Client from cfg. The request timeout bounds each
// individual fetch; there is no budget for the overall run. A non-empty
// cfg.UserAgent overrides the browser-emulation agent.
func NewClient(cfg types.HTTPConfig) *Client {
	headers := archive.BrowserHeaders()
	if cfg.UserAgent != "" {
		headers.Set("User-Agent", cfg.UserAgent)
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		headers: headers,
	}
}

// Fetch performs one GET against snapshotURL and returns the response
// body as text. Any transport error, timeout, or non-2xx status is
// returned as an error; callers treat it as a per-entry failure. Fetch
// never panics and leaves no side effects beyond the network call.
func (c *Client) Fetch(ctx context.Context, snapshotURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, snapshotURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", snapshotURL, err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request to %s: %w", snapshotURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, snapshotURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response from %s: %w", snapshotURL, err)
	}
	return string(body), nil
}
