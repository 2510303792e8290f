// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/wayback-mirror/pkg/types"
)

func testConfig() types.HTTPConfig {
	return types.HTTPConfig{Timeout: 10 * time.Second}
}

func TestFetchSuccess(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("<html>archived page</html>"))
	}))
	defer ts.Close()

	c := NewClient(testConfig())
	body, err := c.Fetch(context.Background(), ts.URL+"/web/20230101000000/https://example.com/a")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if body != "<html>archived page</html>" {
		t.Errorf("body = %q", body)
	}
	if !strings.Contains(gotUA, "Firefox") {
		t.Errorf("User-Agent = %q, want browser-emulation agent", gotUA)
	}
	if !strings.Contains(gotAccept, "text/html") {
		t.Errorf("Accept = %q, want text/html", gotAccept)
	}
}

func TestFetchUserAgentOverride(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{Timeout: 10 * time.Second, UserAgent: "wayback-mirror-test/0.1"})
	if _, err := c.Fetch(context.Background(), ts.URL); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotUA != "wayback-mirror-test/0.1" {
		t.Errorf("User-Agent = %q, want override", gotUA)
	}
}

func TestFetchNon2xx(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls++
				w.WriteHeader(tt.status)
			}))
			defer ts.Close()

			c := NewClient(testConfig())
			if _, err := c.Fetch(context.Background(), ts.URL); err == nil {
				t.Fatalf("expected error for HTTP %d", tt.status)
			}
			// One request only: no retry on any status, 429 included.
			if calls != 1 {
				t.Errorf("server saw %d requests, want 1", calls)
			}
		})
	}
}

func TestFetchTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	ts.Close()

	c := NewClient(testConfig())
	if _, err := c.Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("expected error for closed server")
	}
}

func TestFetchTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	c := NewClient(types.HTTPConfig{Timeout: 20 * time.Millisecond})
	if _, err := c.Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}
