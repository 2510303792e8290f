// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	// Defaults to the browser-emulation agent the archive expects.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MirrorConfig holds settings for a mirror run.
type MirrorConfig struct {
	HTTPConfig `yaml:",inline"`

	// OutputDir is the root directory for downloaded snapshots.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// RequestDelay is the unconditional pause after each entry, success
	// or failure alike. It is the only throttle applied to the archive.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// Limit caps the number of entries processed; 0 means no limit.
	Limit int `json:"limit" yaml:"limit"`

	// ManifestDir is the directory holding the run manifest database.
	// Empty disables manifest recording.
	ManifestDir string `json:"manifest_dir" yaml:"manifest_dir"`
}

// ManifestConfig holds settings for the run manifest store.
type ManifestConfig struct {
	// ManifestDir is the directory containing the manifest database file.
	ManifestDir string `json:"manifest_dir" yaml:"manifest_dir"`
}
