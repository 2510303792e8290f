// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wayback-mirror/internal/fetch"
	"github.com/pdiddy/wayback-mirror/internal/input"
	"github.com/pdiddy/wayback-mirror/internal/manifest"
	"github.com/pdiddy/wayback-mirror/internal/mirror"
	"github.com/pdiddy/wayback-mirror/pkg/types"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultDelay       = 1.0 // seconds
	defaultOutputDir   = "archived_pages"
	defaultManifestDir = "manifest"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror <input-file>",
	Short: "Download the snapshots listed in a JSON input file",
	Long: `Mirror reads a JSON array of (original URL, timestamp) rows, fetches the
corresponding Wayback Machine snapshot for each, and writes the HTML under
the output directory at a path derived from the original URL. Entries are
processed one at a time with a fixed delay after each; a failed entry is
logged and the run continues.

The run completes with exit code 0 even when individual entries fail;
only an unreadable or unparseable input file (or one with no valid
entries) aborts the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runMirror,
}

func init() {
	mirrorCmd.Flags().String("output", defaultOutputDir, "root directory for written files")
	mirrorCmd.Flags().Int("limit", 0, "cap the number of entries processed (0 = no limit)")
	mirrorCmd.Flags().Float64("delay", defaultDelay, "pause after each entry, in seconds")
	mirrorCmd.Flags().Duration("timeout", defaultTimeout, "HTTP request timeout")
	mirrorCmd.Flags().String("manifest-dir", defaultManifestDir, "directory for the run manifest database")
	mirrorCmd.Flags().Bool("no-manifest", false, "disable run manifest recording")

	rootCmd.AddCommand(mirrorCmd)
}

func runMirror(cmd *cobra.Command, args []string) error {
	inputFile := args[0]

	cfg := types.MirrorConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   durationSetting(cmd, "timeout", "mirror.timeout"),
			UserAgent: viper.GetString("mirror.user_agent"),
		},
		OutputDir:    stringSetting(cmd, "output", "mirror.output_dir"),
		RequestDelay: time.Duration(float64Setting(cmd, "delay", "mirror.delay") * float64(time.Second)),
		Limit:        intSetting(cmd, "limit", "mirror.limit"),
		ManifestDir:  stringSetting(cmd, "manifest-dir", "mirror.manifest_dir"),
	}

	// Fatal load stage: unreadable or unparseable input aborts the run.
	entries, err := input.Load(inputFile)
	if err != nil {
		return err
	}

	var rec mirror.Recorder
	noManifest, _ := cmd.Flags().GetBool("no-manifest")
	if !noManifest {
		store, err := manifest.Open(types.ManifestConfig{ManifestDir: cfg.ManifestDir})
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: manifest disabled: %v\n", err)
		} else {
			defer store.Close()
			rec = store
		}
	}

	client := fetch.NewClient(cfg.HTTPConfig)

	// Per-entry failures are reported in the summary and the manifest;
	// only the zero-entry case returns an error here.
	_, err = mirror.Run(context.Background(), client, inputFile, entries, cfg, rec, os.Stdout)
	return err
}
