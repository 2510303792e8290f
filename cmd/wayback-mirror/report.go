// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/wayback-mirror/internal/manifest"
	"github.com/pdiddy/wayback-mirror/pkg/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show recorded mirror runs from the manifest",
	Long: `Report lists runs recorded in the manifest database, newest first.
With --run it lists that run's per-entry outcomes instead; --failed
restricts the listing to failed entries, and --export writes the run and
its entries to a YAML file.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("manifest-dir", defaultManifestDir, "directory of the run manifest database")
	reportCmd.Flags().String("run", "", "run ID to show entries for")
	reportCmd.Flags().Bool("failed", false, "show only failed entries (requires --run)")
	reportCmd.Flags().String("export", "", "write the run to a YAML file (requires --run)")
	reportCmd.Flags().Int("last", 10, "number of recent runs to list")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	manifestDir := stringSetting(cmd, "manifest-dir", "mirror.manifest_dir")

	store, err := manifest.Open(types.ManifestConfig{ManifestDir: manifestDir})
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	runID, _ := cmd.Flags().GetString("run")
	if runID == "" {
		last, _ := cmd.Flags().GetInt("last")
		return listRuns(ctx, store, last)
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		if err := store.ExportYAML(ctx, runID, exportPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "exported run %s to %s\n", runID, exportPath)
		return nil
	}

	failedOnly, _ := cmd.Flags().GetBool("failed")
	return listEntries(ctx, store, runID, failedOnly)
}

func listRuns(ctx context.Context, store *manifest.Store, last int) error {
	runs, err := store.Runs(ctx, last)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}
	for _, r := range runs {
		finished := "unfinished"
		if !r.FinishedAt.IsZero() {
			finished = r.FinishedAt.Local().Format(time.RFC3339)
		}
		fmt.Printf("%s  %s  total=%d done=%d failed=%d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.RFC3339), r.Total, r.Done, r.Failed, finished)
	}
	return nil
}

func listEntries(ctx context.Context, store *manifest.Store, runID string, failedOnly bool) error {
	entries, err := store.Entries(ctx, runID, failedOnly)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no entries recorded for run", runID)
		return nil
	}
	for _, e := range entries {
		switch e.State {
		case types.StateFailed:
			fmt.Printf("%4d  failed  %s (%s)\n", e.Seq, e.OriginalURL, e.Error)
		default:
			fmt.Printf("%4d  %s    %s -> %s\n", e.Seq, e.State, e.OriginalURL, e.FilePath)
		}
	}
	return nil
}
