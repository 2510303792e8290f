// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wayback-mirror/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.ManifestConfig{ManifestDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	runID, err := s.BeginRun(ctx, "urls.json", "archived_pages", 2)
	require.NoError(t, err)

	ok := types.Outcome{
		Entry:       types.Entry{OriginalURL: "https://example.com/a", Timestamp: "20230101000000"},
		SnapshotURL: "https://web.archive.org/web/20230101000000/https://example.com/a",
		State:       types.StateDone,
		FilePath:    "archived_pages/_a/a.html",
	}
	failed := types.Outcome{
		Entry:       types.Entry{OriginalURL: "https://example.com/b", Timestamp: "20230202000000"},
		SnapshotURL: "https://web.archive.org/web/20230202000000/https://example.com/b",
		State:       types.StateFailed,
		Err:         errors.New("HTTP 404"),
	}
	require.NoError(t, s.RecordOutcome(ctx, runID, 0, ok))
	require.NoError(t, s.RecordOutcome(ctx, runID, 1, failed))
	require.NoError(t, s.FinishRun(ctx, runID, 1, 1))

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Equal(t, "urls.json", runs[0].InputFile)
	assert.Equal(t, 2, runs[0].Total)
	assert.Equal(t, 1, runs[0].Done)
	assert.Equal(t, 1, runs[0].Failed)
	assert.False(t, runs[0].FinishedAt.IsZero())

	entries, err := s.Entries(ctx, runID, false)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, types.StateDone, entries[0].State)
	assert.Equal(t, "archived_pages/_a/a.html", entries[0].FilePath)
	assert.Equal(t, types.StateFailed, entries[1].State)
	assert.Equal(t, "HTTP 404", entries[1].Error)
}

func TestEntriesFailedOnly(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	runID, err := s.BeginRun(ctx, "urls.json", "out", 3)
	require.NoError(t, err)

	for i, state := range []types.EntryState{types.StateDone, types.StateFailed, types.StateDone} {
		o := types.Outcome{
			Entry: types.Entry{OriginalURL: "https://example.com/x", Timestamp: "20230101000000"},
			State: state,
		}
		if state == types.StateFailed {
			o.Err = errors.New("connection refused")
		}
		require.NoError(t, s.RecordOutcome(ctx, runID, i, o))
	}

	failed, err := s.Entries(ctx, runID, true)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].Seq)
	assert.Equal(t, "connection refused", failed[0].Error)
}

func TestExportYAML(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	runID, err := s.BeginRun(ctx, "urls.json", "out", 1)
	require.NoError(t, err)
	require.NoError(t, s.RecordOutcome(ctx, runID, 0, types.Outcome{
		Entry:       types.Entry{OriginalURL: "https://example.com/a", Timestamp: "20230101000000"},
		SnapshotURL: "https://web.archive.org/web/20230101000000/https://example.com/a",
		State:       types.StateDone,
		FilePath:    "out/_a/a.html",
	}))
	require.NoError(t, s.FinishRun(ctx, runID, 1, 0))

	exportPath := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, s.ExportYAML(ctx, runID, exportPath))

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)

	var export struct {
		Run     Run           `yaml:"run"`
		Entries []EntryRecord `yaml:"entries"`
	}
	require.NoError(t, yaml.Unmarshal(data, &export))
	assert.Equal(t, runID, export.Run.ID)
	require.Len(t, export.Entries, 1)
	assert.Equal(t, "https://example.com/a", export.Entries[0].OriginalURL)
}

func TestExportYAMLUnknownRun(t *testing.T) {
	s := openTestStore(t)
	err := s.ExportYAML(context.Background(), "no-such-run", filepath.Join(t.TempDir(), "run.yaml"))
	assert.Error(t, err)
}

func TestOpenReusesExistingDatabase(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(types.ManifestConfig{ManifestDir: dir})
	require.NoError(t, err)
	runID, err := s.BeginRun(ctx, "urls.json", "out", 0)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(types.ManifestConfig{ManifestDir: dir})
	require.NoError(t, err)
	defer s2.Close()

	runs, err := s2.Runs(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
}
