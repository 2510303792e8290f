// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest persists an audit log of mirror runs in SQLite.
// The manifest records what each run did; it is append-only and is never
// consulted to skip or resume work.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/wayback-mirror/pkg/types"
)

const dbFile = "mirror.db"

// Store manages the run manifest SQLite database.
type Store struct {
	db *sql.DB
}

// Run summarizes one mirror run.
type Run struct {
	ID         string    `yaml:"id"`
	InputFile  string    `yaml:"input_file"`
	OutputDir  string    `yaml:"output_dir"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at,omitempty"`
	Total      int       `yaml:"total"`
	Done       int       `yaml:"done"`
	Failed     int       `yaml:"failed"`
}

// EntryRecord is one entry's recorded outcome within a run.
type EntryRecord struct {
	Seq         int              `yaml:"seq"`
	OriginalURL string           `yaml:"original_url"`
	Timestamp   string           `yaml:"timestamp"`
	SnapshotURL string           `yaml:"snapshot_url"`
	State       types.EntryState `yaml:"state"`
	FilePath    string           `yaml:"file_path,omitempty"`
	Error       string           `yaml:"error,omitempty"`
	FinishedAt  time.Time        `yaml:"finished_at"`
}

// Open opens or creates the manifest database at
// cfg.ManifestDir/mirror.db, creating the directory and schema as needed.
func Open(cfg types.ManifestConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.ManifestDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	dbPath := filepath.Join(cfg.ManifestDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening manifest database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating manifest schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input_file TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			total INTEGER NOT NULL,
			done INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS run_entries (
			run_id TEXT NOT NULL REFERENCES runs(id),
			seq INTEGER NOT NULL,
			original_url TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			snapshot_url TEXT NOT NULL,
			state TEXT NOT NULL,
			file_path TEXT,
			error TEXT,
			finished_at TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_entries_state ON run_entries(run_id, state)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun inserts a new run row and returns its generated ID.
func (s *Store) BeginRun(ctx context.Context, inputFile, outputDir string, total int) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_file, output_dir, started_at, total) VALUES (?, ?, ?, ?, ?)`,
		id, inputFile, outputDir, time.Now().UTC().Format(time.RFC3339Nano), total,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// RecordOutcome appends one entry outcome to the run.
func (s *Store) RecordOutcome(ctx context.Context, runID string, seq int, o types.Outcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO run_entries
		 (run_id, seq, original_url, timestamp, snapshot_url, state, file_path, error, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, seq, o.Entry.OriginalURL, o.Entry.Timestamp, o.SnapshotURL,
		string(o.State), o.FilePath, o.ErrText(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording outcome for entry %d: %w", seq, err)
	}
	return nil
}

// FinishRun stamps the run's finish time and final counts.
func (s *Store) FinishRun(ctx context.Context, runID string, done, failed int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, done = ?, failed = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), done, failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", runID, err)
	}
	return nil
}

// Runs returns the most recent runs, newest first. A limit of 0 returns
// all runs.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, input_file, output_dir, started_at, finished_at, total, done, failed
	          FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started string
		var finished sql.NullString
		if err := rows.Scan(&r.ID, &r.InputFile, &r.OutputDir, &started, &finished,
			&r.Total, &r.Done, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Entries returns a run's recorded outcomes in input order. With
// failedOnly set, only failed entries are returned.
func (s *Store) Entries(ctx context.Context, runID string, failedOnly bool) ([]EntryRecord, error) {
	query := `SELECT seq, original_url, timestamp, snapshot_url, state, file_path, error, finished_at
	          FROM run_entries WHERE run_id = ?`
	args := []any{runID}
	if failedOnly {
		query += ` AND state = ?`
		args = append(args, string(types.StateFailed))
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries for run %s: %w", runID, err)
	}
	defer rows.Close()

	var records []EntryRecord
	for rows.Next() {
		var rec EntryRecord
		var state, finished string
		var filePath, errText sql.NullString
		if err := rows.Scan(&rec.Seq, &rec.OriginalURL, &rec.Timestamp, &rec.SnapshotURL,
			&state, &filePath, &errText, &finished); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		rec.State = types.EntryState(state)
		rec.FilePath = filePath.String
		rec.Error = errText.String
		rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// runExport is the YAML shape written by ExportYAML.
type runExport struct {
	Run     Run           `yaml:"run"`
	Entries []EntryRecord `yaml:"entries"`
}

// ExportYAML writes one run and its entries to a YAML file at path.
func (s *Store) ExportYAML(ctx context.Context, runID, path string) error {
	runs, err := s.Runs(ctx, 0)
	if err != nil {
		return err
	}
	var run *Run
	for i := range runs {
		if runs[i].ID == runID {
			run = &runs[i]
			break
		}
	}
	if run == nil {
		return fmt.Errorf("run %s not found in manifest", runID)
	}

	entries, err := s.Entries(ctx, runID, false)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(runExport{Run: *run, Entries: entries})
	if err != nil {
		return fmt.Errorf("marshaling run export: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
