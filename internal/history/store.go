// Package history records completed conversions in a SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/settle2qif/internal/fileutils"
	"fjacquet/settle2qif/internal/logging"

	_ "modernc.org/sqlite"
)

// Run is one completed conversion.
type Run struct {
	ID         int64
	StartedAt  time.Time
	InputPath  string
	OutputPath string
	Converted  int
	Skipped    int
	Duration   time.Duration
}

// Recorder stores conversion runs. RecordWith inserts run and then calls
// publish inside the same transaction: the row is committed only when
// publish succeeds, and a publish error is returned unchanged.
type Recorder interface {
	RecordWith(ctx context.Context, run Run, publish func() error) (int64, error)
}

// Store is the SQLite-backed Recorder.
type Store struct {
	db  *sql.DB
	log logging.Logger
}

// Open opens (creating if needed) the history database at dbPath and applies
// migrations.
func Open(dbPath string, log logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.NewLogrusAdapter("info", "text")
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := RunMigrations(dbPath, log); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts run and returns its id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	return s.RecordWith(ctx, run, nil)
}

// RecordWith implements Recorder. A nil publish commits right away.
func (s *Store) RecordWith(ctx context.Context, run Run, publish func() error) (id int64, err error) {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversion_runs (started_at, input_path, output_path, converted, skipped, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.InputPath,
		run.OutputPath,
		run.Converted,
		run.Skipped,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("read run id: %w", err)
	}

	if publish != nil {
		if err = publish(); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit run: %w", err)
	}
	s.log.Debug("Recorded conversion run", logging.F("run_id", id))
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, input_path, output_path, converted, skipped, duration_ms
		 FROM conversion_runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&run.ID, &startedAt, &run.InputPath, &run.OutputPath,
			&run.Converted, &run.Skipped, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse started_at %q: %w", startedAt, err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
