// Package runlog persists a record of every executed simulation task to a
// SQLite database alongside the report outputs, so a run's history can be
// inspected after the fact without re-parsing the archive.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBName is the database file name inside the output directory.
const DBName = "run.db"

const schema = `
CREATE TABLE IF NOT EXISTS task_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    document TEXT NOT NULL,    -- SED-ML document location within the archive
    task TEXT NOT NULL,        -- task id within the document
    algorithm TEXT NOT NULL,   -- KiSAO id
    status TEXT NOT NULL,      -- 'succeeded' or 'failed'
    error TEXT,
    started_at TEXT NOT NULL,
    duration_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_task_runs_document ON task_runs(document);
`

// Statuses recorded for task runs.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Entry is one recorded task execution.
type Entry struct {
	ID        int64
	Document  string
	Task      string
	Algorithm string
	Status    string
	Error     string
	StartedAt time.Time
	Duration  time.Duration
}

// Log is a SQLite-backed run log.
type Log struct {
	db *sql.DB
}

// Open opens (creating if necessary) the run log in dir.
func Open(dir string) (*Log, error) {
	path := filepath.Join(dir, DBName)
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize run log schema: %w", err)
	}
	return &Log{db: db}, nil
}

// Record appends an entry. The entry's ID is ignored.
func (l *Log) Record(ctx context.Context, e Entry) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO task_runs (document, task, algorithm, status, error, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Document, e.Task, e.Algorithm, e.Status, e.Error,
		e.StartedAt.UTC().Format(time.RFC3339Nano), e.Duration.Milliseconds())
	if err != nil {
		return fmt.Errorf("record task run: %w", err)
	}
	return nil
}

// List returns all entries in execution order.
func (l *Log) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, document, task, algorithm, status, COALESCE(error, ''), started_at, duration_ms
		FROM task_runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list task runs: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var started string
		var durationMS int64
		if err := rows.Scan(&e.ID, &e.Document, &e.Task, &e.Algorithm, &e.Status, &e.Error, &started, &durationMS); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
			e.StartedAt = ts
		}
		e.Duration = time.Duration(durationMS) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}
