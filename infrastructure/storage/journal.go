package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dialysis_autofill/domain/entities"
	"dialysis_autofill/domain/interfaces"
)

const journalSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	operator TEXT NOT NULL,
	patient_id TEXT NOT NULL,
	started_at INTEGER NOT NULL, -- unix nanoseconds
	finished_at INTEGER NOT NULL,
	success INTEGER NOT NULL,
	stages TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// SQLiteJournal implements interfaces.RunJournal with SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// OpenJournal opens or creates the journal database at path.
func OpenJournal(path string) (*SQLiteJournal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// one connection keeps :memory: databases alive across calls
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	return &SQLiteJournal{db: db}, nil
}

// Record persists a finished run, replacing an earlier row with the same ID.
func (j *SQLiteJournal) Record(ctx context.Context, summary entities.RunSummary) error {
	stages, err := json.Marshal(summary.Stages)
	if err != nil {
		return fmt.Errorf("failed to encode stages: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, operator, patient_id, started_at, finished_at, success, stages)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		summary.ID,
		summary.Operator,
		summary.PatientID,
		summary.StartedAt.UnixNano(),
		summary.FinishedAt.UnixNano(),
		summary.Success,
		string(stages),
	)
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", summary.ID, err)
	}

	return nil
}

// Recent returns up to limit runs, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]entities.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, operator, patient_id, started_at, finished_at, success, stages
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var summaries []entities.RunSummary
	for rows.Next() {
		var (
			summary    entities.RunSummary
			startedAt  int64
			finishedAt int64
			stages     string
		)
		if err := rows.Scan(&summary.ID, &summary.Operator, &summary.PatientID,
			&startedAt, &finishedAt, &summary.Success, &stages); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		summary.StartedAt = time.Unix(0, startedAt).UTC()
		summary.FinishedAt = time.Unix(0, finishedAt).UTC()
		if err := json.Unmarshal([]byte(stages), &summary.Stages); err != nil {
			return nil, fmt.Errorf("run %s has unreadable stages: %w", summary.ID, err)
		}

		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// Close closes the database connection
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ interfaces.RunJournal = (*SQLiteJournal)(nil)
