package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

// InMemory opens a private database that lives as long as the HistoryDB
const InMemory = ":memory:"

// HistoryDB stores runs and their records in SQLite
type HistoryDB struct {
	db *sql.DB
}

// NewHistoryDB opens or creates the database at dbPath
func NewHistoryDB(dbPath string) (*HistoryDB, error) {
	if dbPath != InMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	h := &HistoryDB{db: db}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

func (h *HistoryDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		requests INTEGER NOT NULL,
		summary TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		round INTEGER NOT NULL,
		url TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		elapsed_ns INTEGER NOT NULL,
		status_code INTEGER NOT NULL,
		reason TEXT,
		timed_out INTEGER NOT NULL,
		failure TEXT,
		error TEXT,
		headers TEXT,
		bytes_received INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id, seq);
	`

	if _, err := h.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// SaveRun stores run and records in one transaction
func (h *HistoryDB) SaveRun(run *model.Run, records []model.ResultRecord) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	tx, err := h.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, started_at, finished_at, requests, summary) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC(), run.FinishedAt.UTC(), run.Requests, string(summaryJSON))
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO results (
			run_id, seq, round, url, started_at, elapsed_ns, status_code, reason,
			timed_out, failure, error, headers, bytes_received
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.Exec(run.ID, i, r.Round, r.URL, r.StartedAt.UTC(), int64(r.Elapsed),
			r.StatusCode, r.Reason, r.TimedOut, string(r.Failure), r.Error, r.Headers, r.BytesReceived)
		if err != nil {
			return fmt.Errorf("failed to save result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. A limit of 0 or less
// returns every run.
func (h *HistoryDB) ListRuns(limit int) ([]*model.Run, error) {
	query := `SELECT id, started_at, finished_at, requests, summary FROM runs ORDER BY started_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		var run model.Run
		var summaryJSON string
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &run.Requests, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(summaryJSON), &run.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary of run %s: %w", run.ID, err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// GetResults returns the records of runID in the order they were saved
func (h *HistoryDB) GetResults(runID string) ([]model.ResultRecord, error) {
	rows, err := h.db.Query(`
		SELECT round, url, started_at, elapsed_ns, status_code, reason, timed_out,
			failure, error, headers, bytes_received
		FROM results WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var records []model.ResultRecord
	for rows.Next() {
		var r model.ResultRecord
		var elapsed int64
		var reason, failure, errText, headers sql.NullString
		if err := rows.Scan(&r.Round, &r.URL, &r.StartedAt, &elapsed, &r.StatusCode, &reason,
			&r.TimedOut, &failure, &errText, &headers, &r.BytesReceived); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.Elapsed = time.Duration(elapsed)
		r.Reason = reason.String
		r.Failure = model.FailureKind(failure.String)
		r.Error = errText.String
		r.Headers = headers.String
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the database
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

var _ port.HistoryRepository = (*HistoryDB)(nil)
