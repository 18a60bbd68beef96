// Package history persists gate run outcomes in a SQLite database.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrison/lintgate/internal/lint"
	"github.com/harrison/lintgate/internal/models"
)

//go:embed schema.sql
var schemaSQL string

// RunRecord is one persisted run
type RunRecord struct {
	ID                int64
	RunID             string
	StartedAt         time.Time
	Duration          time.Duration
	Roots             []string
	FileCount         int
	Linter            string
	Invoked           bool
	ExitCode          int
	Status            string
	FindingCount      int
	ErrorFindingCount int
	ErrorMessage      string
}

// Store manages the SQLite history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (creating if needed) the database at dbPath.
// ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	// busy_timeout first so the rest wait on locks.
	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath}, nil
}

// execWithRetry retries "database is locked" errors with exponential backoff.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record stores an outcome and its findings in one transaction.
func (s *Store) Record(ctx context.Context, outcome *models.Outcome) error {
	if outcome == nil {
		return fmt.Errorf("outcome is nil")
	}
	if outcome.RunID == "" {
		return fmt.Errorf("outcome has no run id")
	}

	rootsJSON, err := json.Marshal(outcome.Roots)
	if err != nil {
		return fmt.Errorf("marshal roots: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(run_id, started_at, duration_ms, roots, file_count, linter, invoked, exit_code, status, finding_count, error_finding_count, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		outcome.RunID,
		outcome.StartedAt.UTC(),
		outcome.Duration.Milliseconds(),
		string(rootsJSON),
		len(outcome.Files),
		outcome.Linter,
		outcome.Invoked,
		outcome.ExitCode,
		outcome.Status(),
		len(outcome.Findings),
		len(outcome.ErrorFindings()),
		outcome.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, f := range outcome.Findings {
		_, err := tx.ExecContext(ctx, `INSERT INTO findings
			(run_id, path, line, col, code, symbol, message, severity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			outcome.RunID, f.Path, f.Line, f.Column, f.Code, f.Symbol, f.Message, string(f.Severity),
		)
		if err != nil {
			return fmt.Errorf("insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// List returns the most recent runs first. limit <= 0 returns all runs.
func (s *Store) List(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := `SELECT id, run_id, started_at, duration_ms, roots, file_count, linter, invoked, exit_code, status, finding_count, error_finding_count, error_message
		FROM runs
		ORDER BY started_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []*RunRecord
	for rows.Next() {
		rec := &RunRecord{}
		var durationMS int64
		var rootsJSON string
		if err := rows.Scan(
			&rec.ID,
			&rec.RunID,
			&rec.StartedAt,
			&durationMS,
			&rootsJSON,
			&rec.FileCount,
			&rec.Linter,
			&rec.Invoked,
			&rec.ExitCode,
			&rec.Status,
			&rec.FindingCount,
			&rec.ErrorFindingCount,
			&rec.ErrorMessage,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if err := json.Unmarshal([]byte(rootsJSON), &rec.Roots); err != nil {
			return nil, fmt.Errorf("unmarshal roots for %s: %w", rec.RunID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return records, nil
}

// Findings returns the findings stored for runID, in file order.
func (s *Store) Findings(ctx context.Context, runID string) ([]lint.Finding, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, line, col, code, symbol, message, severity
		FROM findings WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	var findings []lint.Finding
	for rows.Next() {
		var f lint.Finding
		var severity string
		if err := rows.Scan(&f.Path, &f.Line, &f.Column, &f.Code, &f.Symbol, &f.Message, &severity); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		f.Severity = lint.Severity(severity)
		findings = append(findings, f)
	}
	return findings, rows.Err()
}
