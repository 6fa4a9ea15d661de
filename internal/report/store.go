// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report persists ranked evaluation runs to a SQLite database so
// earlier rankings can be listed and re-read from the CLI. The core
// evaluation path never touches this store.
package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubrank/pkg/types"
)

const dbFile = "pubrank.db"

// Store manages the run history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Run summarizes one saved ranking run.
type Run struct {
	ID         int64
	Query      string
	CreatedAt  time.Time
	PaperCount int
}

// NewStore opens or creates the history database at
// reportsDir/pubrank.db, creating the schema if needed.
func NewStore(cfg types.ReportConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.ReportsDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating reports directory: %w", err)
	}

	dbPath := filepath.Join(cfg.ReportsDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT,
			created_at TEXT NOT NULL,
			paper_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			paper_rank INTEGER NOT NULL,
			title TEXT,
			doi TEXT,
			final_score REAL NOT NULL,
			risk_level TEXT NOT NULL,
			paper TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run_id ON results(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun stores one ranked batch and returns the run ID. The full
// ScoredPaper is kept as JSON alongside the scalar columns used for
// listing.
func (s *Store) SaveRun(ctx context.Context, query string, papers []types.ScoredPaper) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (query, created_at, paper_count) VALUES (?, ?, ?)`,
		query, time.Now().UTC().Format(time.RFC3339), len(papers),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (run_id, paper_rank, title, doi, final_score, risk_level, paper)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range papers {
		paperJSON, err := json.Marshal(p)
		if err != nil {
			return 0, fmt.Errorf("marshaling paper %q: %w", p.Title, err)
		}
		if _, err := stmt.ExecContext(ctx,
			runID, p.Rank, p.Title, p.DOI, p.FinalScore, string(p.Integrity.RiskLevel), string(paperJSON),
		); err != nil {
			return 0, fmt.Errorf("inserting result %q: %w", p.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first, capped at the
// configured maximum.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, created_at, paper_count FROM runs ORDER BY id DESC LIMIT ?`,
		s.maxResults,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &r.Query, &created, &r.PaperCount); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunResults reloads the full ranked papers of one run in rank order.
func (s *Store) RunResults(ctx context.Context, runID int64) ([]types.ScoredPaper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT paper FROM results WHERE run_id = ? ORDER BY paper_rank`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var papers []types.ScoredPaper
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		var p types.ScoredPaper
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return nil, fmt.Errorf("parsing stored paper: %w", err)
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(papers) == 0 {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	return papers, nil
}
