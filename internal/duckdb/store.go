// Package duckdb persists conversion run history in a DuckDB database.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/genolite/genolite/internal/raw"
)

// Store manages a DuckDB connection for recording conversion runs.
type Store struct {
	db   *sql.DB
	path string
}

// Run is one recorded conversion.
type Run struct {
	ID           int64
	StartedAt    time.Time
	InputPath    string
	OutputPath   string
	Format       string
	SampleName   string
	TotalRecords int
	ValidRecords int
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE SEQUENCE IF NOT EXISTS conversion_runs_seq`,
		`CREATE TABLE IF NOT EXISTS conversion_runs (
			id BIGINT PRIMARY KEY,
			started_at TIMESTAMP,
			input_path VARCHAR,
			output_path VARCHAR,
			format VARCHAR,
			sample_name VARCHAR,
			total_records BIGINT,
			valid_records BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS conversion_chromosomes (
			run_id BIGINT,
			chrom VARCHAR,
			records BIGINT,
			PRIMARY KEY (run_id, chrom)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun inserts a conversion run and its per-chromosome counts,
// returning the new run ID.
func (s *Store) RecordRun(run Run, stats *raw.Stats) (int64, error) {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	var id int64
	err := s.db.QueryRow(
		`INSERT INTO conversion_runs
			VALUES (nextval('conversion_runs_seq'), ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`,
		run.StartedAt, run.InputPath, run.OutputPath, run.Format,
		run.SampleName, stats.TotalRecords, stats.ValidRecords,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert conversion run: %w", err)
	}

	for chrom, count := range stats.ChromosomeCounts {
		if _, err := s.db.Exec(
			`INSERT INTO conversion_chromosomes VALUES (?, ?, ?)`,
			id, chrom, count,
		); err != nil {
			return 0, fmt.Errorf("insert chromosome count: %w", err)
		}
	}

	return id, nil
}

// Runs returns the most recent conversion runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, input_path, output_path, format,
			sample_name, total_records, valid_records
		FROM conversion_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversion runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.InputPath, &r.OutputPath,
			&r.Format, &r.SampleName, &r.TotalRecords, &r.ValidRecords); err != nil {
			return nil, fmt.Errorf("scan conversion run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ChromosomeCounts returns the per-chromosome record counts for a run.
func (s *Store) ChromosomeCounts(runID int64) (map[string]int, error) {
	rows, err := s.db.Query(
		`SELECT chrom, records FROM conversion_chromosomes WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("query chromosome counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var chrom string
		var records int
		if err := rows.Scan(&chrom, &records); err != nil {
			return nil, fmt.Errorf("scan chromosome count: %w", err)
		}
		counts[chrom] = records
	}
	return counts, rows.Err()
}
