package main

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// RunStore persists simulation runs and their per-step estimates.
type RunStore struct {
	db *sql.DB
}

// OpenRunStore opens (or creates) the SQLite database at path and
// ensures the schema exists.
func OpenRunStore(path string) (*RunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id INTEGER PRIMARY KEY AUTOINCREMENT,
			steps INTEGER NOT NULL,
			dt DOUBLE NOT NULL,
			process_noise DOUBLE NOT NULL,
			measure_noise DOUBLE NOT NULL,
			seed BIGINT NOT NULL,
			raw_rmse DOUBLE NOT NULL,
			filtered_rmse DOUBLE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS estimates (
			run_id INTEGER NOT NULL,
			step INTEGER NOT NULL,
			truth_x DOUBLE, truth_y DOUBLE,
			meas_x DOUBLE, meas_y DOUBLE,
			est_x DOUBLE, est_y DOUBLE,
			PRIMARY KEY (run_id, step),
			FOREIGN KEY (run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &RunStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun inserts the run summary and all per-step rows in one
// transaction and returns the new run ID.
func (s *RunStore) SaveRun(cfg Config, result *SimResult) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs (steps, dt, process_noise, measure_noise, seed, raw_rmse, filtered_rmse)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cfg.Steps, cfg.Dt, cfg.ProcessNoise, cfg.MeasureNoise, cfg.Seed,
		result.RawRMSE, result.FilteredRMSE,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO estimates (run_id, step, truth_x, truth_y, meas_x, meas_y, est_x, est_y)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, step := range result.Steps {
		if _, err := stmt.Exec(runID, step.Index,
			step.Truth.X, step.Truth.Y,
			step.Measured.X, step.Measured.Y,
			step.Estimate.X, step.Estimate.Y); err != nil {
			return 0, fmt.Errorf("inserting step %d: %w", step.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}
