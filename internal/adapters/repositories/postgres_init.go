package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		run_id BIGSERIAL PRIMARY KEY,
		scenario TEXT NOT NULL,
		order_count INTEGER NOT NULL,
		seed BIGINT NOT NULL,
		baseline_time_min DOUBLE PRECISION NOT NULL,
		baseline_distance_km DOUBLE PRECISION NOT NULL,
		baseline_integrity_pct DOUBLE PRECISION NOT NULL,
		baseline_delivered INTEGER NOT NULL,
		optimized_time_min DOUBLE PRECISION NOT NULL,
		optimized_distance_km DOUBLE PRECISION NOT NULL,
		optimized_integrity_pct DOUBLE PRECISION NOT NULL,
		optimized_delivered INTEGER NOT NULL,
		winner TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_simulation_runs_created_at
	ON simulation_runs(created_at DESC, run_id DESC);
	`

	statements := []string{
		createRunsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
