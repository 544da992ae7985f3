package repositories

import (
	"context"
	"database/sql"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/platform/obs"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the RunRepository port.
type PostgresRunRepository struct{ DB *sql.DB }

func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{DB: db}
}

// Store one finished benchmark comparison and return its assigned id.
func (p *PostgresRunRepository) SaveRun(ctx context.Context, run domain.BenchmarkRun) (_ int64, err error) {
	defer obs.Time(ctx, "runs.repo.SaveRun")(&err)

	if p.DB == nil {
		return 0, errors.New("run repository: DB is nil")
	}

	query := `
	INSERT INTO simulation_runs (
		scenario,
		order_count,
		seed,
		baseline_time_min,
		baseline_distance_km,
		baseline_integrity_pct,
		baseline_delivered,
		optimized_time_min,
		optimized_distance_km,
		optimized_integrity_pct,
		optimized_delivered,
		winner
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING run_id;
	`

	var id int64
	err = p.DB.QueryRowContext(ctx, query,
		run.Scenario,
		run.OrderCount,
		run.Seed,
		run.Baseline.TotalTimeMin,
		run.Baseline.TotalDistanceKm,
		run.Baseline.AvgIntegrityPct,
		run.Baseline.OrdersDelivered,
		run.Optimized.TotalTimeMin,
		run.Optimized.TotalDistanceKm,
		run.Optimized.AvgIntegrityPct,
		run.Optimized.OrdersDelivered,
		string(run.Winner),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save run: insert simulation_runs row: %w", err)
	}

	return id, nil
}

// Return the most recent runs, newest first.
func (p *PostgresRunRepository) ListRuns(ctx context.Context, limit int) (_ []domain.BenchmarkRun, err error) {
	defer obs.Time(ctx, "runs.repo.ListRuns")(&err)

	if p.DB == nil {
		return nil, errors.New("run repository: DB is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT
		run_id,
		scenario,
		order_count,
		seed,
		baseline_time_min,
		baseline_distance_km,
		baseline_integrity_pct,
		baseline_delivered,
		optimized_time_min,
		optimized_distance_km,
		optimized_integrity_pct,
		optimized_delivered,
		winner,
		created_at
	FROM simulation_runs
	ORDER BY created_at DESC, run_id DESC
	LIMIT $1;
	`

	rows, err := p.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query simulation_runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.BenchmarkRun, 0, limit)
	for rows.Next() {
		var r domain.BenchmarkRun
		var winner string
		err := rows.Scan(
			&r.ID,
			&r.Scenario,
			&r.OrderCount,
			&r.Seed,
			&r.Baseline.TotalTimeMin,
			&r.Baseline.TotalDistanceKm,
			&r.Baseline.AvgIntegrityPct,
			&r.Baseline.OrdersDelivered,
			&r.Optimized.TotalTimeMin,
			&r.Optimized.TotalDistanceKm,
			&r.Optimized.AvgIntegrityPct,
			&r.Optimized.OrdersDelivered,
			&winner,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		r.Winner = domain.SimulationMode(winner)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}
