package ports

import (
	"context"
	"delivery-sim-service/internal/domain"
)

// Port: a boundary for persisting benchmark runs and reading them back.
type RunRepository interface {
	// Store one finished comparison and return its assigned id.
	SaveRun(ctx context.Context, run domain.BenchmarkRun) (int64, error)
	// Retrieve the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.BenchmarkRun, error)
}
