package ports

import (
	"context"
	"delivery-sim-service/internal/domain"
)

// Port: a boundary for obtaining a complete planning scenario (network,
// orders, depot) from a data source such as a file or a generator.
type ScenarioSource interface {
	LoadScenario(ctx context.Context) (*domain.Scenario, error)
}

// ScenarioParams shapes a single generated scenario. Zero-valued fields
// keep the source's configured defaults.
type ScenarioParams struct {
	GridSize   int
	SpacingM   float64
	OrderCount int
	MapSeed    int64
	OrderSeed  int64
}

// Optional extension of ScenarioSource for sources that can build a
// scenario on demand from caller-supplied parameters. File-backed
// sources do not implement it.
type ScenarioGenerator interface {
	ScenarioSource
	GenerateScenario(ctx context.Context, p ScenarioParams) (*domain.Scenario, error)
}
