package scenario

import (
	"context"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/platform/obs"
	"delivery-sim-service/internal/ports"
	"fmt"
	"math/rand"
)

// Default seeds for benchmark scenarios: one fixes the terrain hazards,
// one the order book, so every compared mode faces the same world.
const (
	DefaultMapSeed   = 123
	DefaultOrderSeed = 999
)

// Chance that one direction of a generated street is blocked. Kept very
// low so hazards stay rare and never seal off whole districts.
const roadBlockProbability = 0.002

// Generator builds reproducible synthetic scenarios: a square street grid
// whose segments carry randomized congestion, pavement wear and the odd
// road block, plus a seeded order book over it. Equal seeds always yield
// the identical scenario.
type Generator struct {
	Name       string
	GridSize   int     // junctions per side, default 8
	SpacingM   float64 // distance between neighboring junctions, default 120
	OrderCount int
	MapSeed    int64
	OrderSeed  int64
}

// LoadScenario implements ports.ScenarioSource.
func (g Generator) LoadScenario(ctx context.Context) (_ *domain.Scenario, err error) {
	defer obs.Time(ctx, "scenario.generate")(&err)

	size := g.GridSize
	if size <= 0 {
		size = 8
	}
	spacing := g.SpacingM
	if spacing <= 0 {
		spacing = 120.0
	}
	mapSeed := g.MapSeed
	if mapSeed == 0 {
		mapSeed = DefaultMapSeed
	}
	orderSeed := g.OrderSeed
	if orderSeed == 0 {
		orderSeed = DefaultOrderSeed
	}
	name := g.Name
	if name == "" {
		name = fmt.Sprintf("generated-%dx%d-%d", size, size, g.OrderCount)
	}

	net, err := buildGrid(rand.New(rand.NewSource(mapSeed)), size, spacing)
	if err != nil {
		return nil, fmt.Errorf("generate scenario: %w", err)
	}

	return &domain.Scenario{
		Name:    name,
		Network: net,
		Orders:  drawOrders(rand.New(rand.NewSource(orderSeed)), g.OrderCount, net.NodeCount()),
		Depot:   0,
	}, nil
}

// GenerateScenario implements ports.ScenarioGenerator. Non-zero fields
// of p override the configured defaults for this one call; the scenario
// is then named after the resulting shape.
func (g Generator) GenerateScenario(ctx context.Context, p ports.ScenarioParams) (*domain.Scenario, error) {
	if p.GridSize > 0 {
		g.GridSize = p.GridSize
	}
	if p.SpacingM > 0 {
		g.SpacingM = p.SpacingM
	}
	if p.OrderCount > 0 {
		g.OrderCount = p.OrderCount
	}
	if p.MapSeed != 0 {
		g.MapSeed = p.MapSeed
	}
	if p.OrderSeed != 0 {
		g.OrderSeed = p.OrderSeed
	}
	g.Name = ""
	return g.LoadScenario(ctx)
}

func buildGrid(rng *rand.Rand, size int, spacing float64) (*domain.RoadNetwork, error) {
	net := domain.NewRoadNetwork()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			net.AddNode(float64(col)*spacing, float64(row)*spacing)
		}
	}

	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			id := row*size + col
			if col+1 < size {
				if err := addStreet(rng, net, id, id+1, spacing); err != nil {
					return nil, err
				}
			}
			if row+1 < size {
				if err := addStreet(rng, net, id, id+size, spacing); err != nil {
					return nil, err
				}
			}
		}
	}
	return net, nil
}

// addStreet lays a two-way street between neighboring junctions. The two
// directions share a length but are enriched independently, so congestion
// and surface wear differ per driving direction.
func addStreet(rng *rand.Rand, net *domain.RoadNetwork, a, b int, spacing float64) error {
	length := spacing * (0.9 + 0.2*rng.Float64())
	for _, dir := range [][2]int{{a, b}, {b, a}} {
		_, err := net.AddEdge(domain.Edge{
			From:          dir[0],
			To:            dir[1],
			LengthM:       length,
			SpeedLimitKmh: domain.DefaultSpeedLimitKmh,
			TrafficLevel:  rng.Float64(),
			Pavement:      drawPavement(rng),
			Blocked:       rng.Float64() < roadBlockProbability,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// drawPavement keeps half the streets in good shape and splits the rest
// between fair and bad.
func drawPavement(rng *rand.Rand) domain.Pavement {
	switch rng.Intn(4) {
	case 0, 1:
		return domain.PavementGood
	case 2:
		return domain.PavementFair
	default:
		return domain.PavementBad
	}
}

// drawOrders synthesizes the order book, standing in for the upstream
// scoring collaborators that normally attach priority and risk.
func drawOrders(rng *rand.Rand, count, nodeCount int) []domain.Order {
	if count < 0 {
		count = 0
	}
	orders := make([]domain.Order, 0, count)
	for i := 0; i < count; i++ {
		o := domain.Order{
			ID:          i + 1,
			Node:        rng.Intn(nodeCount),
			DeadlineMin: 10 + rng.Intn(111),
			WeightKg:    1.0 + 7.0*rng.Float64(),
			Fragile:     rng.Intn(2) == 1,
		}
		if rng.Intn(2) == 1 {
			o.Priority = domain.PriorityVIP
			o.PriorityScore = 6.0 + 3.0*rng.Float64()
		} else {
			o.Priority = domain.PriorityNormal
			o.PriorityScore = 3.0 + 3.0*rng.Float64()
		}
		o.Risk = drawRisk(rng)
		orders = append(orders, o)
	}
	return orders
}

func drawRisk(rng *rand.Rand) domain.RiskLevel {
	switch v := rng.Float64(); {
	case v < 0.5:
		return domain.RiskLow
	case v < 0.8:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}
