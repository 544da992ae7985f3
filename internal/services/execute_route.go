package services

import (
	"context"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/platform/obs"
	"delivery-sim-service/internal/ports"
	"fmt"
	"log"
	"math"
)

const (
	// RoadBlockPenaltyMin is charged whenever a traversal crosses a
	// blocked edge in a mode that does not route around blocks: the
	// vehicle gets stuck and has to back-track.
	RoadBlockPenaltyMin = 120.0

	// FragileDamagePer100M is the integrity every fragile order aboard
	// loses per 100 m of bad pavement.
	FragileDamagePer100M = 1.0

	// BadPavementSpeedFactor slows driving on degraded surface.
	BadPavementSpeedFactor = 0.8
)

// DeliveryExecutor physically replays a delivery sequence against the
// road network: it advances the vehicle stop by stop, forces depot
// returns ahead of capacity overruns, accumulates realized time and
// distance, and damages fragile cargo on bad pavement.
//
// In optimized mode legs are routed through the fragility-aware path
// finder; in baseline mode through plain shortest-path-by-length, which
// models a dispatcher that ignores hazards and pays for it on the road.
type DeliveryExecutor struct {
	net    *domain.RoadNetwork
	finder ports.PathFinder
}

func NewDeliveryExecutor(net *domain.RoadNetwork, finder ports.PathFinder) *DeliveryExecutor {
	return &DeliveryExecutor{net: net, finder: finder}
}

// Execute replays sequence (indices into orders) starting and ending at
// the depot and reports the realized outcome. An unreachable stop is
// skipped and logged, never fatal: the run continues and the order stays
// undelivered. The returned result owns its delivery statuses; orders
// are never mutated.
func (e *DeliveryExecutor) Execute(
	ctx context.Context,
	orders []domain.Order,
	sequence []int,
	depot int,
	capacityKg float64,
	mode domain.SimulationMode,
) (res *domain.SimulationResult, err error) {
	defer obs.Time(ctx, "executor.Execute")(&err)

	seen := make([]bool, len(orders))
	for _, idx := range sequence {
		if idx < 0 || idx >= len(orders) {
			return nil, fmt.Errorf("execute route: sequence index %d out of range for %d orders", idx, len(orders))
		}
		if seen[idx] {
			return nil, fmt.Errorf("execute route: duplicate sequence index %d", idx)
		}
		seen[idx] = true
	}

	baseline := mode == domain.ModeBaseline
	statuses := domain.NewDeliveryStatuses(orders)
	vehicle := domain.NewVehicle(capacityKg)

	var (
		totalTimeMin float64
		totalDistKm  float64
		stops        []domain.StopReport
		skipped      []int
	)
	current := depot

	for _, oi := range sequence {
		if cerr := ctx.Err(); cerr != nil {
			return nil, fmt.Errorf("execute route: canceled at node %d: %w", current, cerr)
		}
		ord := orders[oi]

		// Forced depot return ahead of any load that would exceed
		// capacity. Cargo rides along (and keeps taking damage) until
		// the depot is reached.
		if !vehicle.CanLoad(ord.WeightKg) {
			t, d := e.travel(current, depot, vehicle, statuses, baseline)
			totalTimeMin += t
			totalDistKm += d
			current = depot
			vehicle.UnloadAll()
		}

		path := e.route(current, ord.Node, vehicle.HasFragileCargo(), baseline)
		if len(path) == 0 {
			log.Printf("op=execute mode=%s order_id=%d node=%d event=unreachable_skipped", mode, ord.ID, ord.Node)
			skipped = append(skipped, ord.ID)
			continue
		}

		t, d := e.traverse(path, vehicle, statuses, baseline)
		totalTimeMin += t
		totalDistKm += d

		vehicle.Load(domain.CargoItem{OrderIndex: oi, WeightKg: ord.WeightKg, Fragile: ord.Fragile})
		statuses[oi].Delivered = true
		current = ord.Node

		stops = append(stops, domain.StopReport{
			OrderID:      ord.ID,
			Node:         ord.Node,
			ArriveAtMin:  totalTimeMin,
			IntegrityPct: statuses[oi].IntegrityPct,
		})
	}

	// Final depot return with whatever is still aboard.
	t, d := e.travel(current, depot, vehicle, statuses, baseline)
	totalTimeMin += t
	totalDistKm += d

	delivered := 0
	var integritySum float64
	for _, s := range statuses {
		if s.Delivered {
			delivered++
			integritySum += s.IntegrityPct
		}
	}
	avgIntegrity := 100.0
	if delivered > 0 {
		avgIntegrity = integritySum / float64(delivered)
	}

	return &domain.SimulationResult{
		Mode:            mode,
		TotalTimeMin:    totalTimeMin,
		TotalDistanceKm: totalDistKm,
		AvgIntegrityPct: avgIntegrity,
		OrdersDelivered: delivered,
		Stops:           stops,
		Skipped:         skipped,
		Statuses:        statuses,
	}, nil
}

// route picks the node sequence for one leg. Baseline mode prefers plain
// shortest-by-length when the finder supports it and falls back to
// constrained pathing otherwise.
func (e *DeliveryExecutor) route(start, end int, fragile, baseline bool) []int {
	if baseline {
		if bf, ok := e.finder.(ports.BaselinePathFinder); ok {
			return bf.ShortestPathByLength(start, end)
		}
	}
	return e.finder.FindPath(start, end, fragile)
}

// travel routes and traverses one leg in a single step. Depot legs use
// it directly: an unreachable depot charges nothing and the vehicle is
// treated as having made its way back.
func (e *DeliveryExecutor) travel(start, end int, vehicle *domain.Vehicle, statuses []domain.DeliveryStatus, baseline bool) (minutes, km float64) {
	path := e.route(start, end, vehicle.HasFragileCargo(), baseline)
	return e.traverse(path, vehicle, statuses, baseline)
}

// traverse drives the vehicle along path edge by edge, accumulating time
// and distance and applying bad-pavement damage to fragile cargo aboard.
func (e *DeliveryExecutor) traverse(path []int, vehicle *domain.Vehicle, statuses []domain.DeliveryStatus, baseline bool) (minutes, km float64) {
	fragileAboard := vehicle.HasFragileCargo()

	for i := 0; i+1 < len(path); i++ {
		ei, ok := e.pickEdge(path[i], path[i+1], fragileAboard, baseline)
		if !ok {
			// path node pair has no usable edge; nothing to charge
			continue
		}
		edge := e.net.Edge(ei)
		km += edge.LengthM / 1000.0

		if edge.Blocked {
			minutes += RoadBlockPenaltyMin
			log.Printf("op=execute event=road_block from=%d to=%d penalty_min=%.0f", edge.From, edge.To, RoadBlockPenaltyMin)
		}

		speed := edge.SpeedLimitKmh
		if edge.Pavement == domain.PavementBad {
			speed *= BadPavementSpeedFactor
		}
		speed /= 1.0 + edge.TrafficLevel
		if speed < domain.MinSpeedKmh {
			speed = domain.MinSpeedKmh
		}
		minutes += edge.LengthM / 1000.0 / speed * 60.0

		if edge.Pavement == domain.PavementBad && fragileAboard {
			damage := edge.LengthM / 100.0 * FragileDamagePer100M
			for _, oi := range vehicle.FragileCargo() {
				statuses[oi].IntegrityPct -= damage
				if statuses[oi].IntegrityPct < 0 {
					statuses[oi].IntegrityPct = 0
				}
			}
		}
	}
	return minutes, km
}

// pickEdge resolves parallel edges between adjacent path nodes to the
// cheapest one for the mode: routing cost for optimized travel, physical
// length for baseline.
func (e *DeliveryExecutor) pickEdge(u, v int, fragile, baseline bool) (int, bool) {
	best := -1
	bestVal := math.Inf(1)
	for _, ei := range e.net.OutEdges(u) {
		edge := e.net.Edge(ei)
		if edge.To != v {
			continue
		}
		val := EdgeCost(edge, fragile)
		if baseline {
			val = edge.LengthM
		}
		if val < bestVal {
			bestVal = val
			best = ei
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
