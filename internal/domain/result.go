package domain

import "time"

// Which routing strategy produced a simulation run.
type SimulationMode string

const (
	ModeBaseline  SimulationMode = "baseline"
	ModeOptimized SimulationMode = "optimized"
)

// One completed delivery stop in the realized itinerary: which order was
// dropped where, how far into the run, and the cargo integrity it had at
// that moment.
type StopReport struct {
	OrderID      int
	Node         int
	ArriveAtMin  float64
	IntegrityPct float64
}

// Outcome of replaying one delivery sequence against the network.
// A SimulationResult is produced once per executor run and is immutable
// afterwards. AvgIntegrityPct averages over delivered orders only and is
// 100 when nothing was delivered.
type SimulationResult struct {
	Mode            SimulationMode
	TotalTimeMin    float64
	TotalDistanceKm float64
	AvgIntegrityPct float64
	OrdersDelivered int
	Stops           []StopReport
	Skipped         []int // order ids whose node was unreachable
	Statuses        []DeliveryStatus
}

// Scalar summary of one simulation run, the shape stored per mode in a
// BenchmarkRun row.
type RunOutcome struct {
	TotalTimeMin    float64
	TotalDistanceKm float64
	AvgIntegrityPct float64
	OrdersDelivered int
}

// Outcome returns the persistable scalar view of a result.
func (r *SimulationResult) Outcome() RunOutcome {
	return RunOutcome{
		TotalTimeMin:    r.TotalTimeMin,
		TotalDistanceKm: r.TotalDistanceKm,
		AvgIntegrityPct: r.AvgIntegrityPct,
		OrdersDelivered: r.OrdersDelivered,
	}
}

// One baseline-vs-optimized comparison over a scenario, as persisted by
// the benchmark harness and served by the runs endpoint.
type BenchmarkRun struct {
	ID         int64
	Scenario   string
	OrderCount int
	Seed       int64
	Baseline   RunOutcome
	Optimized  RunOutcome
	Winner     SimulationMode
	CreatedAt  time.Time
}
