package dto

type PlanRequest struct {
	CapacityKg      float64          `json:"capacity_kg"`
	Seed            int64            `json:"seed"`
	Generations     int              `json:"generations"`
	PopulationSize  int              `json:"population_size"`
	Workers         int              `json:"workers"`
	CompareBaseline bool             `json:"compare_baseline"`
	Scenario        *ScenarioRequest `json:"scenario,omitempty"`
}

// ScenarioRequest asks for a scenario generated to order instead of the
// server's configured one. Omitted fields fall back to server defaults.
type ScenarioRequest struct {
	GridSize   int     `json:"grid_size"`
	SpacingM   float64 `json:"spacing_m"`
	OrderCount int     `json:"order_count"`
	MapSeed    int64   `json:"map_seed"`
	OrderSeed  int64   `json:"order_seed"`
}

type StopResponse struct {
	OrderID      int     `json:"order_id"`
	Node         int     `json:"node"`
	ArriveAtMin  float64 `json:"arrive_at_min"`
	IntegrityPct float64 `json:"integrity_pct"`
}

type SimulationResponse struct {
	Mode            string         `json:"mode"`
	TotalTimeMin    float64        `json:"total_time_min"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	AvgIntegrityPct float64        `json:"avg_integrity_pct"`
	OrdersDelivered int            `json:"orders_delivered"`
	SkippedOrderIDs []int          `json:"skipped_order_ids,omitempty"`
	Stops           []StopResponse `json:"stops"`
}

type PlanResponse struct {
	Scenario  string              `json:"scenario"`
	Sequence  []int               `json:"sequence"`
	Optimized SimulationResponse  `json:"optimized"`
	Baseline  *SimulationResponse `json:"baseline,omitempty"`
	Winner    string              `json:"winner"`
}
