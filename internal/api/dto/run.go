package dto

import "time"

type RunOutcomeResponse struct {
	TotalTimeMin    float64 `json:"total_time_min"`
	TotalDistanceKm float64 `json:"total_distance_km"`
	AvgIntegrityPct float64 `json:"avg_integrity_pct"`
	OrdersDelivered int     `json:"orders_delivered"`
}

type RunResponse struct {
	RunID      int64              `json:"run_id"`
	Scenario   string             `json:"scenario"`
	OrderCount int                `json:"order_count"`
	Seed       int64              `json:"seed"`
	Baseline   RunOutcomeResponse `json:"baseline"`
	Optimized  RunOutcomeResponse `json:"optimized"`
	Winner     string             `json:"winner"`
	CreatedAt  time.Time          `json:"created_at"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}
