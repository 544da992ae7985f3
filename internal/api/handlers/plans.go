package handlers

import (
	"delivery-sim-service/internal/api/dto"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/ports"
	"delivery-sim-service/internal/services"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

type PlanHandler struct {
	Scenarios ports.ScenarioSource
	Caches    ports.CostCacheFactory
}

// Plan runs the full planning pipeline: optimize a delivery sequence,
// replay it, and optionally replay the deadline-sorted baseline for
// comparison. The scenario comes from the configured source unless the
// request carries its own generator parameters.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.CapacityKg < 0 || req.CapacityKg > 1000 {
		writeError(w, r, http.StatusBadRequest, "capacity_kg must be between 0 and 1000")
		return
	}
	if req.Generations < 0 || req.Generations > 500 {
		writeError(w, r, http.StatusBadRequest, "generations must be between 0 and 500")
		return
	}
	if req.PopulationSize < 0 || req.PopulationSize > 1000 {
		writeError(w, r, http.StatusBadRequest, "population_size must be between 0 and 1000")
		return
	}
	if req.Workers < 0 || req.Workers > 32 {
		writeError(w, r, http.StatusBadRequest, "workers must be between 0 and 32")
		return
	}
	if req.Scenario != nil {
		if req.Scenario.GridSize < 0 || req.Scenario.GridSize > 64 {
			writeError(w, r, http.StatusBadRequest, "scenario.grid_size must be between 0 and 64")
			return
		}
		if req.Scenario.SpacingM < 0 || req.Scenario.SpacingM > 1000 {
			writeError(w, r, http.StatusBadRequest, "scenario.spacing_m must be between 0 and 1000")
			return
		}
		if req.Scenario.OrderCount < 0 || req.Scenario.OrderCount > 200 {
			writeError(w, r, http.StatusBadRequest, "scenario.order_count must be between 0 and 200")
			return
		}
	}

	var (
		sc  *domain.Scenario
		err error
	)
	if req.Scenario != nil {
		gen, ok := h.Scenarios.(ports.ScenarioGenerator)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "scenario overrides are not supported by the configured source")
			return
		}
		sc, err = gen.GenerateScenario(r.Context(), ports.ScenarioParams{
			GridSize:   req.Scenario.GridSize,
			SpacingM:   req.Scenario.SpacingM,
			OrderCount: req.Scenario.OrderCount,
			MapSeed:    req.Scenario.MapSeed,
			OrderSeed:  req.Scenario.OrderSeed,
		})
	} else {
		sc, err = h.Scenarios.LoadScenario(r.Context())
	}
	if err != nil {
		log.Printf("load scenario failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	cmp, err := services.PlanDelivery(r.Context(), sc, services.PlanDeliveryRequest{
		CapacityKg:      req.CapacityKg,
		Seed:            req.Seed,
		Generations:     req.Generations,
		PopulationSize:  req.PopulationSize,
		Workers:         req.Workers,
		CompareBaseline: req.CompareBaseline,
	}, h.Caches)
	if err != nil {
		log.Printf("plan delivery failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.PlanResponse{
		Scenario:  cmp.Scenario,
		Sequence:  cmp.Sequence,
		Optimized: toSimulationResponse(cmp.Optimized),
		Winner:    string(cmp.Winner),
	}
	if cmp.Baseline != nil {
		baseline := toSimulationResponse(cmp.Baseline)
		res.Baseline = &baseline
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toSimulationResponse(sim *domain.SimulationResult) dto.SimulationResponse {
	stops := make([]dto.StopResponse, 0, len(sim.Stops))
	for _, s := range sim.Stops {
		stops = append(stops, dto.StopResponse{
			OrderID:      s.OrderID,
			Node:         s.Node,
			ArriveAtMin:  s.ArriveAtMin,
			IntegrityPct: s.IntegrityPct,
		})
	}

	return dto.SimulationResponse{
		Mode:            string(sim.Mode),
		TotalTimeMin:    sim.TotalTimeMin,
		TotalDistanceKm: sim.TotalDistanceKm,
		AvgIntegrityPct: sim.AvgIntegrityPct,
		OrdersDelivered: sim.OrdersDelivered,
		SkippedOrderIDs: sim.Skipped,
		Stops:           stops,
	}
}
