package handlers

import (
	"delivery-sim-service/internal/api/dto"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/ports"
	"log"
	"net/http"
	"strconv"
)

// RunsHandler exposes read-only access to persisted benchmark runs.
type RunsHandler struct {
	Repo ports.RunRepository
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.Repo == nil {
		writeError(w, r, http.StatusServiceUnavailable, "run persistence is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	runs, err := h.Repo.ListRuns(r.Context(), limit)
	if err != nil {
		log.Printf("list runs failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunResponse, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.RunResponse{
			RunID:      run.ID,
			Scenario:   run.Scenario,
			OrderCount: run.OrderCount,
			Seed:       run.Seed,
			Baseline:   toRunOutcomeResponse(run.Baseline),
			Optimized:  toRunOutcomeResponse(run.Optimized),
			Winner:     string(run.Winner),
			CreatedAt:  run.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func toRunOutcomeResponse(o domain.RunOutcome) dto.RunOutcomeResponse {
	return dto.RunOutcomeResponse{
		TotalTimeMin:    o.TotalTimeMin,
		TotalDistanceKm: o.TotalDistanceKm,
		AvgIntegrityPct: o.AvgIntegrityPct,
		OrdersDelivered: o.OrdersDelivered,
	}
}
