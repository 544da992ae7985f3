package api

import (
	"delivery-sim-service/internal/api/handlers"
	"delivery-sim-service/internal/ports"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// runs may be nil when no database is configured; the runs endpoint then
// reports unavailable instead of failing startup.
func NewRouter(scenarios ports.ScenarioSource, caches ports.CostCacheFactory, runs ports.RunRepository) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		Scenarios: scenarios,
		Caches:    caches,
	}
	runsHandler := &handlers.RunsHandler{Repo: runs}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.HandleFunc("/runs", runsHandler.List)

	return loggingMiddleware(mux)
}
