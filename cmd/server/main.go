package main

import (
	"delivery-sim-service/internal/adapters/cache"
	"delivery-sim-service/internal/adapters/repositories"
	"delivery-sim-service/internal/adapters/scenario"
	"delivery-sim-service/internal/api"
	"delivery-sim-service/internal/config"
	"delivery-sim-service/internal/platform/db"
	"delivery-sim-service/internal/ports"
	"log"
	"net/http"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (scenario source, cost cache, run store)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	scenarios := scenarioSource()
	caches := cacheFactory()

	// Run history is optional: without DATABASE_URL the /runs endpoint
	// reports itself unavailable and planning still works.
	var runs ports.RunRepository
	if databaseURL := strings.TrimSpace(config.Get("DATABASE_URL", "")); databaseURL != "" {
		conn, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()
		runs = repositories.NewPostgresRunRepository(conn)
		log.Println("Run persistence enabled backend=postgres")
	}

	router := api.NewRouter(scenarios, caches, runs)

	// Timeouts are tuned for large optimize requests (GA over big grids).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// scenarioSource selects where planning scenarios come from: a JSON
// document when SCENARIO_FILE is set, a seeded grid generator otherwise.
func scenarioSource() ports.ScenarioSource {
	if path := strings.TrimSpace(config.Get("SCENARIO_FILE", "")); path != "" {
		log.Printf("Scenario source=file path=%s", path)
		return scenario.FileSource{Path: path}
	}

	gen := scenario.Generator{
		GridSize:   config.GetInt("GRID_SIZE", 8),
		SpacingM:   config.GetFloat("SPACING_M", 120),
		OrderCount: config.GetInt("ORDER_COUNT", 12),
		MapSeed:    config.GetInt64("MAP_SEED", scenario.DefaultMapSeed),
		OrderSeed:  config.GetInt64("ORDER_SEED", scenario.DefaultOrderSeed),
	}
	log.Printf("Scenario source=generator grid=%dx%d orders=%d", gen.GridSize, gen.GridSize, gen.OrderCount)
	return gen
}

// cacheFactory selects the path-cost cache backend: Redis when
// REDIS_ADDR is set, per-process memory otherwise.
func cacheFactory() ports.CostCacheFactory {
	addr := strings.TrimSpace(config.Get("REDIS_ADDR", ""))
	if addr == "" {
		return cache.NewMemoryFactory()
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ttl := time.Duration(config.GetInt("COST_CACHE_TTL_HOURS", 24)) * time.Hour
	log.Printf("Cost cache backend=redis addr=%s", addr)
	return cache.NewRedisFactory(rdb, ttl)
}
