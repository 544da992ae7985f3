package main

import (
	"context"
	"delivery-sim-service/internal/adapters/cache"
	"delivery-sim-service/internal/adapters/repositories"
	"delivery-sim-service/internal/adapters/scenario"
	"delivery-sim-service/internal/config"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/platform/db"
	"delivery-sim-service/internal/ports"
	"delivery-sim-service/internal/services"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type benchConfig struct {
	MinOrders  int
	MaxOrders  int
	GridSize   int
	CapacityKg float64
	MapSeed    int64
	OrderSeed  int64
	ReportPath string
}

// main compares baseline and optimized delivery over a ladder of order
// counts on one fixed map, writes a plain-text report, and optionally
// persists every comparison to Postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := benchConfig{
		MinOrders:  config.GetInt("BENCH_MIN_ORDERS", 2),
		MaxOrders:  config.GetInt("BENCH_MAX_ORDERS", 20),
		GridSize:   config.GetInt("GRID_SIZE", 8),
		CapacityKg: config.GetFloat("CAPACITY_KG", services.DefaultVehicleCapacityKg),
		MapSeed:    config.GetInt64("MAP_SEED", scenario.DefaultMapSeed),
		OrderSeed:  config.GetInt64("ORDER_SEED", scenario.DefaultOrderSeed),
		ReportPath: config.Get("BENCH_REPORT_PATH", "benchmark_report.txt"),
	}
	if cfg.MinOrders < 1 || cfg.MaxOrders < cfg.MinOrders {
		log.Fatalf("invalid order range %d..%d", cfg.MinOrders, cfg.MaxOrders)
	}

	var repo ports.RunRepository
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		conn, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()
		repo = repositories.NewPostgresRunRepository(conn)
		log.Println("Persisting runs backend=postgres")
	}

	ctx := context.Background()
	reports, err := runLadder(ctx, cfg, cacheFactory())
	if err != nil {
		log.Fatal(err)
	}

	if err := writeReport(cfg.ReportPath, reports); err != nil {
		log.Fatal(err)
	}
	log.Printf("Report written path=%s", cfg.ReportPath)

	if repo != nil {
		persistRuns(ctx, repo, cfg, reports)
	}

	optimizedWins := 0
	for _, r := range reports {
		if r.Winner == domain.ModeOptimized {
			optimizedWins++
		}
	}
	log.Printf("Summary optimized_wins=%d baseline_wins=%d scenarios=%d",
		optimizedWins, len(reports)-optimizedWins, len(reports))
}

// runLadder executes one comparison per order count, a few at a time. The
// map is identical across scenarios, so path costs cached for one carry
// over to the rest.
func runLadder(ctx context.Context, cfg benchConfig, caches ports.CostCacheFactory) ([]*services.DeliveryComparison, error) {
	count := cfg.MaxOrders - cfg.MinOrders + 1
	out := make([]*services.DeliveryComparison, count)
	errs := make([]error, count)

	// Leave a share of the cores for the rest of the machine.
	workers := runtime.NumCPU() * 3 / 5
	if workers < 1 {
		workers = 1
	}
	log.Printf("Running scenarios=%d workers=%d grid=%dx%d", count, workers, cfg.GridSize, cfg.GridSize)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()
			out[i], errs[i] = runScenario(ctx, cfg, cfg.MinOrders+i, caches)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("scenario with %d orders: %w", cfg.MinOrders+i, err)
		}
	}
	return out, nil
}

func runScenario(ctx context.Context, cfg benchConfig, orders int, caches ports.CostCacheFactory) (*services.DeliveryComparison, error) {
	src := scenario.Generator{
		Name:       fmt.Sprintf("bench-%dx%d-%02d", cfg.GridSize, cfg.GridSize, orders),
		GridSize:   cfg.GridSize,
		OrderCount: orders,
		MapSeed:    cfg.MapSeed,
		OrderSeed:  cfg.OrderSeed,
	}
	sc, err := src.LoadScenario(ctx)
	if err != nil {
		return nil, err
	}

	progress := func(done, total int) {
		if done == total {
			log.Printf("scenario=%s optimizer_generations=%d", sc.Name, total)
		}
	}

	cmp, err := services.PlanDelivery(ctx, sc, services.PlanDeliveryRequest{
		CapacityKg:      cfg.CapacityKg,
		CompareBaseline: true,
		Progress:        progress,
	}, caches)
	if err != nil {
		return nil, err
	}

	log.Printf("scenario=%s winner=%s optimized_integrity=%.1f baseline_integrity=%.1f",
		sc.Name, cmp.Winner, cmp.Optimized.AvgIntegrityPct, cmp.Baseline.AvgIntegrityPct)
	return cmp, nil
}

// writeReport renders one block per scenario plus a win tally.
func writeReport(path string, reports []*services.DeliveryComparison) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "DELIVERY BENCHMARK: BASELINE vs OPTIMIZED\n")
	fmt.Fprintf(&b, "Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "%s\n", rule)

	optimizedWins := 0
	for _, r := range reports {
		if r.Winner == domain.ModeOptimized {
			optimizedWins++
		}
		fmt.Fprintf(&b, "\n--- SCENARIO: %s ---\n", r.Scenario)
		fmt.Fprintf(&b, "BASELINE  -> integrity: %.1f%% | time: %.0fmin | distance: %.2fkm\n",
			r.Baseline.AvgIntegrityPct, r.Baseline.TotalTimeMin, r.Baseline.TotalDistanceKm)
		fmt.Fprintf(&b, "OPTIMIZED -> integrity: %.1f%% | time: %.0fmin | distance: %.2fkm\n",
			r.Optimized.AvgIntegrityPct, r.Optimized.TotalTimeMin, r.Optimized.TotalDistanceKm)
		fmt.Fprintf(&b, "Winner: %s\n", r.Winner)
	}

	fmt.Fprintf(&b, "\n%s\nSUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Optimized wins: %d\n", optimizedWins)
	fmt.Fprintf(&b, "Baseline wins:  %d\n", len(reports)-optimizedWins)
	fmt.Fprintf(&b, "Optimized win rate: %.0f%%\n", float64(optimizedWins)/float64(len(reports))*100)

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// persistRuns stores each comparison. Failures are logged and skipped so
// one bad row does not lose the batch.
func persistRuns(ctx context.Context, repo ports.RunRepository, cfg benchConfig, reports []*services.DeliveryComparison) {
	for i, r := range reports {
		run := domain.BenchmarkRun{
			Scenario:   r.Scenario,
			OrderCount: cfg.MinOrders + i,
			Seed:       cfg.OrderSeed,
			Baseline:   r.Baseline.Outcome(),
			Optimized:  r.Optimized.Outcome(),
			Winner:     r.Winner,
		}
		id, err := repo.SaveRun(ctx, run)
		if err != nil {
			log.Printf("save run scenario=%s err=%v", r.Scenario, err)
			continue
		}
		log.Printf("saved run_id=%d scenario=%s", id, r.Scenario)
	}
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
