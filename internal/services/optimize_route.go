package services

import (
	"context"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/platform/obs"
	"delivery-sim-service/internal/ports"
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// Default genetic-search parameters.
const (
	DefaultPopulationSize = 50
	DefaultGenerations    = 60
	DefaultMutationRate   = 0.15
	DefaultEliteCount     = 2
	DefaultTournamentK    = 3

	// Seed used when the caller leaves OptimizerConfig.Seed at zero, so
	// unconfigured runs are still reproducible.
	defaultOptimizerSeed = 42
)

const fitnessEpsilon = 1e-6

// Tuning knobs for the genetic route search. Start from
// DefaultOptimizerConfig and override what you need; zero or out-of-range
// numeric fields fall back to the defaults.
type OptimizerConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	EliteCount     int
	TournamentK    int
	// PriorityWeighting folds an elapsed-time penalty scaled by each
	// order's priority score into the cost, pushing urgent orders toward
	// the front of the sequence.
	PriorityWeighting bool
	// Workers bounds how many goroutines score the population. Above 1
	// the configured PathFinder must be safe for concurrent use.
	Workers int
	Seed    int64
}

func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		PopulationSize:    DefaultPopulationSize,
		Generations:       DefaultGenerations,
		MutationRate:      DefaultMutationRate,
		EliteCount:        DefaultEliteCount,
		TournamentK:       DefaultTournamentK,
		PriorityWeighting: true,
		Workers:           1,
	}
}

func (c OptimizerConfig) normalized() OptimizerConfig {
	d := DefaultOptimizerConfig()
	if c.PopulationSize <= 0 {
		c.PopulationSize = d.PopulationSize
	}
	if c.Generations <= 0 {
		c.Generations = d.Generations
	}
	if c.MutationRate <= 0 || c.MutationRate > 1 {
		c.MutationRate = d.MutationRate
	}
	if c.EliteCount < 0 {
		c.EliteCount = d.EliteCount
	}
	if c.EliteCount > c.PopulationSize {
		c.EliteCount = c.PopulationSize
	}
	if c.TournamentK <= 0 {
		c.TournamentK = d.TournamentK
	}
	if c.TournamentK > c.PopulationSize {
		c.TournamentK = c.PopulationSize
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c
}

func (c OptimizerConfig) seedOrDefault() int64 {
	if c.Seed == 0 {
		return defaultOptimizerSeed
	}
	return c.Seed
}

// RouteOptimizer searches permutations of an order set for a low-cost
// delivery sequence using a genetic algorithm. Candidate sequences are
// scored by replaying them against the path-cost oracle under capacity
// and fragility-contamination rules.
//
// The search is generation-bounded, not convergence-based, and does not
// promise a global optimum. Given identical inputs and seed it returns
// the identical sequence on every run.
type RouteOptimizer struct {
	finder ports.PathFinder
	cfg    OptimizerConfig
}

func NewRouteOptimizer(finder ports.PathFinder, cfg OptimizerConfig) *RouteOptimizer {
	return &RouteOptimizer{finder: finder, cfg: cfg.normalized()}
}

// Solve returns delivery-order indices (into orders) forming the best
// sequence found. An empty order set yields an empty sequence and a
// single order yields [0], with no search in either case.
//
// progress, when non-nil, is called once per generation with (generation,
// total); it must not affect the outcome. The context is checked right
// after each progress notification: on cancellation the best sequence
// found so far is returned together with the context's error.
func (o *RouteOptimizer) Solve(
	ctx context.Context,
	orders []domain.Order,
	depot int,
	capacityKg float64,
	progress func(generation, total int),
) (best []int, err error) {
	defer obs.Time(ctx, "optimizer.Solve")(&err)

	if len(orders) == 0 {
		return []int{}, nil
	}
	if len(orders) == 1 {
		return []int{0}, nil
	}

	cfg := o.cfg
	rng := rand.New(rand.NewSource(cfg.seedOrDefault()))
	scored := domain.ApplyScoreDefaults(orders)

	population := make([][]int, cfg.PopulationSize)
	for i := range population {
		population[i] = rng.Perm(len(orders))
	}

	bestFitness := -1.0
	scores := make([]float64, cfg.PopulationSize)

	for gen := 1; gen <= cfg.Generations; gen++ {
		o.evaluate(population, scores, scored, depot, capacityKg, cfg)

		for i, s := range scores {
			if s > bestFitness {
				bestFitness = s
				best = append(best[:0], population[i]...)
			}
		}

		if progress != nil {
			progress(gen, cfg.Generations)
		}
		if cerr := ctx.Err(); cerr != nil {
			return best, fmt.Errorf("optimize route: canceled at generation %d/%d: %w", gen, cfg.Generations, cerr)
		}
		if gen == cfg.Generations {
			break
		}

		next := make([][]int, 0, cfg.PopulationSize)
		next = append(next, o.fittest(population, scores, cfg.EliteCount)...)
		for len(next) < cfg.PopulationSize {
			p1 := o.tournament(rng, population, scores, cfg.TournamentK)
			p2 := o.tournament(rng, population, scores, cfg.TournamentK)
			child := orderCrossover(rng, p1, p2)
			mutate(rng, child, cfg.MutationRate)
			next = append(next, child)
		}
		population = next
	}

	return best, nil
}

// evaluate scores every individual in the population. Fitness is a pure
// function of (sequence, orders, network), so scoring fans out across
// Workers goroutines without changing any result.
func (o *RouteOptimizer) evaluate(pop [][]int, scores []float64, orders []domain.Order, depot int, capacityKg float64, cfg OptimizerConfig) {
	if cfg.Workers <= 1 {
		for i, seq := range pop {
			scores[i] = o.fitness(seq, orders, depot, capacityKg, cfg)
		}
		return
	}

	sem := make(chan struct{}, cfg.Workers)
	var wg sync.WaitGroup
	for i := range pop {
		wg.Add(1)
		go func(i int) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			scores[i] = o.fitness(pop[i], orders, depot, capacityKg, cfg)
		}(i)
	}
	wg.Wait()
}

// fitness replays one candidate sequence against the cost oracle and
// returns 1/(cost+eps), so lower cost means higher fitness.
//
// The replay inserts a forced depot return (cargo unloaded, fragility
// cleared) ahead of any order that would exceed capacity. A leg counts as
// a fragile trip when the incoming order is fragile or fragile cargo is
// already aboard; that contamination persists until the next depot
// unload. Unreachable legs cost +Inf, which scores the sequence at zero
// fitness rather than failing.
func (o *RouteOptimizer) fitness(seq []int, orders []domain.Order, depot int, capacityKg float64, cfg OptimizerConfig) float64 {
	var (
		totalCost     float64
		elapsed       float64
		load          float64
		fragileAboard bool
	)
	current := depot

	for _, oi := range seq {
		ord := orders[oi]

		if load+ord.WeightKg > capacityKg {
			returnCost := o.finder.PathCost(current, depot, fragileAboard)
			totalCost += returnCost
			elapsed += returnCost
			current = depot
			load = 0
			fragileAboard = false
		}

		legFragile := ord.Fragile || fragileAboard
		legCost := o.finder.PathCost(current, ord.Node, legFragile)
		totalCost += legCost
		elapsed += legCost

		if cfg.PriorityWeighting {
			totalCost += elapsed * (ord.PriorityScore / domain.DefaultPriorityScore)
		}

		current = ord.Node
		load += ord.WeightKg
		if ord.Fragile {
			fragileAboard = true
		}
	}

	totalCost += o.finder.PathCost(current, depot, fragileAboard)

	return 1.0 / (totalCost + fitnessEpsilon)
}

// fittest returns copies of the top-n individuals, ties resolved by
// population position so elitism is reproducible.
func (o *RouteOptimizer) fittest(pop [][]int, scores []float64, n int) [][]int {
	idx := make([]int, len(pop))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] > scores[idx[b]]
	})

	if n > len(pop) {
		n = len(pop)
	}
	elites := make([][]int, 0, n)
	for _, i := range idx[:n] {
		elites = append(elites, append([]int(nil), pop[i]...))
	}
	return elites
}

// tournament samples k distinct individuals and keeps the fittest, ties
// going to the earliest sampled.
func (o *RouteOptimizer) tournament(rng *rand.Rand, pop [][]int, scores []float64, k int) []int {
	ids := sample(rng, len(pop), k)
	best := ids[0]
	for _, i := range ids[1:] {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return pop[best]
}

// orderCrossover copies a contiguous slice of p1 into the child at the
// same positions, then fills the gaps with p2's genes in p2's relative
// order. The child is always a valid permutation: no duplicates, no
// omissions.
func orderCrossover(rng *rand.Rand, p1, p2 []int) []int {
	n := len(p1)
	cut := sample(rng, n, 2)
	start, end := cut[0], cut[1]
	if start > end {
		start, end = end, start
	}

	child := make([]int, n)
	copied := make([]bool, n)
	for i := range child {
		child[i] = -1
	}
	for i := start; i < end; i++ {
		child[i] = p1[i]
		copied[p1[i]] = true
	}

	ptr := 0
	for _, gene := range p2 {
		if copied[gene] {
			continue
		}
		for child[ptr] != -1 {
			ptr++
		}
		child[ptr] = gene
		ptr++
	}
	return child
}

// mutate swaps two random positions with the given probability.
func mutate(rng *rand.Rand, seq []int, rate float64) {
	if rng.Float64() >= rate {
		return
	}
	pos := sample(rng, len(seq), 2)
	seq[pos[0]], seq[pos[1]] = seq[pos[1]], seq[pos[0]]
}

// sample draws k distinct indices from [0, n) in random order.
func sample(rng *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	return rng.Perm(n)[:k]
}
