package services

import (
	"context"
	"delivery-sim-service/internal/domain"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
)

// stubFinder serves fixed leg costs keyed by (from, to, fragility),
// standing in for the path engine so fitness arithmetic is exact.
type stubFinder struct {
	costs map[string]float64
}

func legKey(from, to int, fragile bool) string {
	return fmt.Sprintf("%d>%d>%v", from, to, fragile)
}

func (s *stubFinder) PathCost(start, end int, fragile bool) float64 {
	if start == end {
		return 0
	}
	if c, ok := s.costs[legKey(start, end, fragile)]; ok {
		return c
	}
	return math.Inf(1)
}

func (s *stubFinder) FindPath(start, end int, fragile bool) []int {
	if math.IsInf(s.PathCost(start, end, fragile), 1) {
		return nil
	}
	return []int{start, end}
}

// uniformCosts connects depot 0 and nodes 1..n all-to-all at the given
// cost for both fragilities.
func uniformCosts(n int, cost float64) map[string]float64 {
	costs := make(map[string]float64)
	for a := 0; a <= n; a++ {
		for b := 0; b <= n; b++ {
			if a == b {
				continue
			}
			costs[legKey(a, b, false)] = cost
			costs[legKey(a, b, true)] = cost
		}
	}
	return costs
}

func TestSolveTrivialOrderSets(t *testing.T) {
	opt := NewRouteOptimizer(&stubFinder{}, DefaultOptimizerConfig())

	seq, err := opt.Solve(context.Background(), nil, 0, 30, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq) != 0 {
		t.Errorf("empty order set: seq = %v, want []", seq)
	}

	seq, err = opt.Solve(context.Background(), []domain.Order{{ID: 9, Node: 3}}, 0, 30, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq) != 1 || seq[0] != 0 {
		t.Errorf("single order: seq = %v, want [0]", seq)
	}
}

func TestSolveIsDeterministicGivenSeed(t *testing.T) {
	orders := []domain.Order{
		{ID: 1, Node: 1, WeightKg: 5},
		{ID: 2, Node: 2, WeightKg: 5},
		{ID: 3, Node: 3, WeightKg: 5},
		{ID: 4, Node: 4, WeightKg: 5},
		{ID: 5, Node: 5, WeightKg: 5},
	}
	costs := uniformCosts(5, 10)
	// make some orderings genuinely better than others
	costs[legKey(0, 3, false)] = 2
	costs[legKey(3, 1, false)] = 2
	costs[legKey(1, 4, false)] = 3

	cfg := DefaultOptimizerConfig()
	cfg.Seed = 7
	cfg.Generations = 20

	var progressCalls, lastGen, lastTotal int
	first, err := NewRouteOptimizer(&stubFinder{costs}, cfg).Solve(
		context.Background(), orders, 0, 100,
		func(gen, total int) {
			progressCalls++
			lastGen, lastTotal = gen, total
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if progressCalls != 20 || lastGen != 20 || lastTotal != 20 {
		t.Errorf("progress: calls=%d last=(%d,%d), want 20 calls ending at (20,20)",
			progressCalls, lastGen, lastTotal)
	}

	// valid permutation: every index exactly once
	seen := make([]bool, len(orders))
	for _, i := range first {
		if i < 0 || i >= len(orders) || seen[i] {
			t.Fatalf("seq %v is not a permutation of 0..%d", first, len(orders)-1)
		}
		seen[i] = true
	}
	if len(first) != len(orders) {
		t.Fatalf("seq length = %d, want %d", len(first), len(orders))
	}

	second, err := NewRouteOptimizer(&stubFinder{costs}, cfg).Solve(context.Background(), orders, 0, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced %v then %v", first, second)
		}
	}

	// parallel scoring must not change the outcome
	cfg.Workers = 4
	third, err := NewRouteOptimizer(&stubFinder{costs}, cfg).Solve(context.Background(), orders, 0, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range first {
		if first[i] != third[i] {
			t.Fatalf("workers=4 produced %v, workers=1 produced %v", third, first)
		}
	}
}

func TestSolveRoutesFragileOrderLast(t *testing.T) {
	// delivering the fragile order first contaminates the following leg,
	// which is brutally expensive under fragile rules
	orders := []domain.Order{
		{ID: 1, Node: 1, WeightKg: 5, Fragile: true},
		{ID: 2, Node: 2, WeightKg: 5},
	}
	costs := uniformCosts(2, 10)
	for a := 0; a <= 2; a++ {
		for b := 0; b <= 2; b++ {
			if a != b {
				costs[legKey(a, b, true)] = 12
			}
		}
	}
	costs[legKey(1, 2, true)] = 5000

	cfg := DefaultOptimizerConfig()
	cfg.Seed = 3
	cfg.Generations = 25

	seq, err := NewRouteOptimizer(&stubFinder{costs}, cfg).Solve(context.Background(), orders, 0, 30, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq) != 2 || seq[0] != 1 || seq[1] != 0 {
		t.Fatalf("seq = %v, want [1 0]: non-fragile first avoids the contaminated leg", seq)
	}
}

func TestSolveCancelsBetweenGenerations(t *testing.T) {
	orders := []domain.Order{
		{ID: 1, Node: 1, WeightKg: 5},
		{ID: 2, Node: 2, WeightKg: 5},
		{ID: 3, Node: 3, WeightKg: 5},
	}
	cfg := DefaultOptimizerConfig()
	cfg.Seed = 11
	cfg.Generations = 50

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls int
	seq, err := NewRouteOptimizer(&stubFinder{uniformCosts(3, 10)}, cfg).Solve(
		ctx, orders, 0, 30,
		func(gen, total int) {
			calls++
			if gen == 3 {
				cancel()
			}
		},
	)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want wrapped context.Canceled", err)
	}
	if calls != 3 {
		t.Errorf("progress calls = %d, want 3 (abort right after cancellation)", calls)
	}

	// best-so-far must still be a usable permutation
	seen := make([]bool, len(orders))
	for _, i := range seq {
		if i < 0 || i >= len(orders) || seen[i] {
			t.Fatalf("best-so-far %v is not a permutation", seq)
		}
		seen[i] = true
	}
	if len(seq) != len(orders) {
		t.Fatalf("best-so-far length = %d, want %d", len(seq), len(orders))
	}
}

func TestFitnessInsertsForcedDepotReturn(t *testing.T) {
	// 20kg + 20kg against a 30kg vehicle: the replay must cost a depot
	// return between the two stops
	orders := []domain.Order{
		{ID: 1, Node: 1, WeightKg: 20, PriorityScore: 5},
		{ID: 2, Node: 2, WeightKg: 20, PriorityScore: 5},
	}
	cfg := DefaultOptimizerConfig()
	cfg.PriorityWeighting = false
	opt := NewRouteOptimizer(&stubFinder{uniformCosts(2, 10)}, cfg)

	got := opt.fitness([]int{0, 1}, orders, 0, 30, opt.cfg)

	// 0->1 (10) + forced 1->0 (10) + 0->2 (10) + final 2->0 (10)
	want := 1.0 / (40 + fitnessEpsilon)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("fitness = %v, want %v", got, want)
	}
}

func TestFitnessContaminatesLegsAfterFragileLoad(t *testing.T) {
	orders := []domain.Order{
		{ID: 1, Node: 1, WeightKg: 5, Fragile: true, PriorityScore: 5},
		{ID: 2, Node: 2, WeightKg: 5, PriorityScore: 5},
	}
	costs := uniformCosts(2, 10)
	for a := 0; a <= 2; a++ {
		for b := 0; b <= 2; b++ {
			if a != b {
				costs[legKey(a, b, true)] = 20
			}
		}
	}
	costs[legKey(1, 2, true)] = 999

	cfg := DefaultOptimizerConfig()
	cfg.PriorityWeighting = false
	opt := NewRouteOptimizer(&stubFinder{costs}, cfg)

	got := opt.fitness([]int{0, 1}, orders, 0, 30, opt.cfg)

	// 0->1 fragile (20) + 1->2 contaminated (999) + final 2->0 with the
	// fragile order still aboard (20)
	want := 1.0 / (1039 + fitnessEpsilon)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("fitness = %v, want %v", got, want)
	}
}

func TestFitnessPriorityWeightingFavorsUrgentFirst(t *testing.T) {
	urgentFirst := []domain.Order{
		{ID: 1, Node: 1, WeightKg: 5, PriorityScore: 10},
		{ID: 2, Node: 2, WeightKg: 5, PriorityScore: 5},
	}
	opt := NewRouteOptimizer(&stubFinder{uniformCosts(2, 10)}, DefaultOptimizerConfig())

	early := opt.fitness([]int{0, 1}, urgentFirst, 0, 30, opt.cfg)
	late := opt.fitness([]int{1, 0}, urgentFirst, 0, 30, opt.cfg)

	if early <= late {
		t.Errorf("urgent-first fitness %v <= urgent-last %v, want strictly greater", early, late)
	}
}

func TestFitnessUnreachableLegScoresZero(t *testing.T) {
	orders := []domain.Order{{ID: 1, Node: 9, WeightKg: 5, PriorityScore: 5}}
	opt := NewRouteOptimizer(&stubFinder{uniformCosts(2, 10)}, DefaultOptimizerConfig())

	if got := opt.fitness([]int{0}, orders, 0, 30, opt.cfg); got != 0 {
		t.Errorf("fitness = %v, want 0 for an unreachable destination", got)
	}
}

func TestOrderCrossoverPreservesPermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p1 := []int{0, 1, 2, 3, 4, 5, 6}
	p2 := []int{6, 5, 4, 3, 2, 1, 0}

	for trial := 0; trial < 50; trial++ {
		child := orderCrossover(rng, p1, p2)
		seen := make([]bool, len(p1))
		for _, g := range child {
			if g < 0 || g >= len(p1) || seen[g] {
				t.Fatalf("trial %d: child %v is not a permutation", trial, child)
			}
			seen[g] = true
		}
	}
}
