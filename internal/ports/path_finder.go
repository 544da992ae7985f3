package ports

// Contract for constrained shortest-path queries over the road network.
// Implementations are synchronous and CPU-bound; an unreachable pair is a
// normal outcome (empty path, infinite cost), never an error.
type PathFinder interface {
	// Return the minimum-cost node sequence from start to end under the
	// fragility-aware cost rules, or an empty slice if none exists.
	FindPath(start, end int, fragile bool) []int
	// Return the total cost of the path FindPath would take, or +Inf when
	// the destination is unreachable.
	PathCost(start, end int, fragile bool) float64
}
