package ports

// Optional extension of PathFinder for unoptimized comparison runs: plain
// shortest path by physical length, ignoring blocks, pavement and traffic.
type BaselinePathFinder interface {
	PathFinder
	// Return the shortest node sequence by summed edge length, or an empty
	// slice if none exists. Blocked edges are not excluded.
	ShortestPathByLength(start, end int) []int
}
