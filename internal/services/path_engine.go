package services

import (
	"container/heap"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/ports"
	"math"
)

// Pavement penalties for the routing cost function. Bad pavement makes a
// non-fragile trip 40% more expensive; with fragile cargo the edge stays
// passable as a last resort but is avoided whenever any alternative exists.
const (
	BadPavementPenalty        = 1.4
	FragileBadPavementPenalty = 5000.0
)

// EdgeCost scores one traversal of an edge for the given trip fragility.
// Blocked edges are impassable.
func EdgeCost(e domain.Edge, fragile bool) float64 {
	if e.Blocked {
		return math.Inf(1)
	}
	penalty := 1.0
	if e.Pavement == domain.PavementBad {
		if fragile {
			penalty = FragileBadPavementPenalty
		} else {
			penalty = BadPavementPenalty
		}
	}
	return e.TravelTimeSec * penalty * (1.0 + e.TrafficLevel)
}

// PathEngine answers constrained shortest-path queries over one road
// network using A* search. It implements ports.PathFinder and
// ports.BaselinePathFinder. The optional cost cache only short-circuits
// repeated PathCost queries; a nil cache changes nothing but speed.
type PathEngine struct {
	net   *domain.RoadNetwork
	cache ports.CostCache
}

func NewPathEngine(net *domain.RoadNetwork, cache ports.CostCache) *PathEngine {
	return &PathEngine{net: net, cache: cache}
}

// FindPath returns the minimum-cost node sequence from start to end for
// the given trip fragility, or an empty slice when no path exists.
// start == end yields the single-node path.
func (p *PathEngine) FindPath(start, end int, fragile bool) []int {
	path, cost := p.search(start, end,
		func(e domain.Edge) float64 { return EdgeCost(e, fragile) },
		p.timeHeuristic(end),
	)
	if path != nil && p.cache != nil && !math.IsInf(cost, 1) {
		p.cache.Put(start, end, fragile, cost)
	}
	return path
}

// PathCost returns the total cost of the path FindPath takes between the
// same nodes with the same fragility, or +Inf when unreachable. The two
// share one weight function, so PathCost always equals the edge-cost sum
// over FindPath's result.
func (p *PathEngine) PathCost(start, end int, fragile bool) float64 {
	if p.cache != nil {
		if c, ok := p.cache.Get(start, end, fragile); ok {
			return c
		}
	}
	_, cost := p.search(start, end,
		func(e domain.Edge) float64 { return EdgeCost(e, fragile) },
		p.timeHeuristic(end),
	)
	if p.cache != nil && !math.IsInf(cost, 1) {
		p.cache.Put(start, end, fragile, cost)
	}
	return cost
}

// ShortestPathByLength is the unoptimized comparison routing: plain
// Dijkstra over physical edge length. Blocked edges stay usable here; the
// executor charges a stuck penalty when one is actually crossed.
func (p *PathEngine) ShortestPathByLength(start, end int) []int {
	path, _ := p.search(start, end,
		func(e domain.Edge) float64 { return e.LengthM },
		func(int) float64 { return 0 },
	)
	return path
}

// timeHeuristic lower-bounds the remaining cost to goal: straight-line
// distance at the fastest speed any edge allows, in seconds. Admissible
// as long as edge travel times are no smaller than length/MaxSpeedKmh;
// AddEdge's derivation guarantees that for edges built from defaults.
func (p *PathEngine) timeHeuristic(goal int) func(int) float64 {
	maxSpeedMps := p.net.MaxSpeedKmh() / 3.6
	return func(node int) float64 {
		return p.net.Distance(node, goal) / maxSpeedMps
	}
}

// search runs best-first search from start to end under the given edge
// weight and heuristic. Stale queue entries are skipped on pop instead of
// being re-keyed in place; ties in f are broken by node id so expansion
// order is reproducible. Returns (nil, +Inf) when end is unreachable.
func (p *PathEngine) search(start, end int, weight func(domain.Edge) float64, h func(int) float64) ([]int, float64) {
	n := p.net.NodeCount()
	if start < 0 || start >= n || end < 0 || end >= n {
		return nil, math.Inf(1)
	}
	if start == end {
		return []int{start}, 0
	}

	gScore := make([]float64, n)
	cameFrom := make([]int, n) // index of the edge that discovered the node
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		cameFrom[i] = -1
	}
	gScore[start] = 0

	frontier := &frontierQueue{{node: start, f: h(start)}}
	heap.Init(frontier)

	for frontier.Len() > 0 {
		cur := heap.Pop(frontier).(frontierEntry)
		if closed[cur.node] {
			continue
		}
		closed[cur.node] = true
		if cur.node == end {
			break
		}

		for _, ei := range p.net.OutEdges(cur.node) {
			e := p.net.Edge(ei)
			w := weight(e)
			if math.IsInf(w, 1) {
				continue
			}
			// Strict improvement keeps the first-found edge on cost ties,
			// which also resolves parallel edges to the cheapest one.
			cand := gScore[cur.node] + w
			if cand < gScore[e.To] {
				gScore[e.To] = cand
				cameFrom[e.To] = ei
				heap.Push(frontier, frontierEntry{node: e.To, f: cand + h(e.To)})
			}
		}
	}

	if math.IsInf(gScore[end], 1) {
		return nil, math.Inf(1)
	}

	path := []int{end}
	for at := end; at != start; {
		at = p.net.Edge(cameFrom[at]).From
		path = append(path, at)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, gScore[end]
}

type frontierEntry struct {
	node int
	f    float64
}

// Min-heap of frontier entries ordered by f, ties by node id.
type frontierQueue []frontierEntry

func (q frontierQueue) Len() int { return len(q) }

func (q frontierQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].node < q[j].node
}

func (q frontierQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontierQueue) Push(x any) { *q = append(*q, x.(frontierEntry)) }

func (q *frontierQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	*q = old[:n-1]
	return entry
}
