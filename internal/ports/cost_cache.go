package ports

import "delivery-sim-service/internal/domain"

// Port: a boundary for memoizing path costs between (from, to, fragile)
// triples. Correctness never depends on a cache: implementations may drop
// entries or degrade to misses at any time.
type CostCache interface {
	Get(from, to int, fragile bool) (float64, bool)
	Put(from, to int, fragile bool, cost float64)
}

// Builds a cost cache scoped to one road network, so cached costs are
// never replayed against a different graph.
type CostCacheFactory interface {
	CacheFor(network *domain.RoadNetwork) CostCache
}
