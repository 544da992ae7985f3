package cache

import (
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/ports"
	"sync"
)

type pathKey struct {
	from, to int
	fragile  bool
}

// MemoryCostCache is an in-process path cost cache. It is safe for
// concurrent use by the optimizer's scoring workers.
type MemoryCostCache struct {
	mu sync.RWMutex
	m  map[pathKey]float64
}

func NewMemoryCostCache() *MemoryCostCache {
	return &MemoryCostCache{m: make(map[pathKey]float64)}
}

func (c *MemoryCostCache) Get(from, to int, fragile bool) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cost, ok := c.m[pathKey{from, to, fragile}]
	return cost, ok
}

func (c *MemoryCostCache) Put(from, to int, fragile bool, cost float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[pathKey{from, to, fragile}] = cost
}

// MemoryFactory hands out per-network caches keyed by fingerprint:
// repeated plans over the same map reuse earlier work, a modified map
// always starts cold.
type MemoryFactory struct {
	mu     sync.Mutex
	caches map[uint64]*MemoryCostCache
}

func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{caches: make(map[uint64]*MemoryCostCache)}
}

func (f *MemoryFactory) CacheFor(net *domain.RoadNetwork) ports.CostCache {
	fp := NetworkFingerprint(net)

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.caches[fp]
	if !ok {
		c = NewMemoryCostCache()
		f.caches[fp] = c
	}
	return c
}
