package cache

import (
	"context"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/atomic"
)

// DefaultCostTTL bounds how long shared path costs outlive the run that
// computed them.
const DefaultCostTTL = 24 * time.Hour

// RedisCostCache shares computed path costs across processes. Keys carry
// the network fingerprint, so runs against different maps never read each
// other's entries. The cache port is synchronous and non-failing: backend
// trouble turns into cache misses and the path engine recomputes, so
// planning keeps working without Redis.
type RedisCostCache struct {
	rdb      *redis.Client
	prefix   string
	ttl      time.Duration
	degraded *atomic.Bool
}

func (c *RedisCostCache) key(from, to int, fragile bool) string {
	return fmt.Sprintf("%s:%d:%d:%t", c.prefix, from, to, fragile)
}

func (c *RedisCostCache) Get(from, to int, fragile bool) (float64, bool) {
	cost, err := c.rdb.Get(context.Background(), c.key(from, to, fragile)).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, false
	}
	if err != nil {
		c.reportOnce(err)
		return 0, false
	}
	return cost, true
}

func (c *RedisCostCache) Put(from, to int, fragile bool, cost float64) {
	if err := c.rdb.Set(context.Background(), c.key(from, to, fragile), cost, c.ttl).Err(); err != nil {
		c.reportOnce(err)
	}
}

// reportOnce logs the first backend failure per cache instance; after
// that the cache stays in silent miss-only mode instead of logging every
// leg of every plan.
func (c *RedisCostCache) reportOnce(err error) {
	if c.degraded.CompareAndSwap(false, true) {
		log.Printf("op=cost_cache backend=redis event=degraded err=%v", err)
	}
}

// RedisFactory scopes Redis-backed cost caches to one road network each.
type RedisFactory struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisFactory(rdb *redis.Client, ttl time.Duration) *RedisFactory {
	if ttl <= 0 {
		ttl = DefaultCostTTL
	}
	return &RedisFactory{rdb: rdb, ttl: ttl}
}

func (f *RedisFactory) CacheFor(net *domain.RoadNetwork) ports.CostCache {
	return &RedisCostCache{
		rdb:      f.rdb,
		prefix:   fmt.Sprintf("pathcost:%016x", NetworkFingerprint(net)),
		ttl:      f.ttl,
		degraded: atomic.NewBool(false),
	}
}
