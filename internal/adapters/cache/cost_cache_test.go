package cache

import (
	"delivery-sim-service/internal/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func buildNetwork(t *testing.T, blocked bool) *domain.RoadNetwork {
	t.Helper()
	net := domain.NewRoadNetwork()
	net.AddNode(0, 0)
	net.AddNode(1000, 500)
	if _, err := net.AddEdge(domain.Edge{From: 0, To: 1, LengthM: 800, Blocked: blocked}); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	if _, err := net.AddEdge(domain.Edge{From: 1, To: 0, LengthM: 800, Pavement: domain.PavementBad}); err != nil {
		t.Fatalf("add edge: %v", err)
	}
	return net
}

func TestNetworkFingerprintMatchesEqualNetworks(t *testing.T) {
	a, b := buildNetwork(t, false), buildNetwork(t, false)
	if NetworkFingerprint(a) != NetworkFingerprint(b) {
		t.Error("identical networks produced different fingerprints")
	}
}

func TestNetworkFingerprintSeesAttributeChanges(t *testing.T) {
	a, b := buildNetwork(t, false), buildNetwork(t, true)
	if NetworkFingerprint(a) == NetworkFingerprint(b) {
		t.Error("blocking an edge did not change the fingerprint")
	}
}

func TestMemoryCostCacheRoundTrip(t *testing.T) {
	c := NewMemoryCostCache()
	if _, ok := c.Get(0, 1, false); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Put(0, 1, false, 42.5)
	cost, ok := c.Get(0, 1, false)
	if !ok || cost != 42.5 {
		t.Errorf("Get = (%v, %v), want (42.5, true)", cost, ok)
	}

	// fragility is part of the key
	if _, ok := c.Get(0, 1, true); ok {
		t.Error("fragile lookup hit a non-fragile entry")
	}
}

func TestMemoryFactorySharesCachePerFingerprint(t *testing.T) {
	f := NewMemoryFactory()
	c1 := f.CacheFor(buildNetwork(t, false))
	c2 := f.CacheFor(buildNetwork(t, false))
	other := f.CacheFor(buildNetwork(t, true))

	c1.Put(0, 1, false, 7)
	if cost, ok := c2.Get(0, 1, false); !ok || cost != 7 {
		t.Errorf("equal-network cache: Get = (%v, %v), want (7, true)", cost, ok)
	}
	if _, ok := other.Get(0, 1, false); ok {
		t.Error("modified network shares cache entries with the original")
	}
}

func TestRedisCostCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	f := NewRedisFactory(client, time.Hour)

	f.CacheFor(buildNetwork(t, false)).Put(2, 5, true, 123.25)

	c := f.CacheFor(buildNetwork(t, false))
	cost, ok := c.Get(2, 5, true)
	if !ok || cost != 123.25 {
		t.Errorf("Get = (%v, %v), want (123.25, true)", cost, ok)
	}
	if _, ok := c.Get(2, 5, false); ok {
		t.Error("fragile entry served for a non-fragile lookup")
	}
}

func TestRedisCostCacheIsolatesNetworks(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	f := NewRedisFactory(client, 0)

	f.CacheFor(buildNetwork(t, false)).Put(0, 1, false, 9)
	if _, ok := f.CacheFor(buildNetwork(t, true)).Get(0, 1, false); ok {
		t.Error("cache entry leaked across network fingerprints")
	}
}

func TestRedisCostCacheDegradesToMisses(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisFactory(client, time.Minute).CacheFor(buildNetwork(t, false))

	c.Put(0, 1, false, 3)
	mr.Close()

	if _, ok := c.Get(0, 1, false); ok {
		t.Error("hit reported after the backend went away")
	}
	// writes must not panic either
	c.Put(1, 0, false, 4)
}
