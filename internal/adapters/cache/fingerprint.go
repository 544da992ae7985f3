package cache

import (
	"delivery-sim-service/internal/domain"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// NetworkFingerprint hashes every attribute of a road network that feeds
// the routing cost function. Networks with equal fingerprints produce
// equal path costs, so cache entries keyed by fingerprint can be shared;
// any edit to the map changes the fingerprint and starts a cold cache.
func NetworkFingerprint(net *domain.RoadNetwork) uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	writeF64 := func(v float64) { writeU64(math.Float64bits(v)) }

	writeU64(uint64(net.NodeCount()))
	for i := 0; i < net.NodeCount(); i++ {
		n, _ := net.Node(i)
		writeF64(n.X)
		writeF64(n.Y)
	}

	writeU64(uint64(net.EdgeCount()))
	for i := 0; i < net.EdgeCount(); i++ {
		e := net.Edge(i)
		writeU64(uint64(e.From))
		writeU64(uint64(e.To))
		writeF64(e.LengthM)
		writeF64(e.TravelTimeSec)
		writeF64(e.SpeedLimitKmh)
		writeF64(e.TrafficLevel)
		writeU64(uint64(e.Pavement))
		if e.Blocked {
			writeU64(1)
		} else {
			writeU64(0)
		}
	}

	return d.Sum64()
}
