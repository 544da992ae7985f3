package domain

import (
	"fmt"
	"math"
)

// Road surface quality of an edge, from best to worst.
type Pavement int

const (
	PavementGood Pavement = iota
	PavementFair
	PavementBad
)

func (p Pavement) String() string {
	switch p {
	case PavementFair:
		return "fair"
	case PavementBad:
		return "bad"
	default:
		return "good"
	}
}

// ParsePavement maps the names used in scenario files. Unknown or empty
// values fall back to good, matching the missing-attribute policy.
func ParsePavement(s string) Pavement {
	switch s {
	case "fair":
		return PavementFair
	case "bad":
		return PavementBad
	default:
		return PavementGood
	}
}

// Defaults applied to edges whose source data omits an attribute.
const (
	DefaultEdgeLengthM   = 100.0
	DefaultSpeedLimitKmh = 40.0
)

// MinSpeedKmh is the crawl floor: effective speed never drops below it,
// no matter how congested or degraded a road segment is.
const MinSpeedKmh = 5.0

// A junction in the road network. Coordinates are planar, in meters.
type Node struct {
	ID int
	X  float64
	Y  float64
}

// One directed road segment between two junctions. Several parallel edges
// may connect the same pair of junctions, each with its own attributes.
type Edge struct {
	From          int
	To            int
	LengthM       float64
	TravelTimeSec float64
	SpeedLimitKmh float64
	TrafficLevel  float64 // congestion in [0, 1]
	Pavement      Pavement
	Blocked       bool
}

// Directed multigraph of junctions and road segments. Nodes and edges live
// in flat slices indexed by integer id, with a per-node index of outgoing
// edge positions. A network is built once and only read afterwards;
// planning and simulation never mutate it.
type RoadNetwork struct {
	nodes       []Node
	edges       []Edge
	out         [][]int
	maxSpeedKmh float64
}

func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{}
}

// AddNode registers a junction at the given position and returns its id.
// Ids are dense and start at zero.
func (n *RoadNetwork) AddNode(x, y float64) int {
	id := len(n.nodes)
	n.nodes = append(n.nodes, Node{ID: id, X: x, Y: y})
	n.out = append(n.out, nil)
	return id
}

// AddEdge validates the endpoints, fills missing attributes with the
// documented defaults and returns the new edge's index.
func (n *RoadNetwork) AddEdge(e Edge) (int, error) {
	if e.From < 0 || e.From >= len(n.nodes) {
		return 0, fmt.Errorf("add edge: unknown from-node %d", e.From)
	}
	if e.To < 0 || e.To >= len(n.nodes) {
		return 0, fmt.Errorf("add edge: unknown to-node %d", e.To)
	}

	if e.LengthM <= 0 {
		e.LengthM = DefaultEdgeLengthM
	}
	if e.SpeedLimitKmh <= 0 {
		e.SpeedLimitKmh = DefaultSpeedLimitKmh
	}
	if e.TrafficLevel < 0 {
		e.TrafficLevel = 0
	} else if e.TrafficLevel > 1 {
		e.TrafficLevel = 1
	}
	if e.Pavement < PavementGood || e.Pavement > PavementBad {
		e.Pavement = PavementGood
	}
	if e.TravelTimeSec <= 0 {
		e.TravelTimeSec = DeriveTravelTimeSec(e.LengthM, e.SpeedLimitKmh, e.TrafficLevel)
	}

	idx := len(n.edges)
	n.edges = append(n.edges, e)
	n.out[e.From] = append(n.out[e.From], idx)
	if e.SpeedLimitKmh > n.maxSpeedKmh {
		n.maxSpeedKmh = e.SpeedLimitKmh
	}
	return idx, nil
}

// DeriveTravelTimeSec estimates traversal time for an edge that carries no
// explicit travel time. Congestion erodes up to 80% of the speed limit and
// the result is floored at the crawl speed.
func DeriveTravelTimeSec(lengthM, speedLimitKmh, trafficLevel float64) float64 {
	speed := speedLimitKmh * (1.0 - 0.8*trafficLevel)
	if speed < MinSpeedKmh {
		speed = MinSpeedKmh
	}
	return lengthM / 1000.0 / speed * 3600.0
}

func (n *RoadNetwork) NodeCount() int { return len(n.nodes) }

func (n *RoadNetwork) EdgeCount() int { return len(n.edges) }

// Node returns the junction with the given id, if it exists.
func (n *RoadNetwork) Node(id int) (Node, bool) {
	if id < 0 || id >= len(n.nodes) {
		return Node{}, false
	}
	return n.nodes[id], true
}

// Edge returns the edge stored at index i. Indices come from AddEdge and
// OutEdges; passing anything else is a programming error.
func (n *RoadNetwork) Edge(i int) Edge { return n.edges[i] }

// OutEdges returns the indices of all edges leaving a node. The slice is
// owned by the network and must not be modified.
func (n *RoadNetwork) OutEdges(node int) []int {
	if node < 0 || node >= len(n.out) {
		return nil
	}
	return n.out[node]
}

// MaxSpeedKmh is the highest speed limit found on any edge. No traversal
// of the network can be faster than this.
func (n *RoadNetwork) MaxSpeedKmh() float64 {
	if n.maxSpeedKmh <= 0 {
		return DefaultSpeedLimitKmh
	}
	return n.maxSpeedKmh
}

// Distance returns the straight-line separation of two junctions in
// meters, or 0 when either id is unknown.
func (n *RoadNetwork) Distance(a, b int) float64 {
	na, ok := n.Node(a)
	if !ok {
		return 0
	}
	nb, ok := n.Node(b)
	if !ok {
		return 0
	}
	return math.Hypot(nb.X-na.X, nb.Y-na.Y)
}
