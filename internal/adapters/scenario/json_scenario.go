package scenario

import (
	"context"
	"delivery-sim-service/internal/domain"
	"delivery-sim-service/internal/platform/obs"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// On-disk scenario document. Omitted edge attributes take the network
// defaults; pavement, priority and risk carry their lowercase names.
type fileDoc struct {
	Name   string      `json:"name"`
	Depot  int         `json:"depot"`
	Nodes  []fileNode  `json:"nodes"`
	Edges  []fileEdge  `json:"edges"`
	Orders []fileOrder `json:"orders"`
}

type fileNode struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type fileEdge struct {
	From          int     `json:"from"`
	To            int     `json:"to"`
	LengthM       float64 `json:"length_m"`
	TravelTimeSec float64 `json:"travel_time_sec"`
	SpeedLimitKmh float64 `json:"speed_limit_kmh"`
	TrafficLevel  float64 `json:"traffic_level"`
	Pavement      string  `json:"pavement"`
	Blocked       bool    `json:"blocked"`
}

type fileOrder struct {
	ID            int     `json:"id"`
	Node          int     `json:"node"`
	DeadlineMin   int     `json:"deadline_min"`
	WeightKg      float64 `json:"weight_kg"`
	Fragile       bool    `json:"fragile"`
	Priority      string  `json:"priority"`
	PriorityScore float64 `json:"priority_score"`
	Risk          string  `json:"risk"`
}

// FileSource loads a scenario from a JSON document on disk.
type FileSource struct{ Path string }

// LoadScenario implements ports.ScenarioSource.
func (f FileSource) LoadScenario(ctx context.Context) (_ *domain.Scenario, err error) {
	defer obs.Time(ctx, "scenario.file.Load")(&err)

	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("load scenario: read %q: %w", f.Path, err)
	}

	var doc fileDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("load scenario: parse %q: %w", f.Path, err)
	}
	if len(doc.Nodes) == 0 {
		return nil, fmt.Errorf("load scenario: %q has no nodes", f.Path)
	}

	net := domain.NewRoadNetwork()
	for _, n := range doc.Nodes {
		net.AddNode(n.X, n.Y)
	}
	for i, e := range doc.Edges {
		_, err := net.AddEdge(domain.Edge{
			From:          e.From,
			To:            e.To,
			LengthM:       e.LengthM,
			TravelTimeSec: e.TravelTimeSec,
			SpeedLimitKmh: e.SpeedLimitKmh,
			TrafficLevel:  e.TrafficLevel,
			Pavement:      domain.ParsePavement(e.Pavement),
			Blocked:       e.Blocked,
		})
		if err != nil {
			return nil, fmt.Errorf("load scenario: edge #%d: %w", i+1, err)
		}
	}

	if _, ok := net.Node(doc.Depot); !ok {
		return nil, fmt.Errorf("load scenario: depot node %d not in network", doc.Depot)
	}

	orders := make([]domain.Order, 0, len(doc.Orders))
	for i, o := range doc.Orders {
		if _, ok := net.Node(o.Node); !ok {
			return nil, fmt.Errorf("load scenario: order #%d: node %d not in network", i+1, o.Node)
		}
		id := o.ID
		if id == 0 {
			id = i + 1
		}
		orders = append(orders, domain.Order{
			ID:            id,
			Node:          o.Node,
			DeadlineMin:   o.DeadlineMin,
			WeightKg:      o.WeightKg,
			Fragile:       o.Fragile,
			Priority:      domain.ParsePriorityClass(o.Priority),
			PriorityScore: o.PriorityScore,
			Risk:          domain.ParseRiskLevel(o.Risk),
		})
	}

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
	}

	return &domain.Scenario{Name: name, Network: net, Orders: orders, Depot: doc.Depot}, nil
}
