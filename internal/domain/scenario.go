package domain

// A complete planning problem: one road network, the orders to deliver
// on it, and the depot junction deliveries start from. Scenario sources
// (files, generators) produce these; the planning services consume them
// read-only.
type Scenario struct {
	Name    string
	Network *RoadNetwork
	Orders  []Order
	Depot   int
}
