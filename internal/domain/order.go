package domain

// Delivery priority class. VIP orders carry a larger scheduling weight
// through their priority score.
type PriorityClass int

const (
	PriorityNormal PriorityClass = iota
	PriorityVIP
)

func (p PriorityClass) String() string {
	if p == PriorityVIP {
		return "vip"
	}
	return "normal"
}

// ParsePriorityClass maps the names used in scenario files. Anything but
// "vip" is normal.
func ParsePriorityClass(s string) PriorityClass {
	if s == "vip" {
		return PriorityVIP
	}
	return PriorityNormal
}

// Risk classification attached by upstream scoring systems. The planner
// carries it as opaque metadata; unscored orders stay at RiskUnknown.
type RiskLevel int

const (
	RiskUnknown RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseRiskLevel maps the names used in scenario files. Unknown or empty
// values stay RiskUnknown.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "low":
		return RiskLow
	case "medium":
		return RiskMedium
	case "high":
		return RiskHigh
	default:
		return RiskUnknown
	}
}

// DefaultPriorityScore is assumed for orders whose upstream score is
// absent. Scores range over [0, 10].
const DefaultPriorityScore = 5.0

// A single delivery request bound to one junction of the road network.
// Orders are immutable planning input; everything that changes during a
// simulation run lives in DeliveryStatus.
type Order struct {
	ID            int
	Node          int
	DeadlineMin   int
	WeightKg      float64
	Fragile       bool
	Priority      PriorityClass
	PriorityScore float64
	Risk          RiskLevel
}

// ApplyScoreDefaults returns a copy of orders with unset priority scores
// (zero or negative) replaced by DefaultPriorityScore.
func ApplyScoreDefaults(orders []Order) []Order {
	out := make([]Order, len(orders))
	copy(out, orders)
	for i := range out {
		if out[i].PriorityScore <= 0 {
			out[i].PriorityScore = DefaultPriorityScore
		}
	}
	return out
}

// Per-run delivery outcome for one order. Integrity starts at 100 and only
// ever decreases; Delivered is set at most once. A fresh slice is built
// for every simulation run so concurrent runs never share state.
type DeliveryStatus struct {
	OrderID      int
	IntegrityPct float64
	Delivered    bool
}

// NewDeliveryStatuses builds pristine per-order statuses for one run.
func NewDeliveryStatuses(orders []Order) []DeliveryStatus {
	st := make([]DeliveryStatus, len(orders))
	for i, o := range orders {
		st[i] = DeliveryStatus{OrderID: o.ID, IntegrityPct: 100.0}
	}
	return st
}
