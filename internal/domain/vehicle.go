package domain

// One loaded order, identified by its index into the run's order slice.
type CargoItem struct {
	OrderIndex int
	WeightKg   float64
	Fragile    bool
}

// Delivery vehicle aggregate tracking capacity and the cargo aboard during
// a simulation run. The capacity invariant (load never exceeds capacity)
// is enforced by forcing depot returns before oversized loads, not by
// rejecting cargo.
type Vehicle struct {
	CapacityKg float64
	cargo      []CargoItem
}

func NewVehicle(capacityKg float64) *Vehicle {
	return &Vehicle{CapacityKg: capacityKg}
}

// CurrentLoadKg is the summed weight of everything aboard.
func (v *Vehicle) CurrentLoadKg() float64 {
	var total float64
	for _, c := range v.cargo {
		total += c.WeightKg
	}
	return total
}

// CanLoad reports whether the given weight still fits.
func (v *Vehicle) CanLoad(weightKg float64) bool {
	return v.CurrentLoadKg()+weightKg <= v.CapacityKg
}

// Load puts an item aboard. Callers check CanLoad first.
func (v *Vehicle) Load(item CargoItem) {
	v.cargo = append(v.cargo, item)
}

// HasFragileCargo reports whether any fragile item is aboard.
func (v *Vehicle) HasFragileCargo() bool {
	for _, c := range v.cargo {
		if c.Fragile {
			return true
		}
	}
	return false
}

// FragileCargo returns the indices (into the run's order slice) of all
// fragile items aboard.
func (v *Vehicle) FragileCargo() []int {
	var out []int
	for _, c := range v.cargo {
		if c.Fragile {
			out = append(out, c.OrderIndex)
		}
	}
	return out
}

// UnloadAll empties the vehicle, as happens on every depot visit.
func (v *Vehicle) UnloadAll() {
	v.cargo = nil
}
