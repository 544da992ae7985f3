package domain

import "testing"

func TestApplyScoreDefaults(t *testing.T) {
	orders := []Order{
		{ID: 1, PriorityScore: 8.5},
		{ID: 2},
		{ID: 3, PriorityScore: -1},
	}

	scored := ApplyScoreDefaults(orders)

	if scored[0].PriorityScore != 8.5 {
		t.Errorf("order 1 score = %v, want 8.5 preserved", scored[0].PriorityScore)
	}
	if scored[1].PriorityScore != DefaultPriorityScore {
		t.Errorf("order 2 score = %v, want default %v", scored[1].PriorityScore, DefaultPriorityScore)
	}
	if scored[2].PriorityScore != DefaultPriorityScore {
		t.Errorf("order 3 score = %v, want default %v", scored[2].PriorityScore, DefaultPriorityScore)
	}

	// input slice must stay untouched
	if orders[1].PriorityScore != 0 {
		t.Error("ApplyScoreDefaults mutated its input")
	}
}

func TestNewDeliveryStatusesStartPristine(t *testing.T) {
	orders := []Order{{ID: 10}, {ID: 20, Fragile: true}}

	st := NewDeliveryStatuses(orders)

	if len(st) != 2 {
		t.Fatalf("got %d statuses, want 2", len(st))
	}
	for i, s := range st {
		if s.OrderID != orders[i].ID {
			t.Errorf("status %d OrderID = %d, want %d", i, s.OrderID, orders[i].ID)
		}
		if s.IntegrityPct != 100.0 {
			t.Errorf("status %d IntegrityPct = %v, want 100", i, s.IntegrityPct)
		}
		if s.Delivered {
			t.Errorf("status %d starts delivered", i)
		}
	}
}
