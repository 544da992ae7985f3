package services

import (
	"delivery-sim-service/internal/domain"
	"sort"
)

// DeadlineSequence is the unoptimized dispatcher's ordering: deliver in
// ascending deadline order. Ties are broken by order id so the sequence
// is deterministic.
func DeadlineSequence(orders []domain.Order) []int {
	seq := make([]int, len(orders))
	for i := range seq {
		seq[i] = i
	}
	sort.SliceStable(seq, func(a, b int) bool {
		oa, ob := orders[seq[a]], orders[seq[b]]
		if oa.DeadlineMin != ob.DeadlineMin {
			return oa.DeadlineMin < ob.DeadlineMin
		}
		return oa.ID < ob.ID
	})
	return seq
}
