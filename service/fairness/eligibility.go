package fairness

import "github.com/viant/courtside/model/court"

// ComputeEligibility returns copies of entries in FIFO order with IsNext set
// on the head only, and only when at least one court is free.
func ComputeEligibility(entries []*court.QueueEntry, free int) []*court.QueueEntry {
	ret := make([]*court.QueueEntry, 0, len(entries))
	for _, e := range entries {
		cp := e.Clone()
		cp.IsNext = false
		ret = append(ret, cp)
	}
	court.SortEntries(ret)
	if len(ret) > 0 && free > 0 {
		ret[0].IsNext = true
	}
	return ret
}

// CanClaimDirectly reports whether a walk-up request may take a court without
// queueing: nobody is waiting and a court is free.
func CanClaimDirectly(entries []*court.QueueEntry, free int) bool {
	return len(entries) == 0 && free > 0
}

// Head returns the eligible entry, or nil.
func Head(entries []*court.QueueEntry, free int) *court.QueueEntry {
	if free <= 0 || len(entries) == 0 {
		return nil
	}
	head := entries[0]
	for _, e := range entries[1:] {
		if e.Before(head) {
			head = e
		}
	}
	return head
}
