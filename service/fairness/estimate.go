package fairness

import (
	"container/heap"
	"time"

	"github.com/viant/courtside/model/court"
)

// Occupancy is a court that stays busy until Until.
type Occupancy struct {
	Court int
	Until time.Time
}

// Estimate sets ExpectedCourt and ExpectedStart on entries, assumed in FIFO
// order. Courts not listed in busy are free now; each entry is assumed to play
// its default duration. Overdue courts count as free now.
func Estimate(entries []*court.QueueEntry, courts int, busy []Occupancy, durations court.Durations, now time.Time) {
	if courts <= 0 {
		return
	}
	until := make(map[int]time.Time, len(busy))
	for _, b := range busy {
		until[b.Court] = b.Until
	}
	h := make(slots, 0, courts)
	for n := 1; n <= courts; n++ {
		at := now
		if t, ok := until[n]; ok && t.After(now) {
			at = t
		}
		h = append(h, slot{court: n, at: at})
	}
	heap.Init(&h)
	for _, e := range entries {
		next := heap.Pop(&h).(slot)
		at := next.at
		e.ExpectedCourt = next.court
		e.ExpectedStart = &at
		heap.Push(&h, slot{court: next.court, at: at.Add(durations.Default(e.Occupants))})
	}
}

type slot struct {
	court int
	at    time.Time
}

type slots []slot

func (s slots) Len() int { return len(s) }

func (s slots) Less(i, j int) bool {
	if !s[i].at.Equal(s[j].at) {
		return s[i].at.Before(s[j].at)
	}
	return s[i].court < s[j].court
}

func (s slots) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s *slots) Push(x any) { *s = append(*s, x.(slot)) }

func (s *slots) Pop() any {
	old := *s
	n := len(old)
	item := old[n-1]
	*s = old[:n-1]
	return item
}
