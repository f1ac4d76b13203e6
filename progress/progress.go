// Package progress keeps the activity counters of a location since its last
// reset: sessions started and ended, expiries, offers and queue traffic.
package progress

import (
	"sync"
	"time"
)

// Delta is an incremental counter change emitted by the coordinator.
type Delta struct {
	Started   int
	Ended     int
	Expired   int
	Offered   int
	Confirmed int
	Abandoned int
	Joined    int
	Left      int
}

// Counters is a read-only copy of a tracker.
type Counters struct {
	Since     time.Time `json:"since"`
	Started   int       `json:"started"`
	Ended     int       `json:"ended"`
	Expired   int       `json:"expired"`
	Offered   int       `json:"offered"`
	Confirmed int       `json:"confirmed"`
	Abandoned int       `json:"abandoned"`
	Joined    int       `json:"joined"`
	Left      int       `json:"left"`
}

// Tracker aggregates deltas. It is safe for concurrent use; a nil tracker
// ignores updates.
type Tracker struct {
	mu       sync.Mutex
	counters Counters
}

// New returns a tracker counting from since.
func New(since time.Time) *Tracker {
	return &Tracker{counters: Counters{Since: since}}
}

// Update applies d.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	c := &t.counters
	c.Started += d.Started
	c.Ended += d.Ended
	c.Expired += d.Expired
	c.Offered += d.Offered
	c.Confirmed += d.Confirmed
	c.Abandoned += d.Abandoned
	c.Joined += d.Joined
	c.Left += d.Left
}

// Snapshot returns a copy of the counters.
func (t *Tracker) Snapshot() Counters {
	if t == nil {
		return Counters{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters
}

// Reset zeroes the counters and restarts them at since.
func (t *Tracker) Reset(since time.Time) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.counters = Counters{Since: since}
	t.mu.Unlock()
}
