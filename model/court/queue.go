package court

import (
	"sort"
	"time"
)

// QueueEntry is a request waiting for the next available court.
type QueueEntry struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	Occupants Occupants `json:"occupants" yaml:"occupants"`
	AddedAt   time.Time `json:"addedAt" yaml:"addedAt"`
	// Seq breaks ties between entries that arrived at the same instant.
	Seq int64 `json:"seq" yaml:"seq"`

	// Derived on read, never persisted as authoritative.
	IsNext        bool       `json:"isNext,omitempty" yaml:"-"`
	ExpectedCourt int        `json:"expectedCourt,omitempty" yaml:"-"`
	ExpectedStart *time.Time `json:"expectedStart,omitempty" yaml:"-"`
}

// Clone returns a copy of the entry.
func (e *QueueEntry) Clone() *QueueEntry {
	if e == nil {
		return nil
	}
	cp := *e
	if e.ExpectedStart != nil {
		at := *e.ExpectedStart
		cp.ExpectedStart = &at
	}
	return &cp
}

// Before reports whether e arrived before other.
func (e *QueueEntry) Before(other *QueueEntry) bool {
	if !e.AddedAt.Equal(other.AddedAt) {
		return e.AddedAt.Before(other.AddedAt)
	}
	return e.Seq < other.Seq
}

// SortEntries orders entries by arrival, ties by insertion order.
func SortEntries(entries []*QueueEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Before(entries[j])
	})
}
