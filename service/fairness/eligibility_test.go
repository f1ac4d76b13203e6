package fairness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/courtside/model/court"
)

func TestComputeEligibility(t *testing.T) {
	bob := &court.QueueEntry{ID: "b", Label: "Bob", Occupants: court.Singles, AddedAt: start, Seq: 1}
	cara := &court.QueueEntry{ID: "c", Label: "Cara", Occupants: court.Doubles, AddedAt: start.Add(5 * time.Minute), Seq: 2}

	type testCase struct {
		name    string
		entries []*court.QueueEntry
		free    int
		expect  []bool
	}
	testCases := []testCase{
		{name: "resource occupied", entries: []*court.QueueEntry{bob, cara}, free: 0, expect: []bool{false, false}},
		{name: "resource frees", entries: []*court.QueueEntry{bob, cara}, free: 1, expect: []bool{true, false}},
		{name: "many free courts still one head", entries: []*court.QueueEntry{cara, bob}, free: 3, expect: []bool{true, false}},
		{name: "empty queue", free: 2, expect: []bool{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := ComputeEligibility(tc.entries, tc.free)
			flags := []bool{}
			for _, e := range actual {
				flags = append(flags, e.IsNext)
			}
			assert.Equal(t, tc.expect, flags)
			if len(actual) > 0 {
				assert.Equal(t, "Bob", actual[0].Label)
			}
		})
	}
	assert.False(t, bob.IsNext, "inputs are not mutated")
}

func TestCanClaimDirectly(t *testing.T) {
	queued := []*court.QueueEntry{{ID: "b", Label: "Bob", AddedAt: start}}
	assert.True(t, CanClaimDirectly(nil, 2))
	assert.False(t, CanClaimDirectly(nil, 0))
	assert.False(t, CanClaimDirectly(queued, 2))
}

func TestHead(t *testing.T) {
	bob := &court.QueueEntry{ID: "b", Label: "Bob", AddedAt: start, Seq: 1}
	cara := &court.QueueEntry{ID: "c", Label: "Cara", AddedAt: start, Seq: 2}
	assert.Nil(t, Head([]*court.QueueEntry{bob, cara}, 0))
	assert.Nil(t, Head(nil, 1))
	assert.Equal(t, bob, Head([]*court.QueueEntry{cara, bob}, 1))
}

func TestEstimate(t *testing.T) {
	durations := court.DefaultDurations()
	entries := []*court.QueueEntry{
		{ID: "a", Label: "Ann", Occupants: court.Singles, AddedAt: start, Seq: 1},
		{ID: "b", Label: "Bob", Occupants: court.Doubles, AddedAt: start, Seq: 2},
		{ID: "c", Label: "Cara", Occupants: court.Singles, AddedAt: start, Seq: 3},
		{ID: "d", Label: "Dan", Occupants: court.Singles, AddedAt: start, Seq: 4},
	}
	busy := []Occupancy{
		{Court: 1, Until: start.Add(30 * time.Minute)},
		{Court: 2, Until: start.Add(10 * time.Minute)},
		{Court: 3, Until: start.Add(-5 * time.Minute)},
	}
	Estimate(entries, 3, busy, durations, start)

	type expectation struct {
		court int
		at    time.Time
	}
	expect := []expectation{
		{court: 3, at: start},
		{court: 2, at: start.Add(10 * time.Minute)},
		{court: 1, at: start.Add(30 * time.Minute)},
		{court: 3, at: start.Add(60 * time.Minute)},
	}
	for i, e := range entries {
		assert.Equal(t, expect[i].court, e.ExpectedCourt, e.Label)
		if assert.NotNil(t, e.ExpectedStart, e.Label) {
			assert.Equal(t, expect[i].at, *e.ExpectedStart, e.Label)
		}
	}
}

func TestEstimateNoCourts(t *testing.T) {
	entries := []*court.QueueEntry{{ID: "a", Label: "Ann", AddedAt: start}}
	Estimate(entries, 0, nil, court.DefaultDurations(), start)
	assert.Nil(t, entries[0].ExpectedStart)
}
