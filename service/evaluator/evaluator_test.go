package evaluator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/courtside/model/court"
)

var start = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestEvaluator_Evaluate(t *testing.T) {
	session := &court.Session{ID: "s1", Court: 1, StartedAt: start, Duration: 60 * time.Minute, Occupants: court.Singles, Label: "Alice"}

	type testCase struct {
		name      string
		model     court.StatusModel
		session   *court.Session
		at        time.Time
		expect    court.Tier
		remaining time.Duration
	}
	testCases := []testCase{
		{name: "three tier free", model: court.ThreeTier, at: start, expect: court.TierAvailable},
		{name: "three tier normal", model: court.ThreeTier, session: session, at: start.Add(30 * time.Minute), expect: court.TierNormal, remaining: 30 * time.Minute},
		{name: "three tier warning boundary", model: court.ThreeTier, session: session, at: start.Add(50 * time.Minute), expect: court.TierWarning, remaining: 10 * time.Minute},
		{name: "three tier warning", model: court.ThreeTier, session: session, at: start.Add(59 * time.Minute), expect: court.TierWarning, remaining: time.Minute},
		{name: "three tier overtime at zero", model: court.ThreeTier, session: session, at: start.Add(60 * time.Minute), expect: court.TierOvertime},
		{name: "three tier overtime", model: court.ThreeTier, session: session, at: start.Add(65 * time.Minute), expect: court.TierOvertime, remaining: -5 * time.Minute},
		{name: "two tier free", model: court.TwoTier, at: start, expect: court.TierAvailable},
		{name: "two tier claimed", model: court.TwoTier, session: session, at: start.Add(59 * time.Minute), expect: court.TierClaimed, remaining: time.Minute},
		{name: "two tier claimed overtime", model: court.TwoTier, session: session, at: start.Add(61 * time.Minute), expect: court.TierClaimed, remaining: -time.Minute},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status := New(tc.model, 0).Evaluate(tc.session, tc.at)
			assert.Equal(t, tc.expect, status.Tier)
			assert.Equal(t, tc.remaining, status.Remaining)
			assert.Equal(t, tc.session != nil, status.Occupied)
		})
	}
}

func TestFormatTime(t *testing.T) {
	type testCase struct {
		seconds int
		model   court.StatusModel
		expect  string
	}
	testCases := []testCase{
		{seconds: 0, model: court.TwoTier, expect: "0:00"},
		{seconds: 65, model: court.TwoTier, expect: "1:05"},
		{seconds: -65, model: court.TwoTier, expect: "-1:05"},
		{seconds: 3599, model: court.TwoTier, expect: "59:59"},
		{seconds: 3600, model: court.TwoTier, expect: "1:00:00"},
		{seconds: -3725, model: court.TwoTier, expect: "-1:02:05"},
		{seconds: 7200, model: court.ThreeTier, expect: "120:00"},
		{seconds: -1, model: court.ThreeTier, expect: "-0:01"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, FormatTime(tc.seconds, tc.model), "seconds=%d model=%s", tc.seconds, tc.model)
	}
	assert.NotEqual(t, FormatTime(-65, court.TwoTier), FormatTime(65, court.TwoTier))
	assert.NotEqual(t, FormatTime(-65, court.TwoTier), FormatTime(0, court.TwoTier))
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 1, Seconds(1500*time.Millisecond))
	assert.Equal(t, -1, Seconds(-500*time.Millisecond))
	assert.Equal(t, -2, Seconds(-2*time.Second))
	assert.Equal(t, "-0:01", New(court.ThreeTier, 0).Format(court.Status{Remaining: -500 * time.Millisecond}))
}

func TestWatcher_EdgeTriggered(t *testing.T) {
	session := &court.Session{ID: "s1", Court: 1, StartedAt: start, Duration: 60 * time.Minute}
	w := NewWatcher()

	fired := 0
	for at := start.Add(59*time.Minute + 59*time.Second); !at.After(start.Add(60*time.Minute + time.Second)); at = at.Add(time.Second) {
		fired += len(w.Observe(at, []*court.Session{session}))
	}
	assert.Equal(t, 1, fired)

	// still overtime a minute later: level stays, no new edge
	assert.Empty(t, w.Observe(start.Add(61*time.Minute), []*court.Session{session}))

	// extended by the operator, re-armed, then expires again
	extended := session.Clone()
	extended.Duration = 90 * time.Minute
	assert.Empty(t, w.Observe(start.Add(62*time.Minute), []*court.Session{extended}))
	got := w.Observe(start.Add(90*time.Minute), []*court.Session{extended})
	assert.Len(t, got, 1)
}

func TestWatcher_FirstObservationExpired(t *testing.T) {
	w := NewWatcher()
	a := &court.Session{ID: "a", Court: 2, StartedAt: start, Duration: 5 * time.Minute}
	b := &court.Session{ID: "b", Court: 1, StartedAt: start, Duration: 5 * time.Minute}
	got := w.Observe(start.Add(time.Hour), []*court.Session{a, b})
	if assert.Len(t, got, 2) {
		assert.Equal(t, 1, got[0].Court)
		assert.Equal(t, 2, got[1].Court)
	}
	assert.Empty(t, w.Observe(start.Add(time.Hour), []*court.Session{a, b}))

	// a new session on the same court is a new edge
	next := &court.Session{ID: "c", Court: 2, StartedAt: start, Duration: 5 * time.Minute}
	assert.Len(t, w.Observe(start.Add(time.Hour), []*court.Session{next}), 1)

	w.Reset()
	assert.Len(t, w.Observe(start.Add(time.Hour), []*court.Session{next}), 1)
}

func TestWatcher_Rearm(t *testing.T) {
	w := NewWatcher()
	session := &court.Session{ID: "s1", Court: 1, StartedAt: start, Duration: 5 * time.Minute}
	at := start.Add(6 * time.Minute)
	assert.Len(t, w.Observe(at, []*court.Session{session}), 1)
	assert.Empty(t, w.Observe(at, []*court.Session{session}))

	w.Rearm("s1")
	assert.Len(t, w.Observe(at, []*court.Session{session}), 1)
	w.Rearm("unknown")
	assert.Empty(t, w.Observe(at, []*court.Session{session}))
}
