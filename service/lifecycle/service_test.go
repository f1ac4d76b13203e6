package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/service/dao/store"
)

var start = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newService() (*Service, *clock.Manual) {
	clk := clock.NewManual(start)
	location := &court.Location{Name: "park", Courts: 3, Model: court.ThreeTier, Durations: court.DefaultDurations()}
	return New(location, store.NewMemoryStore[int, court.Session](Key), clk), clk
}

func durationPtr(d time.Duration) *time.Duration { return &d }

func TestService_Start(t *testing.T) {
	type testCase struct {
		name     string
		spec     court.SessionSpec
		kind     court.Kind
		sentinel error
		duration time.Duration
	}
	testCases := []testCase{
		{name: "singles default", spec: court.SessionSpec{Court: 1, Occupants: court.Singles, Label: " Alice "}, duration: 60 * time.Minute},
		{name: "doubles default", spec: court.SessionSpec{Court: 2, Occupants: court.Doubles, Label: "Team"}, duration: 120 * time.Minute},
		{name: "explicit duration", spec: court.SessionSpec{Court: 1, Occupants: court.Singles, Label: "Bob", Duration: durationPtr(30 * time.Minute)}, duration: 30 * time.Minute},
		{name: "duration above singles max", spec: court.SessionSpec{Court: 1, Occupants: court.Singles, Label: "Bob", Duration: durationPtr(90 * time.Minute)}, kind: court.KindValidation, sentinel: court.ErrInvalidDuration},
		{name: "duration below min", spec: court.SessionSpec{Court: 1, Occupants: court.Doubles, Label: "Bob", Duration: durationPtr(time.Minute)}, kind: court.KindValidation, sentinel: court.ErrInvalidDuration},
		{name: "three occupants", spec: court.SessionSpec{Court: 1, Occupants: 3, Label: "Bob"}, kind: court.KindValidation, sentinel: court.ErrInvalidOccupant},
		{name: "blank label", spec: court.SessionSpec{Court: 1, Occupants: court.Singles, Label: "  "}, kind: court.KindValidation, sentinel: court.ErrEmptyLabel},
		{name: "unknown court", spec: court.SessionSpec{Court: 4, Occupants: court.Singles, Label: "Bob"}, kind: court.KindValidation, sentinel: court.ErrUnknownCourt},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newService()
			session, err := srv.Start(context.Background(), tc.spec)
			if tc.sentinel != nil {
				assert.Nil(t, session)
				assert.True(t, errors.Is(err, tc.sentinel), err)
				assert.Equal(t, tc.kind, court.KindOf(err))
				sessions, _ := srv.List(context.Background())
				assert.Empty(t, sessions)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.NotEmpty(t, session.ID)
			assert.Equal(t, start, session.StartedAt)
			assert.Equal(t, tc.duration, session.Duration)
			assert.Equal(t, tc.spec.Court, session.Court)
		})
	}
}

func TestService_StartOccupied(t *testing.T) {
	ctx := context.Background()
	srv, _ := newService()
	first, err := srv.Start(ctx, court.SessionSpec{Court: 1, Occupants: court.Singles, Label: "Alice"})
	assert.NoError(t, err)

	_, err = srv.Start(ctx, court.SessionSpec{Court: 1, Occupants: court.Doubles, Label: "Bob"})
	assert.True(t, errors.Is(err, court.ErrOccupied))
	assert.Equal(t, court.KindPrecondition, court.KindOf(err))

	held, err := srv.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, held.ID)
}

func TestService_StartBackdated(t *testing.T) {
	srv, _ := newService()
	at := start.Add(-15 * time.Minute)
	session, err := srv.Start(context.Background(), court.SessionSpec{Court: 1, Occupants: court.Singles, Label: "Alice", StartedAt: &at})
	assert.NoError(t, err)
	assert.Equal(t, 45*time.Minute, session.Remaining(start))
}

func TestService_Edit(t *testing.T) {
	doubles := court.Doubles
	singles := court.Singles
	label := "Carol"
	blank := ""

	type testCase struct {
		name      string
		occupants court.Occupants
		edit      court.SessionEdit
		duration  time.Duration
		expectOcc court.Occupants
		label     string
		sentinel  error
	}
	testCases := []testCase{
		{name: "extend", occupants: court.Singles, edit: court.SessionEdit{Duration: durationPtr(45 * time.Minute)}, duration: 45 * time.Minute, expectOcc: court.Singles, label: "Alice"},
		{name: "singles to doubles resets duration", occupants: court.Singles, edit: court.SessionEdit{Occupants: &doubles}, duration: 120 * time.Minute, expectOcc: court.Doubles, label: "Alice"},
		{name: "doubles to singles with duration", occupants: court.Doubles, edit: court.SessionEdit{Occupants: &singles, Duration: durationPtr(20 * time.Minute)}, duration: 20 * time.Minute, expectOcc: court.Singles, label: "Alice"},
		{name: "rename", occupants: court.Singles, edit: court.SessionEdit{Label: &label}, duration: 60 * time.Minute, expectOcc: court.Singles, label: "Carol"},
		{name: "singles over max", occupants: court.Singles, edit: court.SessionEdit{Duration: durationPtr(61 * time.Minute)}, sentinel: court.ErrInvalidDuration},
		{name: "blank label", occupants: court.Singles, edit: court.SessionEdit{Label: &blank}, sentinel: court.ErrEmptyLabel},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			srv, clk := newService()
			original, err := srv.Start(ctx, court.SessionSpec{Court: 2, Occupants: tc.occupants, Label: "Alice"})
			assert.NoError(t, err)
			clk.Advance(5 * time.Minute)

			updated, err := srv.Edit(ctx, 2, tc.edit)
			if tc.sentinel != nil {
				assert.True(t, errors.Is(err, tc.sentinel), err)
				assert.Equal(t, court.KindValidation, court.KindOf(err))
				held, _ := srv.Get(ctx, 2)
				assert.Equal(t, original, held)
				return
			}
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, original.ID, updated.ID)
			assert.Equal(t, original.StartedAt, updated.StartedAt)
			assert.Equal(t, 2, updated.Court)
			assert.Equal(t, tc.duration, updated.Duration)
			assert.Equal(t, tc.expectOcc, updated.Occupants)
			assert.Equal(t, tc.label, updated.Label)
		})
	}
}

func TestService_EditFreeCourt(t *testing.T) {
	srv, _ := newService()
	_, err := srv.Edit(context.Background(), 1, court.SessionEdit{Duration: durationPtr(time.Hour)})
	assert.True(t, court.IsNotFound(err))
	assert.True(t, errors.Is(err, court.ErrSessionNotFound))
}

func TestService_EndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	srv, _ := newService()
	started, err := srv.Start(ctx, court.SessionSpec{Court: 3, Occupants: court.Doubles, Label: "Team"})
	assert.NoError(t, err)

	ended, err := srv.End(ctx, 3)
	assert.NoError(t, err)
	assert.Equal(t, started.ID, ended.ID)

	_, err = srv.End(ctx, 3)
	assert.True(t, court.IsNotFound(err))

	held, err := srv.Get(ctx, 3)
	assert.NoError(t, err)
	assert.Nil(t, held)
}

func TestService_ListAndClear(t *testing.T) {
	ctx := context.Background()
	srv, _ := newService()
	for _, n := range []int{3, 1, 2} {
		_, err := srv.Start(ctx, court.SessionSpec{Court: n, Occupants: court.Singles, Label: "P"})
		assert.NoError(t, err)
	}
	sessions, err := srv.List(ctx)
	assert.NoError(t, err)
	if assert.Len(t, sessions, 3) {
		assert.Equal(t, []int{1, 2, 3}, []int{sessions[0].Court, sessions[1].Court, sessions[2].Court})
	}

	assert.NoError(t, srv.Clear(ctx))
	sessions, err = srv.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, sessions)
}
