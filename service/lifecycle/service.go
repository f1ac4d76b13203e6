// Package lifecycle owns creation, editing and removal of the single session a
// court may hold. It validates input and rejects starts on occupied courts but
// does not arbitrate between competing callers; the allocator serializes
// access.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/internal/idgen"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/service/dao"
)

// Key selects the session key: its court number.
func Key(s *court.Session) int { return s.Court }

// Service manages sessions of one location.
type Service struct {
	location *court.Location
	sessions dao.Service[int, court.Session]
	clock    clock.Clock
}

// New creates a lifecycle manager storing sessions in sessions.
func New(location *court.Location, sessions dao.Service[int, court.Session], clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System()
	}
	return &Service{location: location, sessions: sessions, clock: clk}
}

// Start creates a session on an available court.
func (s *Service) Start(ctx context.Context, spec court.SessionSpec) (*court.Session, error) {
	const op = "start session"
	session, err := s.build(spec)
	if err != nil {
		return nil, court.Invalid(op, err)
	}
	existing, err := s.load(ctx, spec.Court)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, court.Precondition(op, fmt.Errorf("%w: court %d held by %s", court.ErrOccupied, spec.Court, existing.Label))
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session.Clone(), nil
}

// Check validates spec without touching state.
func (s *Service) Check(spec court.SessionSpec) error {
	if _, err := s.build(spec); err != nil {
		return court.Invalid("start session", err)
	}
	return nil
}

func (s *Service) build(spec court.SessionSpec) (*court.Session, error) {
	if !s.location.HasCourt(spec.Court) {
		return nil, fmt.Errorf("%w: %d", court.ErrUnknownCourt, spec.Court)
	}
	if err := court.CheckOccupants(spec.Occupants); err != nil {
		return nil, err
	}
	label, err := court.NormalizeLabel(spec.Label)
	if err != nil {
		return nil, err
	}
	duration := s.location.Durations.Default(spec.Occupants)
	if spec.Duration != nil {
		duration = *spec.Duration
		if err := s.location.Durations.Check(spec.Occupants, duration); err != nil {
			return nil, err
		}
	}
	startedAt := s.clock.Now()
	if spec.StartedAt != nil {
		startedAt = *spec.StartedAt
	}
	return &court.Session{
		ID:        idgen.New(),
		Court:     spec.Court,
		StartedAt: startedAt,
		Duration:  duration,
		Occupants: spec.Occupants,
		Label:     label,
	}, nil
}

// Edit replaces duration, occupants and label of the session on courtNo. The
// start time, court and id never change. Changing occupants without a
// duration resets the duration to the new occupant default.
func (s *Service) Edit(ctx context.Context, courtNo int, edit court.SessionEdit) (*court.Session, error) {
	const op = "edit session"
	session, err := s.load(ctx, courtNo)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, court.NotFound(op, fmt.Errorf("%w: court %d", court.ErrSessionNotFound, courtNo))
	}
	updated := session.Clone()
	if edit.Occupants != nil && *edit.Occupants != session.Occupants {
		if err := court.CheckOccupants(*edit.Occupants); err != nil {
			return nil, court.Invalid(op, err)
		}
		updated.Occupants = *edit.Occupants
		updated.Duration = s.location.Durations.Default(updated.Occupants)
	}
	if edit.Duration != nil {
		if err := s.location.Durations.Check(updated.Occupants, *edit.Duration); err != nil {
			return nil, court.Invalid(op, err)
		}
		updated.Duration = *edit.Duration
	}
	if edit.Label != nil {
		label, err := court.NormalizeLabel(*edit.Label)
		if err != nil {
			return nil, court.Invalid(op, err)
		}
		updated.Label = label
	}
	if err := s.sessions.Save(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return updated.Clone(), nil
}

// End removes the session on courtNo and returns it. Ending a free court is a
// NotFound no-op.
func (s *Service) End(ctx context.Context, courtNo int) (*court.Session, error) {
	const op = "end session"
	session, err := s.load(ctx, courtNo)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, court.NotFound(op, fmt.Errorf("%w: court %d", court.ErrSessionNotFound, courtNo))
	}
	if err := s.sessions.Delete(ctx, courtNo); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, court.NotFound(op, fmt.Errorf("%w: court %d", court.ErrSessionNotFound, courtNo))
		}
		return nil, fmt.Errorf("failed to delete session: %w", err)
	}
	return session, nil
}

// Get returns the session on courtNo, or nil when the court is free.
func (s *Service) Get(ctx context.Context, courtNo int) (*court.Session, error) {
	return s.load(ctx, courtNo)
}

// List returns every session ordered by court.
func (s *Service) List(ctx context.Context) ([]*court.Session, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Court < sessions[j].Court })
	return sessions, nil
}

// Clear removes every session.
func (s *Service) Clear(ctx context.Context) error {
	return dao.Clear[int, court.Session](ctx, s.sessions, Key)
}

func (s *Service) load(ctx context.Context, courtNo int) (*court.Session, error) {
	session, err := s.sessions.Load(ctx, courtNo)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session for court %d: %w", courtNo, err)
	}
	return session, nil
}
