package allocator

import (
	"context"
	"errors"
	"fmt"

	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/progress"
	"github.com/viant/courtside/service/approval"
	"github.com/viant/courtside/service/event"
	"github.com/viant/courtside/tracing"
)

// Expire handles the expiry of sessionID on courtNo. In the two-tier model
// the court is released; in the three-tier model the session stays on court
// in overtime. A session that was meanwhile replaced or ended yields a
// NotFound error, one that was extended a precondition error. Expiry hooks
// run after the lock is released.
func (s *Service) Expire(ctx context.Context, courtNo int, sessionID string) (err error) {
	ctx, span := s.span(ctx, "Expire")
	span.WithInt("court", courtNo)
	defer func() { tracing.EndSpan(span, err) }()
	if err := s.checkCourt("expire session", courtNo); err != nil {
		return err
	}
	s.mu.Lock()
	err = s.expireLocked(ctx, courtNo, sessionID)
	s.mu.Unlock()
	if err == nil {
		s.fireExpired(courtNo)
	}
	return err
}

func (s *Service) expireLocked(ctx context.Context, courtNo int, sessionID string) error {
	const op = "expire session"
	session, err := s.sessions.Get(ctx, courtNo)
	if err != nil {
		return err
	}
	if session == nil || session.ID != sessionID {
		return court.NotFound(op, fmt.Errorf("%w: %s on court %d", court.ErrSessionNotFound, sessionID, courtNo))
	}
	if remaining := session.Remaining(s.clock.Now()); remaining > 0 {
		return court.Precondition(op, fmt.Errorf("%w: %v", court.ErrNotExpired, remaining))
	}
	released := s.location.Model == court.TwoTier
	if released {
		if _, err := s.sessions.End(ctx, courtNo); err != nil {
			return err
		}
	}
	s.activity.Update(progress.Delta{Expired: 1})
	publish(ctx, s, "expired", event.Expired{
		Location:  s.location.Name,
		Court:     courtNo,
		SessionID: session.ID,
		Label:     session.Label,
		Released:  released,
	})
	if released {
		s.changed(ctx, event.Changed{Kind: event.SessionEnded, Court: courtNo, SessionID: session.ID, Label: session.Label})
		s.allocate(ctx)
	}
	return nil
}

// Tick re-evaluates the location: sessions that crossed zero remaining are
// expired once each, offers past their deadline are abandoned, and free
// courts are offered to the queue. An expiry that fails is retried on the
// next tick.
func (s *Service) Tick(ctx context.Context) error {
	s.mu.Lock()
	now := s.clock.Now()
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	fired := s.watcher.Observe(now, sessions)
	var errs []error
	if err := s.expireOffersLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.allocateLocked(ctx); err != nil {
		errs = append(errs, err)
	}
	s.mu.Unlock()

	for _, session := range fired {
		err := s.Expire(ctx, session.Court, session.ID)
		switch court.KindOf(err) {
		case court.KindNotFound, court.KindPrecondition:
			// replaced, ended or extended since the observation
		default:
			if err != nil {
				s.watcher.Rearm(session.ID)
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Service) expireOffersLocked(ctx context.Context) error {
	expired, err := approval.ListPending(ctx, s.offers, approval.ExpiredAt(s.clock.Now()))
	if err != nil {
		return fmt.Errorf("failed to list offers: %w", err)
	}
	for _, offer := range expired {
		if err := s.abandonLocked(ctx, offer, reasonExpired); err != nil {
			return err
		}
	}
	return nil
}
