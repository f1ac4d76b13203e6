package allocator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/viant/courtside/internal/idgen"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/progress"
	"github.com/viant/courtside/service/approval"
	"github.com/viant/courtside/service/event"
	"github.com/viant/courtside/service/fairness"
	"github.com/viant/courtside/tracing"
)

// StartRequest starts a session on Court. With EntryID set, the session is
// started for that queue entry, which must be the eligible head; blank
// Label and zero Occupants are then taken from the entry.
type StartRequest struct {
	Court     int
	Occupants court.Occupants
	Label     string
	Duration  *time.Duration
	StartedAt *time.Time
	EntryID   string
}

// ConfirmRequest settles an offer. Blank fields keep the offered values.
type ConfirmRequest struct {
	Occupants court.Occupants
	Label     string
	Duration  *time.Duration
	StartedAt *time.Time
}

// RequestResult carries either the started session or the queue entry.
type RequestResult struct {
	Session *court.Session
	Entry   *court.QueueEntry
}

// StartSession claims a court directly when nobody waits, or on behalf of
// the eligible queue head.
func (s *Service) StartSession(ctx context.Context, request StartRequest) (session *court.Session, err error) {
	ctx, span := s.span(ctx, "StartSession")
	span.WithInt("court", request.Court)
	defer func() { tracing.EndSpan(span, err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startLocked(ctx, request)
}

func (s *Service) startLocked(ctx context.Context, request StartRequest) (*court.Session, error) {
	const op = "start session"
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	spec := court.SessionSpec{
		Court:     request.Court,
		Occupants: request.Occupants,
		Label:     request.Label,
		Duration:  request.Duration,
		StartedAt: request.StartedAt,
	}
	var entry *court.QueueEntry
	if request.EntryID != "" {
		if entry = st.entry(request.EntryID); entry == nil {
			return nil, court.NotFound(op, fmt.Errorf("%w: %s", court.ErrEntryNotFound, request.EntryID))
		}
		if spec.Label == "" {
			spec.Label = entry.Label
		}
		if spec.Occupants == 0 {
			spec.Occupants = entry.Occupants
		}
	}
	if err := s.sessions.Check(spec); err != nil {
		return nil, err
	}
	if existing := st.sessions[spec.Court]; existing != nil {
		return nil, court.Precondition(op, fmt.Errorf("%w: court %d held by %s", court.ErrOccupied, spec.Court, existing.Label))
	}
	if offer := st.reserved[spec.Court]; offer != nil {
		return nil, court.Precondition(op, fmt.Errorf("%w: court %d offered to %s", court.ErrCourtReserved, spec.Court, offer.SuggestedLabel))
	}
	free := len(st.freeCourts(s.location.Courts))
	if entry == nil {
		if !fairness.CanClaimDirectly(st.entries, free) {
			return nil, court.Precondition(op, fmt.Errorf("%w: %d waiting in line", court.ErrNotEligible, len(st.entries)))
		}
	} else if head := fairness.Head(st.entries, free); head == nil || head.ID != entry.ID {
		return nil, court.Precondition(op, fmt.Errorf("%w: %s", court.ErrNotEligible, entry.Label))
	}

	session, err := s.sessions.Start(ctx, spec)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		if _, err := s.queue.Withdraw(ctx, entry.ID); err != nil {
			s.rollback(ctx, session)
			return nil, err
		}
	}
	s.changed(ctx, event.Changed{Kind: event.SessionStarted, Court: session.Court, SessionID: session.ID, EntryID: request.EntryID, Label: session.Label})
	return session, nil
}

// rollback ends a session whose companion write failed.
func (s *Service) rollback(ctx context.Context, session *court.Session) {
	if _, err := s.sessions.End(ctx, session.Court); err != nil {
		log.Printf("[allocator] %s: failed to roll back session %s on court %d: %v", s.location.Name, session.ID, session.Court, err)
	}
}

// Request serves a walk-up: the lowest free court is claimed when nobody
// waits, otherwise the request joins the queue.
func (s *Service) Request(ctx context.Context, occupants court.Occupants, label string) (result *RequestResult, err error) {
	ctx, span := s.span(ctx, "Request")
	defer func() { tracing.EndSpan(span, err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	free := st.freeCourts(s.location.Courts)
	if fairness.CanClaimDirectly(st.entries, len(free)) {
		session, err := s.startLocked(ctx, StartRequest{Court: free[0], Occupants: occupants, Label: label})
		if err != nil {
			return nil, err
		}
		return &RequestResult{Session: session}, nil
	}
	entry, err := s.joinLocked(ctx, occupants, label)
	if err != nil {
		return nil, err
	}
	return &RequestResult{Entry: entry}, nil
}

// EditSession changes duration, occupants or label of the session on courtNo.
func (s *Service) EditSession(ctx context.Context, courtNo int, edit court.SessionEdit) (session *court.Session, err error) {
	ctx, span := s.span(ctx, "EditSession")
	span.WithInt("court", courtNo)
	defer func() { tracing.EndSpan(span, err) }()
	if err := s.checkCourt("edit session", courtNo); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, err = s.sessions.Edit(ctx, courtNo, edit); err != nil {
		return nil, err
	}
	s.changed(ctx, event.Changed{Kind: event.SessionEdited, Court: courtNo, SessionID: session.ID, Label: session.Label})
	return session, nil
}

// EndSession frees courtNo. Ending a free court returns a NotFound error and
// changes nothing.
func (s *Service) EndSession(ctx context.Context, courtNo int) (session *court.Session, err error) {
	ctx, span := s.span(ctx, "EndSession")
	span.WithInt("court", courtNo)
	defer func() { tracing.EndSpan(span, err) }()
	if err := s.checkCourt("end session", courtNo); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, err = s.sessions.End(ctx, courtNo); err != nil {
		return nil, err
	}
	s.changed(ctx, event.Changed{Kind: event.SessionEnded, Court: courtNo, SessionID: session.ID, Label: session.Label})
	s.allocate(ctx)
	return session, nil
}

// JoinQueue appends a request to the queue.
func (s *Service) JoinQueue(ctx context.Context, occupants court.Occupants, label string) (entry *court.QueueEntry, err error) {
	ctx, span := s.span(ctx, "JoinQueue")
	defer func() { tracing.EndSpan(span, err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joinLocked(ctx, occupants, label)
}

func (s *Service) joinLocked(ctx context.Context, occupants court.Occupants, label string) (*court.QueueEntry, error) {
	entry, err := s.queue.Join(ctx, occupants, label)
	if err != nil {
		return nil, err
	}
	s.changed(ctx, event.Changed{Kind: event.QueueJoined, EntryID: entry.ID, Label: entry.Label})
	s.allocate(ctx)
	return entry, nil
}

// WithdrawFromQueue removes an entry from any position.
func (s *Service) WithdrawFromQueue(ctx context.Context, id string) (entry *court.QueueEntry, err error) {
	ctx, span := s.span(ctx, "WithdrawFromQueue")
	defer func() { tracing.EndSpan(span, err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, err = s.queue.Withdraw(ctx, id); err != nil {
		return nil, err
	}
	s.changed(ctx, event.Changed{Kind: event.QueueLeft, EntryID: entry.ID, Label: entry.Label})
	s.allocate(ctx)
	return entry, nil
}

// ResetAll ends every session, empties the queue and drops pending offers.
// Every part is attempted even when another fails; each part is idempotent,
// so repeating a failed reset completes it. Listeners are told either way.
func (s *Service) ResetAll(ctx context.Context) (err error) {
	ctx, span := s.span(ctx, "ResetAll")
	defer func() { tracing.EndSpan(span, err) }()
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	if err := s.offers.Clear(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to clear offers: %w", err))
	}
	if err := s.queue.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.sessions.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	s.watcher.Reset()
	change := event.Changed{Kind: event.LocationReset}
	if err = errors.Join(errs...); err != nil {
		change.Reason = "incomplete"
	}
	s.changed(ctx, change)
	return err
}

// Confirm turns a pending offer into a session. Invalid details leave the
// offer pending. An offer past its deadline is abandoned instead, as the
// next tick would do.
func (s *Service) Confirm(ctx context.Context, offerID string, request ConfirmRequest) (session *court.Session, err error) {
	ctx, span := s.span(ctx, "Confirm")
	defer func() { tracing.EndSpan(span, err) }()
	const op = "confirm offer"
	s.mu.Lock()
	defer s.mu.Unlock()
	offer, err := s.offers.Get(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer %s: %w", offerID, err)
	}
	if offer == nil {
		return nil, court.NotFound(op, fmt.Errorf("%w: %s", court.ErrOfferNotFound, offerID))
	}
	if offer.Expired(s.clock.Now()) {
		if err = s.abandonLocked(ctx, offer, reasonExpired); err != nil {
			return nil, err
		}
		s.allocate(ctx)
		return nil, court.NotFound(op, fmt.Errorf("%w: %s expired at %s", court.ErrOfferNotFound, offerID, offer.ExpiresAt.Format(time.RFC3339)))
	}
	spec := court.SessionSpec{
		Court:     offer.Court,
		Occupants: offer.Occupants,
		Label:     offer.SuggestedLabel,
		Duration:  request.Duration,
		StartedAt: request.StartedAt,
	}
	if request.Occupants != 0 {
		spec.Occupants = request.Occupants
	}
	if request.Label != "" {
		spec.Label = request.Label
	}
	if session, err = s.sessions.Start(ctx, spec); err != nil {
		return nil, err
	}
	if _, err = s.offers.Decide(ctx, offerID, true, ""); err != nil {
		s.rollback(ctx, session)
		return nil, err
	}
	s.changed(ctx, event.Changed{Kind: event.OfferConfirmed, Court: session.Court, SessionID: session.ID, EntryID: offer.Entry.ID, OfferID: offerID, Label: session.Label})
	return session, nil
}

// Abandon withdraws a pending offer. Depending on the abandon policy the
// request returns to its original place in line or is dropped; the court is
// released either way.
func (s *Service) Abandon(ctx context.Context, offerID string) (offer *approval.Offer, err error) {
	ctx, span := s.span(ctx, "Abandon")
	defer func() { tracing.EndSpan(span, err) }()
	const op = "abandon offer"
	s.mu.Lock()
	defer s.mu.Unlock()
	if offer, err = s.offers.Get(ctx, offerID); err != nil {
		return nil, fmt.Errorf("failed to load offer %s: %w", offerID, err)
	}
	if offer == nil {
		return nil, court.NotFound(op, fmt.Errorf("%w: %s", court.ErrOfferNotFound, offerID))
	}
	if err = s.abandonLocked(ctx, offer, reasonAbandoned); err != nil {
		return nil, err
	}
	s.allocate(ctx)
	return offer, nil
}

// Reasons recorded on abandoned offers.
const (
	reasonAbandoned = "abandoned"
	reasonExpired   = "offer expired"
)

func (s *Service) abandonLocked(ctx context.Context, offer *approval.Offer, reason string) error {
	if _, err := s.offers.Decide(ctx, offer.ID, false, reason); err != nil {
		return err
	}
	if s.policy.ReturnsAbandoned() {
		if err := s.queue.Restore(ctx, &offer.Entry); err != nil {
			return err
		}
	}
	s.changed(ctx, event.Changed{Kind: event.OfferAbandoned, Court: offer.Court, EntryID: offer.Entry.ID, OfferID: offer.ID, Label: offer.SuggestedLabel, Reason: reason})
	return nil
}

// allocate offers free courts to the queue head while both exist. Failures
// are logged; the next tick retries.
func (s *Service) allocate(ctx context.Context) {
	if err := s.allocateLocked(ctx); err != nil {
		log.Printf("[allocator] %s: failed to offer court: %v", s.location.Name, err)
	}
}

func (s *Service) allocateLocked(ctx context.Context) error {
	if !s.policy.Offers() {
		return nil
	}
	st, err := s.load(ctx)
	if err != nil {
		return err
	}
	for {
		free := st.freeCourts(s.location.Courts)
		head := fairness.Head(st.entries, len(free))
		if head == nil {
			return nil
		}
		offer, err := s.offer(ctx, head, free[0], st.now)
		if err != nil {
			return err
		}
		st.dropEntry(head.ID)
		st.reserved[offer.Court] = offer
	}
}

func (s *Service) offer(ctx context.Context, head *court.QueueEntry, courtNo int, now time.Time) (*approval.Offer, error) {
	entry, err := s.queue.Withdraw(ctx, head.ID)
	if err != nil {
		return nil, err
	}
	offer := &approval.Offer{
		ID:             idgen.New(),
		Location:       s.location.Name,
		Court:          courtNo,
		Entry:          *entry,
		SuggestedLabel: entry.Label,
		Occupants:      entry.Occupants,
		CreatedAt:      now,
		ExpiresAt:      s.policy.OfferDeadline(now),
	}
	if err := s.offers.Offer(ctx, offer); err != nil {
		if rErr := s.queue.Restore(ctx, entry); rErr != nil {
			log.Printf("[allocator] %s: failed to restore entry %s: %v", s.location.Name, entry.ID, rErr)
		}
		return nil, err
	}
	s.activity.Update(progress.Delta{Offered: 1})
	publish(ctx, s, "offer", event.Offered{
		Location:  s.location.Name,
		OfferID:   offer.ID,
		Court:     courtNo,
		EntryID:   entry.ID,
		Label:     entry.Label,
		Occupants: entry.Occupants,
	})
	return offer, nil
}
