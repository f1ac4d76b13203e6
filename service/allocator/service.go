package allocator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/policy"
	"github.com/viant/courtside/progress"
	"github.com/viant/courtside/service/approval"
	memApproval "github.com/viant/courtside/service/approval/memory"
	"github.com/viant/courtside/service/dao"
	"github.com/viant/courtside/service/evaluator"
	"github.com/viant/courtside/service/event"
	"github.com/viant/courtside/service/fairness"
	"github.com/viant/courtside/service/lifecycle"
	"github.com/viant/courtside/tracing"
)

// Service coordinates the courts and the queue of one location.
type Service struct {
	mu        sync.Mutex
	location  *court.Location
	policy    *policy.Policy
	clock     clock.Clock
	evaluator *evaluator.Evaluator
	watcher   *evaluator.Watcher
	sessions  *lifecycle.Service
	queue     *fairness.Service
	offers    approval.Service
	events    *event.Service
	activity  *progress.Tracker

	hookMu    sync.RWMutex
	onExpired []func(court int)
}

// New creates a coordinator for location over the supplied session and
// queue stores.
func New(location *court.Location, sessions dao.Service[int, court.Session], entries dao.Service[string, court.QueueEntry], options ...Option) (*Service, error) {
	if location == nil {
		return nil, fmt.Errorf("location was nil")
	}
	if err := location.Validate(); err != nil {
		return nil, err
	}
	loc := *location
	ret := &Service{
		location: &loc,
		policy:   policy.Default(),
		clock:    clock.System(),
		watcher:  evaluator.NewWatcher(),
	}
	for _, option := range options {
		option(ret)
	}
	if err := ret.policy.Validate(); err != nil {
		return nil, fmt.Errorf("location %s: %w", loc.Name, err)
	}
	if ret.offers == nil {
		ret.offers = memApproval.New(memApproval.WithClock(ret.clock))
	}
	ret.evaluator = evaluator.New(loc.Model, loc.WarningThreshold)
	ret.sessions = lifecycle.New(ret.location, sessions, ret.clock)
	ret.queue = fairness.New(entries, ret.clock)
	ret.activity = progress.New(ret.clock.Now())
	return ret, nil
}

// Location returns the location definition.
func (s *Service) Location() court.Location { return *s.location }

// Policy returns the assignment policy.
func (s *Service) Policy() policy.Policy { return *s.policy }

// OnExpired registers fn to run with the court number of every expired
// session. Hooks run outside the location lock.
func (s *Service) OnExpired(fn func(court int)) {
	s.hookMu.Lock()
	s.onExpired = append(s.onExpired, fn)
	s.hookMu.Unlock()
}

func (s *Service) fireExpired(courtNo int) {
	s.hookMu.RLock()
	hooks := append([]func(int){}, s.onExpired...)
	s.hookMu.RUnlock()
	for _, fn := range hooks {
		fn(courtNo)
	}
}

// state is one consistent read of a location, taken under the lock.
type state struct {
	now      time.Time
	sessions map[int]*court.Session
	entries  []*court.QueueEntry
	offers   []*approval.Offer
	reserved map[int]*approval.Offer
}

func (s *Service) load(ctx context.Context) (*state, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.queue.Entries(ctx)
	if err != nil {
		return nil, err
	}
	offers, err := s.offers.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	ret := &state{
		now:      s.clock.Now(),
		sessions: make(map[int]*court.Session, len(sessions)),
		entries:  entries,
		offers:   offers,
		reserved: approval.ReservedCourts(offers),
	}
	for _, session := range sessions {
		ret.sessions[session.Court] = session
	}
	return ret, nil
}

// freeCourts returns courts with neither a session nor a pending offer, in
// ascending order.
func (st *state) freeCourts(courts int) []int {
	var ret []int
	for n := 1; n <= courts; n++ {
		if st.sessions[n] == nil && st.reserved[n] == nil {
			ret = append(ret, n)
		}
	}
	return ret
}

func (st *state) entry(id string) *court.QueueEntry {
	for _, e := range st.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (st *state) dropEntry(id string) {
	for i, e := range st.entries {
		if e.ID == id {
			st.entries = append(st.entries[:i:i], st.entries[i+1:]...)
			return
		}
	}
}

// checkCourt rejects a court number the location does not have. Commands
// addressing an existing session treat such a court like a free one: there
// is nothing to act on, so the error is NotFound.
func (s *Service) checkCourt(op string, n int) error {
	if !s.location.HasCourt(n) {
		return court.NotFound(op, fmt.Errorf("%w: %d", court.ErrUnknownCourt, n))
	}
	return nil
}

func (s *Service) span(ctx context.Context, method string) (context.Context, *tracing.Span) {
	ctx, span := tracing.StartSpan(ctx, "allocator."+method, tracing.KindInternal)
	span.WithAttributes(map[string]string{"location": s.location.Name})
	return ctx, span
}

func publish[T any](ctx context.Context, s *Service, eventType string, data T) {
	if s.events == nil {
		return
	}
	eventContext := &event.Context{Location: s.location.Name, EventType: eventType, Service: "allocator"}
	if err := event.Publish(ctx, s.events, eventContext, data); err != nil {
		log.Printf("[allocator] %s: failed to publish %s: %v", s.location.Name, eventType, err)
	}
}

func (s *Service) changed(ctx context.Context, change event.Changed) {
	change.Location = s.location.Name
	switch change.Kind {
	case event.SessionStarted:
		s.activity.Update(progress.Delta{Started: 1})
	case event.SessionEnded:
		s.activity.Update(progress.Delta{Ended: 1})
	case event.QueueJoined:
		s.activity.Update(progress.Delta{Joined: 1})
	case event.QueueLeft:
		s.activity.Update(progress.Delta{Left: 1})
	case event.OfferConfirmed:
		s.activity.Update(progress.Delta{Started: 1, Confirmed: 1})
	case event.OfferAbandoned:
		s.activity.Update(progress.Delta{Abandoned: 1})
	case event.LocationReset:
		s.activity.Reset(s.clock.Now())
	}
	publish(ctx, s, string(change.Kind), change)
}
