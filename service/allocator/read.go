package allocator

import (
	"context"
	"time"

	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/progress"
	"github.com/viant/courtside/service/approval"
	"github.com/viant/courtside/service/fairness"
)

// Snapshot is a consistent view of a location at At.
type Snapshot struct {
	Location string              `json:"location"`
	Model    court.StatusModel   `json:"model"`
	At       time.Time           `json:"at"`
	Courts   []court.CourtState  `json:"courts"`
	Queue    []*court.QueueEntry `json:"queue"`
	Offers   []*approval.Offer   `json:"offers,omitempty"`
	// Free counts courts with neither a session nor a pending offer.
	Free int `json:"free"`
	// CanClaimDirectly is true when a walk-up may take a court without
	// queueing.
	CanClaimDirectly bool `json:"canClaimDirectly"`
	// Activity counts what happened since the last reset.
	Activity progress.Counters `json:"activity"`
}

// Court returns the state of court n.
func (s *Service) Court(ctx context.Context, n int) (court.CourtState, error) {
	if err := s.checkCourt("get court", n); err != nil {
		return court.CourtState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load(ctx)
	if err != nil {
		return court.CourtState{}, err
	}
	return s.courtState(st, n), nil
}

// Courts returns the state of every court in number order.
func (s *Service) Courts(ctx context.Context) ([]court.CourtState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.courtStates(st), nil
}

// Queue returns the queue in FIFO order with eligibility and wait estimates.
func (s *Service) Queue(ctx context.Context) ([]*court.QueueEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.queueView(st), nil
}

// Offers returns pending offers, oldest first.
func (s *Service) Offers(ctx context.Context) ([]*approval.Offer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offers.Pending(ctx)
}

// Snapshot returns courts, queue and offers read under one lock.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	free := len(st.freeCourts(s.location.Courts))
	return &Snapshot{
		Location:         s.location.Name,
		Model:            s.location.Model,
		At:               st.now,
		Courts:           s.courtStates(st),
		Queue:            s.queueView(st),
		Offers:           st.offers,
		Free:             free,
		CanClaimDirectly: fairness.CanClaimDirectly(st.entries, free),
		Activity:         s.activity.Snapshot(),
	}, nil
}

func (s *Service) courtStates(st *state) []court.CourtState {
	ret := make([]court.CourtState, 0, s.location.Courts)
	for n := 1; n <= s.location.Courts; n++ {
		ret = append(ret, s.courtState(st, n))
	}
	return ret
}

func (s *Service) courtState(st *state, n int) court.CourtState {
	session := st.sessions[n]
	return court.CourtState{
		Number:   n,
		Session:  session,
		Status:   s.evaluator.Evaluate(session, st.now),
		Reserved: session == nil && st.reserved[n] != nil,
	}
}

func (s *Service) queueView(st *state) []*court.QueueEntry {
	entries := fairness.ComputeEligibility(st.entries, len(st.freeCourts(s.location.Courts)))
	busy := make([]fairness.Occupancy, 0, len(st.sessions)+len(st.reserved))
	for n, session := range st.sessions {
		busy = append(busy, fairness.Occupancy{Court: n, Until: session.EndsAt()})
	}
	for n, offer := range st.reserved {
		if st.sessions[n] != nil {
			continue
		}
		busy = append(busy, fairness.Occupancy{Court: n, Until: st.now.Add(s.location.Durations.Default(offer.Occupants))})
	}
	fairness.Estimate(entries, s.location.Courts, busy, s.location.Durations, st.now)
	return entries
}
