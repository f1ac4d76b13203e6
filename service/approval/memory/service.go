package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/internal/idgen"
	"github.com/viant/courtside/model/court"
	approval "github.com/viant/courtside/service/approval"
	"github.com/viant/courtside/service/dao"
	"github.com/viant/courtside/service/dao/store"
)

type service struct {
	offerDAO dao.Service[string, approval.Offer]
	decDAO   dao.Service[string, approval.Decision]
	clock    clock.Clock
}

// OfferKey selects the offer id.
func OfferKey(o *approval.Offer) string { return o.ID }

// DecisionKey selects the decision id.
func DecisionKey(d *approval.Decision) string { return d.ID }

// New creates an offer service backed by in-memory stores unless WithStores
// supplies durable ones.
func New(options ...Option) approval.Service {
	ret := &service{
		offerDAO: store.NewMemoryStore[string, approval.Offer](OfferKey),
		decDAO:   store.NewMemoryStore[string, approval.Decision](DecisionKey),
		clock:    clock.System(),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) Offer(ctx context.Context, o *approval.Offer) error {
	if o == nil {
		return errors.New("invalid offer")
	}
	if o.ID == "" {
		o.ID = idgen.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.clock.Now()
	}
	if err := s.offerDAO.Save(ctx, o); err != nil {
		return fmt.Errorf("failed to save offer: %w", err)
	}
	return nil
}

func (s *service) Pending(ctx context.Context) ([]*approval.Offer, error) {
	all, err := s.offerDAO.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*approval.Offer, 0, len(all))
	for _, o := range all {
		decided, err := s.decided(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		if !decided {
			pending = append(pending, o)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].Court < pending[j].Court
	})
	return pending, nil
}

func (s *service) Get(ctx context.Context, id string) (*approval.Offer, error) {
	o, err := s.offerDAO.Load(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	decided, err := s.decided(ctx, id)
	if err != nil || decided {
		return nil, err
	}
	return o, nil
}

func (s *service) Decide(ctx context.Context, id string, confirmed bool, reason string) (*approval.Decision, error) {
	const op = "decide offer"
	if id == "" {
		return nil, court.Invalid(op, errors.New("empty offer id"))
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, court.NotFound(op, fmt.Errorf("%w: %s", court.ErrOfferNotFound, id))
	}
	d := &approval.Decision{
		ID:        id,
		Confirmed: confirmed,
		Reason:    reason,
		DecidedAt: s.clock.Now(),
	}
	if err := s.decDAO.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save decision: %w", err)
	}
	return d, nil
}

func (s *service) Clear(ctx context.Context) error {
	if err := dao.Clear[string, approval.Offer](ctx, s.offerDAO, OfferKey); err != nil {
		return err
	}
	return dao.Clear[string, approval.Decision](ctx, s.decDAO, DecisionKey)
}

func (s *service) decided(ctx context.Context, id string) (bool, error) {
	_, err := s.decDAO.Load(ctx, id)
	if errors.Is(err, dao.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

var _ approval.Service = (*service)(nil)
