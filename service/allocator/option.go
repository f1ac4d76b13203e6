package allocator

import (
	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/policy"
	"github.com/viant/courtside/service/approval"
	"github.com/viant/courtside/service/event"
)

// Option customises a Service.
type Option func(s *Service)

// WithClock sets the time source.
func WithClock(clk clock.Clock) Option {
	return func(s *Service) { s.clock = clk }
}

// WithPolicy sets the assignment policy.
func WithPolicy(p *policy.Policy) Option {
	return func(s *Service) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithOffers sets the offer store.
func WithOffers(offers approval.Service) Option {
	return func(s *Service) { s.offers = offers }
}

// WithEvents publishes change, expiry and offer events to events.
func WithEvents(events *event.Service) Option {
	return func(s *Service) { s.events = events }
}

// WithExpiryHook registers fn to run with the court number of every expired
// session.
func WithExpiryHook(fn func(court int)) Option {
	return func(s *Service) { s.onExpired = append(s.onExpired, fn) }
}
