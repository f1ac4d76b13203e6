package memory

import (
	"github.com/viant/courtside/internal/clock"
	approval "github.com/viant/courtside/service/approval"
	"github.com/viant/courtside/service/dao"
)

type Option func(*service)

// WithStores replaces the in-memory offer and decision stores, e.g. with
// durable ones.
func WithStores(offers dao.Service[string, approval.Offer], decisions dao.Service[string, approval.Decision]) Option {
	return func(s *service) {
		s.offerDAO = offers
		s.decDAO = decisions
	}
}

// WithClock sets the clock used to stamp decisions.
func WithClock(clk clock.Clock) Option {
	return func(s *service) { s.clock = clk }
}
