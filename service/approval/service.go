package approval

import "context"

// Service defines the offer store.
type Service interface {
	Offer(ctx context.Context, o *Offer) error
	// Pending returns offers without a decision, oldest first.
	Pending(ctx context.Context) ([]*Offer, error)
	// Get returns a pending offer or nil.
	Get(ctx context.Context, id string) (*Offer, error)
	Decide(ctx context.Context, id string, confirmed bool, reason string) (*Decision, error)
	// Clear drops every offer and decision.
	Clear(ctx context.Context) error
}
