package approval

import (
	"context"
	"time"
)

// PendingFilter narrows ListPending results.
type PendingFilter func(o *Offer) bool

// ExpiredAt keeps offers whose deadline passed at now.
func ExpiredAt(now time.Time) PendingFilter {
	return func(o *Offer) bool { return o.Expired(now) }
}

// ListPending returns pending offers matching every filter.
func ListPending(ctx context.Context, svc Service, filters ...PendingFilter) ([]*Offer, error) {
	pending, err := svc.Pending(ctx)
	if err != nil {
		return nil, err
	}
	ret := make([]*Offer, 0, len(pending))
outer:
	for _, o := range pending {
		for _, f := range filters {
			if !f(o) {
				continue outer
			}
		}
		ret = append(ret, o)
	}
	return ret, nil
}

// ReservedCourts returns the courts held by pending offers.
func ReservedCourts(offers []*Offer) map[int]*Offer {
	ret := make(map[int]*Offer, len(offers))
	for _, o := range offers {
		ret[o.Court] = o
	}
	return ret
}
