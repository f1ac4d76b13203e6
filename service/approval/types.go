package approval

import (
	"time"

	"github.com/viant/courtside/model/court"
)

// Offer reserves Court for the queue entry it was made to. The entry has
// already left the queue; it is restored or dropped if the offer is abandoned.
type Offer struct {
	ID             string           `json:"id" yaml:"id"`
	Location       string           `json:"location" yaml:"location"`
	Court          int              `json:"court" yaml:"court"`
	Entry          court.QueueEntry `json:"entry" yaml:"entry"`
	SuggestedLabel string           `json:"suggestedLabel" yaml:"suggestedLabel"`
	Occupants      court.Occupants  `json:"occupants" yaml:"occupants"`
	CreatedAt      time.Time        `json:"createdAt" yaml:"createdAt"`
	ExpiresAt      *time.Time       `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

// Expired reports whether the offer deadline passed at now.
func (o *Offer) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && !now.Before(*o.ExpiresAt)
}

// Decision settles an offer.
type Decision struct {
	ID        string    `json:"id" yaml:"id"` // same as offer.ID
	Confirmed bool      `json:"confirmed" yaml:"confirmed"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	DecidedAt time.Time `json:"decidedAt" yaml:"decidedAt"`
}
