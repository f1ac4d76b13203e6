package event

import "github.com/viant/courtside/model/court"

// Expired is published once per session whose remaining time reached zero.
type Expired struct {
	Location  string `json:"location"`
	Court     int    `json:"court"`
	SessionID string `json:"sessionId"`
	Label     string `json:"label"`
	// Released is true when expiry ended the session (two-tier model).
	Released bool `json:"released"`
}

// ChangeKind names the state transition behind a Changed event.
type ChangeKind string

const (
	SessionStarted ChangeKind = "session.started"
	SessionEdited  ChangeKind = "session.edited"
	SessionEnded   ChangeKind = "session.ended"
	QueueJoined    ChangeKind = "queue.joined"
	QueueLeft      ChangeKind = "queue.left"
	OfferConfirmed ChangeKind = "offer.confirmed"
	OfferAbandoned ChangeKind = "offer.abandoned"
	LocationReset  ChangeKind = "location.reset"
)

// Changed is published after every command that mutated a location.
type Changed struct {
	Location  string     `json:"location"`
	Kind      ChangeKind `json:"kind"`
	Court     int        `json:"court,omitempty"`
	SessionID string     `json:"sessionId,omitempty"`
	EntryID   string     `json:"entryId,omitempty"`
	OfferID   string     `json:"offerId,omitempty"`
	Label     string     `json:"label,omitempty"`
	// Reason says why an offer was abandoned or that a reset did not finish.
	Reason string `json:"reason,omitempty"`
}

// Offered is published when a freed court is offered to the queue head.
type Offered struct {
	Location  string          `json:"location"`
	OfferID   string          `json:"offerId"`
	Court     int             `json:"court"`
	EntryID   string          `json:"entryId"`
	Label     string          `json:"label"`
	Occupants court.Occupants `json:"occupants"`
}
