package court

import "time"

// StatusModel selects the tier set used for a location.
type StatusModel string

const (
	// ThreeTier: available, warning, overtime. Courts are self-serve; an
	// expired session stays on court in overtime.
	ThreeTier StatusModel = "three-tier"
	// TwoTier: available or claimed. Expiry releases the court.
	TwoTier StatusModel = "two-tier"
)

// Valid reports whether m is a known model.
func (m StatusModel) Valid() bool {
	return m == ThreeTier || m == TwoTier
}

// Tier is the display status of a court.
type Tier string

const (
	TierAvailable Tier = "available"
	// TierNormal is an occupied three-tier court with time to spare.
	TierNormal    Tier = "normal"
	TierWarning   Tier = "warning"
	TierOvertime  Tier = "overtime"
	TierClaimed   Tier = "claimed"
)

// DefaultWarningThreshold is the remaining time under which a three-tier
// court shows the warning tier.
const DefaultWarningThreshold = 10 * time.Minute

// Status is the evaluated state of one court at an instant.
type Status struct {
	Tier      Tier          `json:"tier"`
	Occupied  bool          `json:"occupied"`
	Remaining time.Duration `json:"remaining"`
}

// CourtState is the read model of a court: its number, session and status.
type CourtState struct {
	Number  int      `json:"number"`
	Session *Session `json:"session,omitempty"`
	Status  Status   `json:"status"`
	// Reserved is true while the court is offered to the queue head.
	Reserved bool `json:"reserved,omitempty"`
}

// Available reports whether the court can take a new session.
func (c CourtState) Available() bool {
	return c.Session == nil && !c.Reserved
}
