package court

import (
	"strconv"
	"time"
)

// Occupants is the number of players on a court. Only singles and doubles exist.
type Occupants int

const (
	Singles Occupants = 2
	Doubles Occupants = 4
)

// Valid reports whether o is singles or doubles.
func (o Occupants) Valid() bool {
	return o == Singles || o == Doubles
}

func (o Occupants) String() string {
	switch o {
	case Singles:
		return "singles"
	case Doubles:
		return "doubles"
	}
	return strconv.Itoa(int(o))
}

// Session is an active occupancy of one court.
type Session struct {
	ID        string        `json:"id" yaml:"id"`
	Court     int           `json:"court" yaml:"court"`
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Occupants Occupants     `json:"occupants" yaml:"occupants"`
	Label     string        `json:"label" yaml:"label"`
}

// EndsAt returns the moment the session runs out.
func (s *Session) EndsAt() time.Time {
	return s.StartedAt.Add(s.Duration)
}

// Remaining returns (start + duration) - now; negative once overtime.
func (s *Session) Remaining(now time.Time) time.Duration {
	return s.EndsAt().Sub(now)
}

// Clone returns a copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// SessionEdit carries the fields an operator may change on a running session.
// Nil fields are left untouched.
type SessionEdit struct {
	Duration  *time.Duration
	Occupants *Occupants
	Label     *string
}

// SessionSpec describes a session to start. Duration defaults from the
// occupant count; StartedAt defaults to now.
type SessionSpec struct {
	Court     int
	Occupants Occupants
	Label     string
	Duration  *time.Duration
	StartedAt *time.Time
}
