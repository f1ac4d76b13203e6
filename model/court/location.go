package court

import (
	"fmt"
	"strings"
	"time"
)

// Bounds holds the default and the permitted range of a session duration.
type Bounds struct {
	Default time.Duration `json:"default" yaml:"default"`
	Min     time.Duration `json:"min" yaml:"min"`
	Max     time.Duration `json:"max" yaml:"max"`
}

// Contains reports whether d is within [Min, Max].
func (b Bounds) Contains(d time.Duration) bool {
	return d >= b.Min && d <= b.Max
}

// Durations holds the duration bounds per occupant count.
type Durations struct {
	Singles Bounds `json:"singles" yaml:"singles"`
	Doubles Bounds `json:"doubles" yaml:"doubles"`
}

// DefaultDurations returns 60 minutes for singles, 120 for doubles, both
// overridable down to 5 minutes and up to their default.
func DefaultDurations() Durations {
	return Durations{
		Singles: Bounds{Default: 60 * time.Minute, Min: 5 * time.Minute, Max: 60 * time.Minute},
		Doubles: Bounds{Default: 120 * time.Minute, Min: 5 * time.Minute, Max: 120 * time.Minute},
	}
}

// For returns the bounds for the occupant count.
func (d Durations) For(o Occupants) Bounds {
	if o == Doubles {
		return d.Doubles
	}
	return d.Singles
}

// Default returns the default duration for the occupant count.
func (d Durations) Default(o Occupants) time.Duration {
	return d.For(o).Default
}

// Check returns a validation error when dur is outside the bounds for o.
func (d Durations) Check(o Occupants, dur time.Duration) error {
	b := d.For(o)
	if !b.Contains(dur) {
		return fmt.Errorf("%w: %v not in [%v, %v] for %v", ErrInvalidDuration, dur, b.Min, b.Max, o)
	}
	return nil
}

// Validate checks that both bound sets are coherent.
func (d Durations) Validate() error {
	for name, b := range map[string]Bounds{"singles": d.Singles, "doubles": d.Doubles} {
		if b.Min <= 0 {
			return fmt.Errorf("durations.%s.min must be > 0", name)
		}
		if b.Max < b.Min {
			return fmt.Errorf("durations.%s.max must be >= min", name)
		}
		if !b.Contains(b.Default) {
			return fmt.Errorf("durations.%s.default must be within [min, max]", name)
		}
	}
	return nil
}

// Location is a named set of interchangeable courts numbered 1..Courts.
type Location struct {
	Name             string
	Courts           int
	Model            StatusModel
	WarningThreshold time.Duration
	Durations        Durations
}

// HasCourt reports whether n is a court of this location.
func (l *Location) HasCourt(n int) bool {
	return n >= 1 && n <= l.Courts
}

// Validate checks the location definition.
func (l *Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("location name is empty")
	}
	if l.Courts <= 0 {
		return fmt.Errorf("location %s: courts must be > 0", l.Name)
	}
	if !l.Model.Valid() {
		return fmt.Errorf("location %s: unsupported status model %q", l.Name, l.Model)
	}
	if l.WarningThreshold < 0 {
		return fmt.Errorf("location %s: warning threshold must be >= 0", l.Name)
	}
	return l.Durations.Validate()
}
