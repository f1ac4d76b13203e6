// Package evaluator derives the status of a court from its session and the
// current time, and detects session expiry on the periodic tick.
package evaluator

import (
	"fmt"
	"time"

	"github.com/viant/courtside/model/court"
)

// Evaluator maps (session, now) to a status for one status model.
type Evaluator struct {
	Model   court.StatusModel
	Warning time.Duration
}

// New returns an evaluator for the model; a zero warning threshold falls back
// to court.DefaultWarningThreshold.
func New(model court.StatusModel, warning time.Duration) *Evaluator {
	if warning <= 0 {
		warning = court.DefaultWarningThreshold
	}
	return &Evaluator{Model: model, Warning: warning}
}

// Evaluate returns the tier and remaining time of a court holding session
// (nil when the court is free).
func (e *Evaluator) Evaluate(session *court.Session, now time.Time) court.Status {
	if session == nil {
		return court.Status{Tier: court.TierAvailable}
	}
	remaining := session.Remaining(now)
	ret := court.Status{Occupied: true, Remaining: remaining}
	if e.Model == court.TwoTier {
		ret.Tier = court.TierClaimed
		return ret
	}
	switch {
	case remaining <= 0:
		ret.Tier = court.TierOvertime
	case remaining <= e.Warning:
		ret.Tier = court.TierWarning
	default:
		ret.Tier = court.TierNormal
	}
	return ret
}

// Seconds floors d to whole seconds, rounding negative values away from zero
// so that half a second of overtime already reads as -0:01.
func Seconds(d time.Duration) int {
	s := d / time.Second
	if d < 0 && d%time.Second != 0 {
		s--
	}
	return int(s)
}

// FormatTime renders a signed remaining time given in seconds. Overtime is
// prefixed with '-'. The two-tier model switches to h:mm:ss once the magnitude
// reaches an hour; the three-tier model always renders m:ss.
func FormatTime(seconds int, model court.StatusModel) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	if model == court.TwoTier && seconds >= 3600 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, seconds/3600, seconds%3600/60, seconds%60)
	}
	return fmt.Sprintf("%s%d:%02d", sign, seconds/60, seconds%60)
}

// Format renders the remaining time of a status with the evaluator's model.
func (e *Evaluator) Format(status court.Status) string {
	return FormatTime(Seconds(status.Remaining), e.Model)
}
