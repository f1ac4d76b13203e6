package court

import "errors"

// Kind discriminates command failures so callers can tell "nothing happened"
// apart from "state changed".
type Kind int

const (
	KindUnknown Kind = iota
	// KindPrecondition: the command conflicts with current state (occupied
	// court, caller not eligible). Surfaced to the operator, never retried.
	KindPrecondition
	// KindNotFound: the target no longer exists; the caller's view is stale.
	KindNotFound
	// KindValidation: the input is out of range; nothing was mutated.
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition violation"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	}
	return "unknown"
}

var (
	ErrOccupied        = errors.New("court is occupied")
	ErrCourtReserved   = errors.New("court is reserved for the queue head")
	ErrNotEligible     = errors.New("request is not the eligible queue head")
	ErrNoFreeCourt     = errors.New("no free court")
	ErrSessionNotFound = errors.New("session not found")
	ErrEntryNotFound   = errors.New("queue entry not found")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidOccupant = errors.New("occupants must be 2 or 4")
	ErrEmptyLabel      = errors.New("label is empty")
	ErrUnknownCourt    = errors.New("unknown court")
	ErrNotExpired      = errors.New("session has time remaining")
)

// Error is the typed failure returned by every command.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Precondition wraps err as a precondition violation raised by op.
func Precondition(op string, err error) error {
	return &Error{Kind: KindPrecondition, Op: op, Err: err}
}

// NotFound wraps err as a not-found failure raised by op.
func NotFound(op string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Err: err}
}

// Invalid wraps err as a validation failure raised by op.
func Invalid(op string, err error) error {
	return &Error{Kind: KindValidation, Op: op, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
