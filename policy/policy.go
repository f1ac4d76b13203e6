package policy

import (
	"fmt"
	"strings"
	"time"
)

// Assignment modes.
const (
	ModeAuto  = "auto"  // offer a freed court to the eligible head (default)
	ModeClaim = "claim" // the eligible head claims with an explicit start
)

// Abandon policies.
const (
	AbandonReturn = "return" // the request goes back to its original position (default)
	AbandonDrop   = "drop"   // the request is discarded
)

// DefaultOfferTTL bounds how long a court stays reserved for an unconfirmed
// offer.
const DefaultOfferTTL = 5 * time.Minute

// Policy governs how the queue head gets a court.
//
// A nil *Policy behaves as auto mode, return on abandon, default TTL.
type Policy struct {
	Mode    string
	Abandon string
	// OfferTTL is the time an offer may stay pending; 0 disables expiry.
	OfferTTL time.Duration
}

// Default returns the default policy.
func Default() *Policy {
	return &Policy{Mode: ModeAuto, Abandon: AbandonReturn, OfferTTL: DefaultOfferTTL}
}

// Config represents the declarative, serialisable form of a Policy.
type Config struct {
	Mode     string        `json:"mode,omitempty" yaml:"mode,omitempty" env:"MODE"`
	Abandon  string        `json:"abandon,omitempty" yaml:"abandon,omitempty" env:"ABANDON"`
	OfferTTL time.Duration `json:"offerTTL,omitempty" yaml:"offerTTL,omitempty" env:"OFFER_TTL"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{Mode: p.Mode, Abandon: p.Abandon, OfferTTL: p.OfferTTL}
}

// FromConfig converts a stored Config back to a Policy, filling blanks with
// defaults. A negative TTL disables offer expiry.
func FromConfig(c *Config) *Policy {
	ret := Default()
	if c == nil {
		return ret
	}
	if c.Mode != "" {
		ret.Mode = strings.ToLower(c.Mode)
	}
	if c.Abandon != "" {
		ret.Abandon = strings.ToLower(c.Abandon)
	}
	switch {
	case c.OfferTTL < 0:
		ret.OfferTTL = 0
	case c.OfferTTL > 0:
		ret.OfferTTL = c.OfferTTL
	}
	return ret
}

// Validate checks mode and abandon values.
func (p *Policy) Validate() error {
	if p == nil {
		return nil
	}
	switch p.Mode {
	case ModeAuto, ModeClaim:
	default:
		return fmt.Errorf("unsupported assignment mode: %q", p.Mode)
	}
	switch p.Abandon {
	case AbandonReturn, AbandonDrop:
	default:
		return fmt.Errorf("unsupported abandon policy: %q", p.Abandon)
	}
	if p.OfferTTL < 0 {
		return fmt.Errorf("offer ttl must be >= 0")
	}
	return nil
}

// Offers reports whether freed courts are offered automatically.
func (p *Policy) Offers() bool {
	return p == nil || p.Mode != ModeClaim
}

// ReturnsAbandoned reports whether an abandoned request is put back in line.
func (p *Policy) ReturnsAbandoned() bool {
	return p == nil || p.Abandon != AbandonDrop
}

// OfferDeadline returns the expiry of an offer made at now, or nil.
func (p *Policy) OfferDeadline(now time.Time) *time.Time {
	ttl := DefaultOfferTTL
	if p != nil {
		ttl = p.OfferTTL
	}
	if ttl <= 0 {
		return nil
	}
	at := now.Add(ttl)
	return &at
}
