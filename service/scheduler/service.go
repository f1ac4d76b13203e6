// Package scheduler drives periodic re-evaluation of a location: it calls the
// coordinator's Tick on a fixed interval and, when configured, resets the
// location once a day at a wall-clock boundary.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/viant/courtside/internal/clock"
)

// Target is what the scheduler drives.
type Target interface {
	Tick(ctx context.Context) error
	ResetAll(ctx context.Context) error
}

// Config represents scheduler configuration
type Config struct {
	// Interval between ticks.
	Interval time.Duration `json:"interval,omitempty" yaml:"interval,omitempty" env:"INTERVAL"`
	// ResetAt is an optional daily reset time, "HH:MM" in the clock's zone.
	ResetAt string `json:"resetAt,omitempty" yaml:"resetAt,omitempty" env:"RESET_AT"`
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{Interval: time.Second}
}

// Validate checks the interval and the reset time.
func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("scheduler interval must be > 0")
	}
	if c.ResetAt != "" {
		if _, _, err := parseClock(c.ResetAt); err != nil {
			return err
		}
	}
	return nil
}

func parseClock(value string) (int, int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid reset time %q, expected HH:MM: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Service ticks a Target until shut down.
type Service struct {
	name       string
	config     Config
	target     Target
	clock      clock.Clock
	resetHour  int
	resetMin   int
	reset      bool
	lastRun    time.Time
	mu         sync.Mutex
	shutdownCh chan struct{}
	once       sync.Once
}

// New creates a scheduler for target; name labels log lines.
func New(name string, target Target, config Config, clk clock.Clock) (*Service, error) {
	if config.Interval == 0 {
		config.Interval = DefaultConfig().Interval
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.System()
	}
	ret := &Service{
		name:       name,
		config:     config,
		target:     target,
		clock:      clk,
		shutdownCh: make(chan struct{}),
	}
	if config.ResetAt != "" {
		ret.reset = true
		ret.resetHour, ret.resetMin, _ = parseClock(config.ResetAt)
	}
	return ret, nil
}

// Start runs the tick loop until ctx is done or Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				log.Printf("[scheduler] %s: %v", s.name, err)
			}
		}
	}
}

// Shutdown stops the loop; it is safe to call more than once.
func (s *Service) Shutdown() {
	s.once.Do(func() { close(s.shutdownCh) })
}

// RunOnce performs a single iteration: the daily reset when its boundary was
// crossed since the previous run, then a tick.
func (s *Service) RunOnce(ctx context.Context) error {
	if s.dueReset(s.clock.Now()) {
		if err := s.target.ResetAll(ctx); err != nil {
			return fmt.Errorf("daily reset failed: %w", err)
		}
		log.Printf("[scheduler] %s: daily reset at %s", s.name, s.config.ResetAt)
	}
	return s.target.Tick(ctx)
}

// dueReset reports whether the most recent reset boundary lies after the
// previous run. The first run only records its time, so starting the
// scheduler never resets by itself.
func (s *Service) dueReset(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.lastRun
	s.lastRun = now
	if !s.reset || previous.IsZero() {
		return false
	}
	y, m, d := now.Date()
	boundary := time.Date(y, m, d, s.resetHour, s.resetMin, 0, 0, now.Location())
	if boundary.After(now) {
		boundary = boundary.AddDate(0, 0, -1)
	}
	return previous.Before(boundary)
}
