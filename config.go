package courtside

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/viant/afs"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/policy"
	"github.com/viant/courtside/service/meta"
	"github.com/viant/courtside/service/scheduler"
)

// EnvPrefix prefixes every environment override, e.g. COURTSIDE_STORE_KIND.
const EnvPrefix = "COURTSIDE_"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from YAML or JSON and overridden from the environment.
type Config struct {
	Store     StoreConfig      `json:"store" yaml:"store" envPrefix:"STORE_"`
	Scheduler scheduler.Config `json:"scheduler" yaml:"scheduler" envPrefix:"SCHEDULER_"`
	Tracing   TracingConfig    `json:"tracing" yaml:"tracing" envPrefix:"TRACING_"`
	// Defaults fill blank fields of every location.
	Defaults  LocationConfig    `json:"defaults" yaml:"defaults" envPrefix:"DEFAULTS_"`
	Locations []*LocationConfig `json:"locations" yaml:"locations" env:"-"`
}

// StoreConfig selects where sessions, queue entries and offers live.
type StoreConfig struct {
	Kind string `json:"kind" yaml:"kind" env:"KIND"`
	// URL is an afs base URL for the fs store or a file path for sqlite.
	URL string `json:"url,omitempty" yaml:"url,omitempty" env:"URL"`
}

// TracingConfig enables the stdout span exporter.
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled" env:"ENABLED"`
	Output      string `json:"output,omitempty" yaml:"output,omitempty" env:"OUTPUT"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty" env:"SERVICE_NAME"`
}

// LocationConfig defines one location.
type LocationConfig struct {
	Name             string           `json:"name" yaml:"name" env:"-"`
	Courts           int              `json:"courts" yaml:"courts" env:"COURTS"`
	Model            string           `json:"model" yaml:"model" env:"MODEL"`
	WarningThreshold time.Duration    `json:"warningThreshold,omitempty" yaml:"warningThreshold,omitempty" env:"WARNING_THRESHOLD"`
	Durations        *court.Durations `json:"durations,omitempty" yaml:"durations,omitempty" env:"-"`
	Policy           *policy.Config   `json:"policy,omitempty" yaml:"policy,omitempty" envPrefix:"POLICY_"`
}

// DefaultConfig returns a Config with one in-memory location.
func DefaultConfig() *Config {
	durations := court.DefaultDurations()
	return &Config{
		Store:     StoreConfig{Kind: StoreMemory},
		Scheduler: scheduler.DefaultConfig(),
		Tracing:   TracingConfig{ServiceName: "courtside"},
		Defaults: LocationConfig{
			Courts:           2,
			Model:            string(court.ThreeTier),
			WarningThreshold: court.DefaultWarningThreshold,
			Durations:        &durations,
			Policy:           policy.ToConfig(policy.Default()),
		},
		Locations: []*LocationConfig{{Name: "default"}},
	}
}

// LoadConfig reads a YAML (or JSON) config from any afs URL on top of the
// defaults, then applies COURTSIDE_* environment overrides.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Locations = nil
	if URL != "" {
		if err := meta.New(afs.New(), "").Load(ctx, URL, cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if len(cfg.Locations) == 0 {
		cfg.Locations = DefaultConfig().Locations
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from COURTSIDE_* variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Location returns the named location definition merged with the defaults.
func (c *Config) Location(name string) (*court.Location, *policy.Policy, error) {
	for _, candidate := range c.Locations {
		if candidate != nil && candidate.Name == name {
			return c.resolve(candidate)
		}
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownLocation, name)
}

func (c *Config) resolve(l *LocationConfig) (*court.Location, *policy.Policy, error) {
	ret := &court.Location{
		Name:             l.Name,
		Courts:           l.Courts,
		Model:            court.StatusModel(strings.ToLower(l.Model)),
		WarningThreshold: l.WarningThreshold,
		Durations:        court.DefaultDurations(),
	}
	if ret.Courts == 0 {
		ret.Courts = c.Defaults.Courts
	}
	if ret.Model == "" {
		ret.Model = court.StatusModel(strings.ToLower(c.Defaults.Model))
	}
	if ret.Model == "" {
		ret.Model = court.ThreeTier
	}
	if ret.WarningThreshold == 0 {
		ret.WarningThreshold = c.Defaults.WarningThreshold
	}
	switch {
	case l.Durations != nil:
		ret.Durations = *l.Durations
	case c.Defaults.Durations != nil:
		ret.Durations = *c.Defaults.Durations
	}
	policyConfig := c.Defaults.Policy
	if l.Policy != nil {
		merged := policy.Config{}
		if policyConfig != nil {
			merged = *policyConfig
		}
		if l.Policy.Mode != "" {
			merged.Mode = l.Policy.Mode
		}
		if l.Policy.Abandon != "" {
			merged.Abandon = l.Policy.Abandon
		}
		if l.Policy.OfferTTL != 0 {
			merged.OfferTTL = l.Policy.OfferTTL
		}
		policyConfig = &merged
	}
	p := policy.FromConfig(policyConfig)
	if err := ret.Validate(); err != nil {
		return nil, nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, nil, fmt.Errorf("location %s: %w", l.Name, err)
	}
	return ret, p, nil
}

// Validate returns the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Store.Kind {
	case StoreMemory:
	case StoreFS, StoreSQLite:
		if c.Store.URL == "" {
			return fmt.Errorf("store.url is required for the %s store", c.Store.Kind)
		}
	default:
		return fmt.Errorf("unsupported store kind: %q", c.Store.Kind)
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	seen := map[string]bool{}
	for i, l := range c.Locations {
		if l == nil || strings.TrimSpace(l.Name) == "" {
			return fmt.Errorf("locations[%d]: name is required", i)
		}
		if seen[l.Name] {
			return fmt.Errorf("duplicate location %q", l.Name)
		}
		seen[l.Name] = true
		if _, _, err := c.resolve(l); err != nil {
			return err
		}
	}
	return nil
}
