package courtside

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/model/court"
	"github.com/viant/courtside/service/allocator"
	"github.com/viant/courtside/service/approval"
	memApproval "github.com/viant/courtside/service/approval/memory"
	"github.com/viant/courtside/service/dao"
	fsstore "github.com/viant/courtside/service/dao/fs"
	"github.com/viant/courtside/service/dao/sqlite"
	"github.com/viant/courtside/service/dao/store"
	"github.com/viant/courtside/service/event"
	"github.com/viant/courtside/service/fairness"
	"github.com/viant/courtside/service/lifecycle"
	"github.com/viant/courtside/service/messaging"
	"github.com/viant/courtside/service/scheduler"
)

// ErrUnknownLocation is returned for a location missing from the config.
var ErrUnknownLocation = errors.New("unknown location")

// Service owns one coordinator per configured location.
type Service struct {
	config      *Config
	clock       clock.Clock
	events      *event.Service
	ownEvents   bool
	fs          afs.Service
	expiryHooks []func(location string, court int)

	mu         sync.Mutex
	db         *sqlite.DB
	locations  map[string]*allocator.Service
	schedulers map[string]*scheduler.Service
	closed     bool
}

// New creates a service over the default configuration.
func New(options ...Option) (*Service, error) {
	return NewFromConfig(DefaultConfig(), options...)
}

// NewFromConfig creates a service for cfg. Locations are created lazily.
func NewFromConfig(cfg *Config, options ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ret := &Service{
		config:     cfg,
		clock:      clock.System(),
		locations:  map[string]*allocator.Service{},
		schedulers: map[string]*scheduler.Service{},
	}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	if ret.events == nil {
		events, err := event.New(messaging.VendorMemory)
		if err != nil {
			return nil, err
		}
		ret.events = events
		ret.ownEvents = true
	}
	return ret, nil
}

// Config returns the active configuration.
func (s *Service) Config() *Config { return s.config }

// Events returns the shared event service.
func (s *Service) Events() *event.Service { return s.events }

// Locations lists configured location names in config order.
func (s *Service) Locations() []string {
	var ret []string
	for _, l := range s.config.Locations {
		ret = append(ret, l.Name)
	}
	return ret
}

// Location returns the coordinator for name, creating it on first access.
// Repeated calls return the same instance.
func (s *Service) Location(ctx context.Context, name string) (*allocator.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("service closed")
	}
	if ret, ok := s.locations[name]; ok {
		return ret, nil
	}
	location, p, err := s.config.Location(name)
	if err != nil {
		return nil, err
	}
	stores, err := s.openStores(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", name, err)
	}
	offers := memApproval.New(memApproval.WithClock(s.clock), memApproval.WithStores(stores.offers, stores.decisions))
	ret, err := allocator.New(location, stores.sessions, stores.entries,
		allocator.WithClock(s.clock),
		allocator.WithPolicy(p),
		allocator.WithOffers(offers),
		allocator.WithEvents(s.events),
	)
	if err != nil {
		return nil, err
	}
	for _, hook := range s.expiryHooks {
		ret.OnExpired(func(courtNo int) { hook(name, courtNo) })
	}
	s.locations[name] = ret
	log.Printf("[courtside] location %s ready: %d courts, %s model, %s store", name, location.Courts, location.Model, s.config.Store.Kind)
	return ret, nil
}

type stores struct {
	sessions  dao.Service[int, court.Session]
	entries   dao.Service[string, court.QueueEntry]
	offers    dao.Service[string, approval.Offer]
	decisions dao.Service[string, approval.Decision]
}

func (s *Service) openStores(ctx context.Context, name string) (*stores, error) {
	switch s.config.Store.Kind {
	case StoreFS:
		return s.openFSStores(ctx, name)
	case StoreSQLite:
		if s.db == nil {
			db, err := sqlite.Open(s.config.Store.URL)
			if err != nil {
				return nil, err
			}
			s.db = db
		}
		return &stores{
			sessions:  sqlite.NewStore(s.db, name+"/sessions", lifecycle.Key),
			entries:   sqlite.NewStore(s.db, name+"/queue", fairness.Key),
			offers:    sqlite.NewStore(s.db, name+"/offers", memApproval.OfferKey),
			decisions: sqlite.NewStore(s.db, name+"/decisions", memApproval.DecisionKey),
		}, nil
	default:
		return &stores{
			sessions:  store.NewMemoryStore(lifecycle.Key),
			entries:   store.NewMemoryStore(fairness.Key),
			offers:    store.NewMemoryStore(memApproval.OfferKey),
			decisions: store.NewMemoryStore(memApproval.DecisionKey),
		}, nil
	}
}

func (s *Service) openFSStores(ctx context.Context, name string) (*stores, error) {
	baseURL := s.config.Store.URL
	sessions, err := fsstore.New(ctx, s.fs, fsstore.Namespace(baseURL, name, "sessions"), lifecycle.Key)
	if err != nil {
		return nil, err
	}
	entries, err := fsstore.New(ctx, s.fs, fsstore.Namespace(baseURL, name, "queue"), fairness.Key)
	if err != nil {
		return nil, err
	}
	offers, err := fsstore.New(ctx, s.fs, fsstore.Namespace(baseURL, name, "offers"), memApproval.OfferKey)
	if err != nil {
		return nil, err
	}
	decisions, err := fsstore.New(ctx, s.fs, fsstore.Namespace(baseURL, name, "decisions"), memApproval.DecisionKey)
	if err != nil {
		return nil, err
	}
	return &stores{sessions: sessions, entries: entries, offers: offers, decisions: decisions}, nil
}

// Watch starts the periodic scheduler of a location in the background. It
// runs until ctx is done or the returned stop function is called. Calling
// Watch again while it runs returns a stop for the same scheduler.
func (s *Service) Watch(ctx context.Context, name string) (func(), error) {
	target, err := s.Location(ctx, name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if running, ok := s.schedulers[name]; ok {
		return s.stopper(name, running), nil
	}
	srv, err := scheduler.New(name, target, s.config.Scheduler, s.clock)
	if err != nil {
		return nil, err
	}
	s.schedulers[name] = srv
	stop := s.stopper(name, srv)
	go func() {
		defer stop()
		if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[courtside] scheduler %s stopped: %v", name, err)
		}
	}()
	return stop, nil
}

func (s *Service) stopper(name string, srv *scheduler.Service) func() {
	return func() {
		srv.Shutdown()
		s.mu.Lock()
		if s.schedulers[name] == srv {
			delete(s.schedulers, name)
		}
		s.mu.Unlock()
	}
}

// Close stops every scheduler, the owned event service and the database.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	var names []string
	for name := range s.schedulers {
		names = append(names, name)
	}
	sort.Strings(names)
	running := make([]*scheduler.Service, 0, len(names))
	for _, name := range names {
		running = append(running, s.schedulers[name])
	}
	s.schedulers = map[string]*scheduler.Service{}
	db := s.db
	s.db = nil
	s.mu.Unlock()

	for _, srv := range running {
		srv.Shutdown()
	}
	if s.ownEvents {
		s.events.Close()
	}
	return db.Close()
}
