package event

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/viant/courtside/service/messaging"
	"github.com/viant/courtside/service/messaging/memory"
)

// Service hands out one publisher per event type and attaches listeners to
// them. A catch-all listener set with SetListener sees every event.
type Service struct {
	publisher         *Publisher[any]
	listener          *Listener[any]
	typedPublishers   map[reflect.Type]any
	typedListener     map[reflect.Type]stopper
	mux               *sync.RWMutex
	queueVendor       messaging.Vendor
	memNewQueueConfig func(name string) memory.Config
}

type stopper interface{ Stop() }

// DefaultQueueConfig is a non-blocking memory queue so that publishing never
// stalls a caller holding a location lock.
func DefaultQueueConfig(string) memory.Config {
	cfg := memory.DefaultConfig()
	cfg.NonBlocking = true
	cfg.QueueBuffer = 1024
	return cfg
}

func New(queueVendor messaging.Vendor, opts ...Option) (*Service, error) {
	ret := &Service{
		queueVendor:     queueVendor,
		typedPublishers: make(map[reflect.Type]any),
		typedListener:   make(map[reflect.Type]stopper),
		mux:             &sync.RWMutex{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	switch queueVendor {
	case messaging.VendorMemory:
		if ret.memNewQueueConfig == nil {
			ret.memNewQueueConfig = DefaultQueueConfig
		}
	default:
		return nil, fmt.Errorf("unsupported queue vendor: %s", queueVendor)
	}
	queue, err := QueueOf[Event[any]](ret, "any")
	if err != nil {
		return nil, err
	}
	ret.publisher = NewPublisher[any](queue)
	return ret, nil
}

// SetListener replaces the catch-all listener.
func (s *Service) SetListener(handler func(*Event[any])) {
	s.mux.Lock()
	prev := s.listener
	s.listener = nil
	s.mux.Unlock()
	if prev != nil {
		prev.Stop()
	}
	listener := NewListener[any](s.publisher, handler)
	s.mux.Lock()
	s.listener = listener
	s.mux.Unlock()
	listener.Start()
}

// Close stops every listener.
func (s *Service) Close() {
	s.mux.Lock()
	listeners := make([]stopper, 0, len(s.typedListener)+1)
	for key, l := range s.typedListener {
		listeners = append(listeners, l)
		delete(s.typedListener, key)
	}
	if s.listener != nil {
		listeners = append(listeners, s.listener)
		s.listener = nil
	}
	s.mux.Unlock()
	for _, l := range listeners {
		l.Stop()
	}
}

func QueueOf[T any](s *Service, name string) (messaging.Queue[T], error) {
	switch s.queueVendor {
	case messaging.VendorMemory:
		return memory.NewQueue[T](s.memNewQueueConfig(name)), nil
	}
	return nil, fmt.Errorf("unsupported queue vendor: %s", s.queueVendor)
}

func keyOf[T any]() reflect.Type {
	var t T
	rType := reflect.TypeOf(t)
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	return rType
}

// SetListenerOf replaces the listener for events of type T.
func SetListenerOf[T any](s *Service, handler func(*Event[T])) error {
	key := keyOf[T]()
	s.mux.Lock()
	prev, ok := s.typedListener[key]
	delete(s.typedListener, key)
	s.mux.Unlock()
	if ok {
		prev.Stop()
	}
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	listener := NewListener[T](publisher, handler)
	s.mux.Lock()
	s.typedListener[key] = listener
	s.mux.Unlock()
	listener.Start()
	return nil
}

// PublisherOf returns a publisher for the provided type
func PublisherOf[T any](s *Service) (*Publisher[T], error) {
	key := keyOf[T]()
	s.mux.RLock()
	ret, ok := s.typedPublishers[key]
	s.mux.RUnlock()
	if ok {
		return ret.(*Publisher[T]), nil
	}
	s.mux.Lock()
	defer s.mux.Unlock()
	if ret, ok = s.typedPublishers[key]; ok {
		return ret.(*Publisher[T]), nil
	}
	queue, err := QueueOf[Event[T]](s, key.String())
	if err != nil {
		return nil, err
	}
	publisher := NewPublisher[T](queue)
	publisher.anyQueue = s.publisher.queue
	publisher.anyListening = &s.publisher.listening
	s.typedPublishers[key] = publisher
	return publisher, nil
}

// Publish wraps data in an event and publishes it on the publisher for T.
func Publish[T any](ctx context.Context, s *Service, eventContext *Context, data T) error {
	publisher, err := PublisherOf[T](s)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, NewEvent[T](eventContext, data))
}
