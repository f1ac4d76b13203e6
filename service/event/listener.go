package event

import (
	"context"
	"log"
	"sync"
)

// Listener drains a publisher on its own goroutine until stopped.
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	once      sync.Once
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Stop ends the listener and waits for an in-flight handler to return.
func (l *Listener[T]) Stop() {
	l.once.Do(func() {
		l.publisher.listening.Store(false)
		l.cancel()
	})
	<-l.done
}

func (l *Listener[T]) Start() {
	l.publisher.listening.Store(true)
	go func() {
		defer close(l.done)
		for {
			event, err := l.publisher.Consume(l.ctx)
			if l.ctx.Err() != nil {
				return
			}
			if err != nil {
				log.Printf("[event] error consuming event: %v", err)
				continue
			}
			if event != nil {
				l.handler(event)
			}
		}
	}()
}
