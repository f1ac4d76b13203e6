package event

import (
	"context"
	"sync/atomic"

	"github.com/viant/courtside/internal/clock"
	"github.com/viant/courtside/service/messaging"
)

// Publisher writes events of one type. Events are only queued while a
// listener is attached, so an unobserved publisher never fills its queue.
type Publisher[T any] struct {
	queue        messaging.Queue[Event[T]]
	anyQueue     messaging.Queue[Event[any]]
	listening    atomic.Bool
	anyListening *atomic.Bool
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = clock.Now()
	}
	if p.anyQueue != nil && p.anyListening != nil && p.anyListening.Load() {
		if err := p.anyQueue.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}); err != nil {
			return err
		}
	}
	if !p.listening.Load() {
		return nil
	}
	return p.queue.Publish(ctx, event)
}

func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
