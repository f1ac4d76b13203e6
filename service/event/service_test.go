package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/courtside/service/messaging"
)

type collector[T any] struct {
	mu     sync.Mutex
	events []*Event[T]
}

func (c *collector[T]) handle(e *Event[T]) {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
}

func (c *collector[T]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestService_TypedAndCatchAllListeners(t *testing.T) {
	srv, err := New(messaging.VendorMemory)
	if !assert.NoError(t, err) {
		return
	}
	defer srv.Close()

	expired := &collector[Expired]{}
	all := &collector[any]{}
	assert.NoError(t, SetListenerOf[Expired](srv, expired.handle))
	srv.SetListener(all.handle)

	ctx := context.Background()
	eventContext := &Context{Location: "park", EventType: "expired"}
	assert.NoError(t, Publish(ctx, srv, eventContext, Expired{Location: "park", Court: 2, SessionID: "s1"}))
	assert.NoError(t, Publish(ctx, srv, &Context{Location: "park"}, Changed{Location: "park", Kind: SessionStarted, Court: 1}))

	assert.Eventually(t, func() bool { return expired.len() == 1 && all.len() == 2 }, time.Second, 5*time.Millisecond)
	expired.mu.Lock()
	assert.Equal(t, 2, expired.events[0].Data.Court)
	assert.Equal(t, "park", expired.events[0].Context.Location)
	assert.False(t, expired.events[0].CreatedAt.IsZero())
	expired.mu.Unlock()
}

func TestService_UnobservedPublisherDropsEvents(t *testing.T) {
	srv, err := New(messaging.VendorMemory)
	if !assert.NoError(t, err) {
		return
	}
	defer srv.Close()

	for i := 0; i < 2000; i++ {
		assert.NoError(t, Publish(context.Background(), srv, nil, Changed{Kind: QueueJoined}))
	}
}

func TestService_ReplacedListenerStops(t *testing.T) {
	srv, err := New(messaging.VendorMemory)
	if !assert.NoError(t, err) {
		return
	}
	defer srv.Close()

	first := &collector[Offered]{}
	second := &collector[Offered]{}
	assert.NoError(t, SetListenerOf[Offered](srv, first.handle))
	assert.NoError(t, SetListenerOf[Offered](srv, second.handle))

	assert.NoError(t, Publish(context.Background(), srv, nil, Offered{OfferID: "o1", Court: 1}))
	assert.Eventually(t, func() bool { return second.len() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, first.len())
}

func TestNew_UnsupportedVendor(t *testing.T) {
	_, err := New("kafka")
	assert.Error(t, err)
}
