// Package live fans committed fulfillment events out to in-process
// subscribers. The HTTP server's SSE endpoint subscribes per order; dashboard
// clients that fall behind are dropped rather than allowed to block the
// publishing path.
package live

import (
	"context"
	"sync"

	"fulfillment/internal/core/domain/model/fulfillmentevent"
	"fulfillment/internal/core/ports"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber whose
// buffer is full misses the event and must catch up through the events-since
// query.
const subscriberBuffer = 64

// subscription is one listener on an order's event stream. closeOnce guards
// the channel close between cancel and Close.
type subscription struct {
	ch        chan fulfillmentevent.Record
	closeOnce sync.Once
}

func (s *subscription) shut() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// Broadcaster implements EventPublisher with per-order in-process fan-out.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]map[int]*subscription
	nextID      int
	closed      bool
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]map[int]*subscription),
	}
}

// Publish delivers the record to every subscriber of its order without
// blocking. Subscribers with a full buffer are skipped.
func (b *Broadcaster) Publish(_ context.Context, record fulfillmentevent.Record) error {
	if record.OrderID == "" {
		return nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers[record.OrderID] {
		select {
		case sub.ch <- record:
		default:
		}
	}

	return nil
}

// Subscribe registers a listener for one order's events. The returned cancel
// function removes the subscription and closes the channel; it is safe to
// call more than once.
func (b *Broadcaster) Subscribe(orderID string) (<-chan fulfillmentevent.Record, func()) {
	sub := &subscription{ch: make(chan fulfillmentevent.Record, subscriberBuffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.shut()
		return sub.ch, func() {}
	}

	b.nextID++
	id := b.nextID
	if b.subscribers[orderID] == nil {
		b.subscribers[orderID] = make(map[int]*subscription)
	}
	b.subscribers[orderID][id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if subs, ok := b.subscribers[orderID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.subscribers, orderID)
			}
		}
		b.mu.Unlock()
		sub.shut()
	}

	return sub.ch, cancel
}

// Close drops all subscriptions and closes their channels. Subsequent
// publishes are no-ops and subsequent subscriptions get a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for _, subs := range b.subscribers {
		for _, sub := range subs {
			sub.shut()
		}
	}
	b.subscribers = make(map[string]map[int]*subscription)
}

// CompositePublisher forwards each record to several publishers in order,
// returning the first error. The event recorder logs and swallows it, so one
// failing channel never hides the others from the log.
type CompositePublisher struct {
	publishers []ports.EventPublisher
}

// NewCompositePublisher combines the given publishers.
func NewCompositePublisher(publishers ...ports.EventPublisher) *CompositePublisher {
	return &CompositePublisher{publishers: publishers}
}

// Publish forwards the record to every publisher.
func (c *CompositePublisher) Publish(ctx context.Context, record fulfillmentevent.Record) error {
	var firstErr error
	for _, publisher := range c.publishers {
		if err := publisher.Publish(ctx, record); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
