package eventbus

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

const defaultHandlerLimit = 10

// InMemoryEventBus delivers events synchronously within the publishing call:
// all handlers for one event have completed before the next event is
// delivered, and Publish only returns once every event has been handled.
//
// Handlers for a single event run concurrently in an errgroup; handlers may
// themselves publish further events (saga choreography), which nest within
// the same call.
type InMemoryEventBus struct {
	mu           sync.RWMutex
	subscribers  map[string][]Handler
	handlerLimit int
}

// InMemoryOption configures an InMemoryEventBus.
type InMemoryOption func(*InMemoryEventBus)

// WithHandlerLimit bounds how many handlers run concurrently per event.
func WithHandlerLimit(limit int) InMemoryOption {
	return func(bus *InMemoryEventBus) {
		if limit > 0 {
			bus.handlerLimit = limit
		}
	}
}

// NewInMemoryEventBus creates an event bus with no subscriptions.
func NewInMemoryEventBus(options ...InMemoryOption) *InMemoryEventBus {
	bus := &InMemoryEventBus{
		subscribers:  make(map[string][]Handler),
		handlerLimit: defaultHandlerLimit,
	}

	for _, option := range options {
		option(bus)
	}

	return bus
}

var _ EventBus = (*InMemoryEventBus)(nil)

// Subscribe registers a handler for an event type.
func (bus *InMemoryEventBus) Subscribe(eventType string, handler Handler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.subscribers[eventType] = append(bus.subscribers[eventType], handler)
}

// Publish delivers each event to all handlers subscribed to its type.
// The first handler error aborts the publish and is returned to the caller.
func (bus *InMemoryEventBus) Publish(ctx context.Context, events ...eventsourcing.Event) error {
	for _, event := range events {
		if err := bus.publish(ctx, event); err != nil {
			return err
		}
	}

	return nil
}

func (bus *InMemoryEventBus) publish(ctx context.Context, event eventsourcing.Event) error {
	// Snapshot the subscriber list so handlers can publish without
	// re-entering the lock.
	bus.mu.RLock()
	handlers := make([]Handler, len(bus.subscribers[event.EventType()]))
	copy(handlers, bus.subscribers[event.EventType()])
	bus.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var g errgroup.Group
	g.SetLimit(bus.handlerLimit)

	for _, handler := range handlers {
		g.Go(func() error {
			return handler.Handle(ctx, event)
		})
	}

	return g.Wait()
}
