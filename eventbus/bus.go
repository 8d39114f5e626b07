package eventbus

import (
	"context"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

// Handler is code that reacts to a committed domain event.
type Handler interface {
	Handle(ctx context.Context, event eventsourcing.Event) error
}

// HandlerFunc is a convenience type to allow an inline func to act as a Handler.
type HandlerFunc func(ctx context.Context, event eventsourcing.Event) error

func (fn HandlerFunc) Handle(ctx context.Context, event eventsourcing.Event) error {
	return fn(ctx, event)
}

// EventBus distributes committed events to subscribed handlers.
//
// Delivery is at-least-once; ordering is only guaranteed per originating
// aggregate, never globally across aggregates. Deduplication on redelivery is
// the subscriber's responsibility.
type EventBus interface {
	// Publish delivers the events, in order, to all handlers subscribed to
	// each event's type.
	Publish(ctx context.Context, events ...eventsourcing.Event) error

	// Subscribe registers a handler for an event type.
	Subscribe(eventType string, handler Handler)
}
