package eventsourcing

import "time"

// Events is an alias type for a slice of Event.
type Events = []Event

// Event is an immutable fact that happened to one aggregate.
//
// Events are ordered per aggregate by append sequence and carry everything
// needed to fold them into aggregate state - state is never derived from
// anything but events.
type Event interface {
	// AggregateID returns the identity of the aggregate this event belongs to.
	AggregateID() string

	// EventType returns the string identifier for this event type.
	EventType() string

	// HasOccurredAt returns when this event occurred.
	HasOccurredAt() time.Time
}
