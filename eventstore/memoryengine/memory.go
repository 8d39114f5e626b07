package memoryengine

import (
	"context"
	"sync"

	"github.com/ddd-crafters/conference-booking/eventstore"
)

// EventStore is an in-memory event store keeping one ordered event stream per
// aggregate identity, with the same optimistic concurrency contract as the
// Postgres engine. Intended for tests and demos.
//
// All operations are safe for concurrent use; the version check and the
// append happen under one lock, so conflicting writers observe the same
// semantics as with the guarded INSERT in Postgres.
type EventStore struct {
	mu      sync.RWMutex
	streams map[string]eventstore.StorableEvents
}

// NewEventStore creates an empty in-memory event store.
func NewEventStore() *EventStore {
	return &EventStore{
		streams: make(map[string]eventstore.StorableEvents),
	}
}

// Append appends the given events to the stream identified by streamID.
// Returns eventstore.ErrConcurrencyConflict when the stored stream version
// does not equal expectedVersion.
func (es *EventStore) Append(
	ctx context.Context,
	streamID string,
	expectedVersion eventstore.StreamVersionUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	if streamID == "" {
		return eventstore.ErrEmptyStreamID
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	currentVersion := eventstore.StreamVersionUint(len(es.streams[streamID]))
	if currentVersion != expectedVersion {
		return eventstore.ErrConcurrencyConflict
	}

	es.streams[streamID] = append(es.streams[streamID], event)
	es.streams[streamID] = append(es.streams[streamID], additionalEvents...)

	return nil
}

// Load returns the full ordered event history for the given stream and its
// current version.
func (es *EventStore) Load(ctx context.Context, streamID string) (
	eventstore.StorableEvents,
	eventstore.StreamVersionUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	if streamID == "" {
		return nil, 0, eventstore.ErrEmptyStreamID
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	stream := es.streams[streamID]
	events := make(eventstore.StorableEvents, len(stream))
	copy(events, stream)

	return events, eventstore.StreamVersionUint(len(stream)), nil
}
