package banking

import (
	"context"
	"errors"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
	"github.com/ddd-crafters/conference-booking/eventstore"
)

// ErrAccountNotFound is returned when loading an account with no event history.
var ErrAccountNotFound = errors.New("account not found")

// EventStore is the persistence boundary the repository depends on.
// Both the Postgres and the in-memory engine satisfy it.
type EventStore interface {
	Append(
		ctx context.Context,
		streamID string,
		expectedVersion eventstore.StreamVersionUint,
		event eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error

	Load(ctx context.Context, streamID string) (eventstore.StorableEvents, eventstore.StreamVersionUint, error)
}

// EventPublisher distributes committed events to interested subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...eventsourcing.Event) error
}

// AccountRepository loads and saves Account aggregates through the event store
// and publishes committed events to the event bus.
type AccountRepository struct {
	eventStore EventStore
	publisher  EventPublisher
}

// NewAccountRepository creates an AccountRepository.
func NewAccountRepository(eventStore EventStore, publisher EventPublisher) *AccountRepository {
	return &AccountRepository{
		eventStore: eventStore,
		publisher:  publisher,
	}
}

// Load rebuilds an account from its event history.
// Returns ErrAccountNotFound when the stream is empty.
func (r *AccountRepository) Load(ctx context.Context, id AccountID) (*Account, error) {
	storableEvents, _, err := r.eventStore.Load(ctx, id.String())
	if err != nil {
		return nil, err
	}

	if len(storableEvents) == 0 {
		return nil, ErrAccountNotFound
	}

	events, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, err
	}

	account := HydrateAccount(id)
	if err = eventsourcing.FoldHistoric(account, events...); err != nil {
		return nil, err
	}

	return account, nil
}

// Save appends the account's pending changes with an optimistic concurrency
// guard and publishes them once committed.
//
// The expected stream version is the aggregate version minus the pending
// changes, i.e. the version the aggregate was loaded at. A concurrent writer
// in between surfaces as eventstore.ErrConcurrencyConflict; callers reload
// and retry.
func (r *AccountRepository) Save(ctx context.Context, account *Account) error {
	pendingChanges := account.PendingChanges()
	if len(pendingChanges) == 0 {
		return nil
	}

	storableEvents, err := StorableEventsFrom(pendingChanges)
	if err != nil {
		return err
	}

	expectedVersion := eventstore.StreamVersionUint(account.Version() - len(pendingChanges))

	if err = r.eventStore.Append(ctx, account.AggregateID(), expectedVersion, storableEvents[0], storableEvents[1:]...); err != nil {
		return err
	}

	account.MarkChangesAsCommitted()

	if r.publisher != nil {
		return r.publisher.Publish(ctx, pendingChanges...)
	}

	return nil
}
