package conference

import (
	"context"
	"errors"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
	"github.com/ddd-crafters/conference-booking/eventstore"
)

// Not-found errors for the three aggregate kinds.
var (
	ErrConferenceNotFound     = errors.New("conference not found")
	ErrOrderNotFound          = errors.New("order not found")
	ErrPaymentAccountNotFound = errors.New("payment account not found")
)

// EventStore is the persistence boundary the repositories depend on.
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

// saveAggregate appends an aggregate's pending changes with an optimistic
// concurrency guard and publishes them once committed. Shared by the three
// repositories; the expected stream version is the version the aggregate was
// loaded at.
func saveAggregate(ctx context.Context, store EventStore, publisher EventPublisher, aggregate eventsourcing.Aggregate) error {
	pendingChanges := aggregate.PendingChanges()
	if len(pendingChanges) == 0 {
		return nil
	}

	storableEvents, err := StorableEventsFrom(pendingChanges)
	if err != nil {
		return err
	}

	expectedVersion := eventstore.StreamVersionUint(aggregate.Version() - len(pendingChanges))

	if err = store.Append(ctx, aggregate.AggregateID(), expectedVersion, storableEvents[0], storableEvents[1:]...); err != nil {
		return err
	}

	aggregate.MarkChangesAsCommitted()

	if publisher != nil {
		return publisher.Publish(ctx, pendingChanges...)
	}

	return nil
}

func loadHistory(ctx context.Context, store EventStore, streamID string, notFound error) (eventsourcing.Events, error) {
	storableEvents, _, err := store.Load(ctx, streamID)
	if err != nil {
		return nil, err
	}

	if len(storableEvents) == 0 {
		return nil, notFound
	}

	return DomainEventsFrom(storableEvents)
}

// ConferenceRepository loads and saves Conference aggregates.
type ConferenceRepository struct {
	eventStore EventStore
	publisher  EventPublisher
}

// NewConferenceRepository creates a ConferenceRepository.
func NewConferenceRepository(eventStore EventStore, publisher EventPublisher) *ConferenceRepository {
	return &ConferenceRepository{eventStore: eventStore, publisher: publisher}
}

// Load rebuilds a conference from its event history.
// Returns ErrConferenceNotFound when the stream is empty.
func (r *ConferenceRepository) Load(ctx context.Context, name ConferenceName) (*Conference, error) {
	events, err := loadHistory(ctx, r.eventStore, name.String(), ErrConferenceNotFound)
	if err != nil {
		return nil, err
	}

	conf := NewConference(name)
	if err = eventsourcing.FoldHistoric(conf, events...); err != nil {
		return nil, err
	}

	return conf, nil
}

// Save appends the conference's pending changes and publishes them.
func (r *ConferenceRepository) Save(ctx context.Context, conf *Conference) error {
	return saveAggregate(ctx, r.eventStore, r.publisher, conf)
}

// OrderRepository loads and saves Order aggregates.
type OrderRepository struct {
	eventStore EventStore
	publisher  EventPublisher
}

// NewOrderRepository creates an OrderRepository.
func NewOrderRepository(eventStore EventStore, publisher EventPublisher) *OrderRepository {
	return &OrderRepository{eventStore: eventStore, publisher: publisher}
}

// Load rebuilds an order from its event history.
// Returns ErrOrderNotFound when the stream is empty.
func (r *OrderRepository) Load(ctx context.Context, id OrderID) (*Order, error) {
	events, err := loadHistory(ctx, r.eventStore, id.String(), ErrOrderNotFound)
	if err != nil {
		return nil, err
	}

	order := HydrateOrder(id)
	if err = eventsourcing.FoldHistoric(order, events...); err != nil {
		return nil, err
	}

	return order, nil
}

// Save appends the order's pending changes and publishes them.
func (r *OrderRepository) Save(ctx context.Context, order *Order) error {
	return saveAggregate(ctx, r.eventStore, r.publisher, order)
}

// PaymentAccountRepository loads and saves PaymentAccount aggregates.
type PaymentAccountRepository struct {
	eventStore EventStore
	publisher  EventPublisher
}

// NewPaymentAccountRepository creates a PaymentAccountRepository.
func NewPaymentAccountRepository(eventStore EventStore, publisher EventPublisher) *PaymentAccountRepository {
	return &PaymentAccountRepository{eventStore: eventStore, publisher: publisher}
}

// Load rebuilds a payment account from its event history.
// Returns ErrPaymentAccountNotFound when the stream is empty.
func (r *PaymentAccountRepository) Load(ctx context.Context, id PaymentAccountID) (*PaymentAccount, error) {
	events, err := loadHistory(ctx, r.eventStore, id.String(), ErrPaymentAccountNotFound)
	if err != nil {
		return nil, err
	}

	account := HydratePaymentAccount(id)
	if err = eventsourcing.FoldHistoric(account, events...); err != nil {
		return nil, err
	}

	return account, nil
}

// Save appends the payment account's pending changes and publishes them.
func (r *PaymentAccountRepository) Save(ctx context.Context, account *PaymentAccount) error {
	return saveAggregate(ctx, r.eventStore, r.publisher, account)
}
