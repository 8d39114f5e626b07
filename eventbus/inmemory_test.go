package eventbus_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddd-crafters/conference-booking/eventbus"
	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

type testEvent struct {
	ID   string
	Type string
}

func (e testEvent) AggregateID() string      { return e.ID }
func (e testEvent) EventType() string        { return e.Type }
func (e testEvent) HasOccurredAt() time.Time { return time.Time{} }

func Test_Publish_Delivers_To_All_Subscribers_Of_The_Type(t *testing.T) {
	// setup
	bus := eventbus.NewInMemoryEventBus()

	var mu sync.Mutex
	received := make([]string, 0)
	record := func(name string) eventbus.Handler {
		return eventbus.HandlerFunc(func(_ context.Context, event eventsourcing.Event) error {
			mu.Lock()
			defer mu.Unlock()
			received = append(received, name+":"+event.EventType())
			return nil
		})
	}

	bus.Subscribe("SomethingHappened", record("first"))
	bus.Subscribe("SomethingHappened", record("second"))
	bus.Subscribe("SomethingElseHappened", record("third"))

	// act
	err := bus.Publish(context.Background(), testEvent{ID: "a-1", Type: "SomethingHappened"})

	// assert
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first:SomethingHappened", "second:SomethingHappened"}, received)
}

func Test_Publish_When_No_Handler_Is_Subscribed(t *testing.T) {
	bus := eventbus.NewInMemoryEventBus()

	err := bus.Publish(context.Background(), testEvent{ID: "a-1", Type: "SomethingHappened"})

	assert.NoError(t, err)
}

func Test_Publish_Delivers_Events_In_Order(t *testing.T) {
	// setup
	bus := eventbus.NewInMemoryEventBus()

	var mu sync.Mutex
	received := make([]string, 0)
	bus.Subscribe("First", eventbus.HandlerFunc(func(_ context.Context, event eventsourcing.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event.EventType())
		return nil
	}))
	bus.Subscribe("Second", eventbus.HandlerFunc(func(_ context.Context, event eventsourcing.Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event.EventType())
		return nil
	}))

	// act
	err := bus.Publish(context.Background(),
		testEvent{ID: "a-1", Type: "First"},
		testEvent{ID: "a-1", Type: "Second"},
	)

	// assert: handlers of the first event completed before the second was delivered
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, received)
}

func Test_Publish_Returns_The_Handler_Error(t *testing.T) {
	// setup
	bus := eventbus.NewInMemoryEventBus()
	handlerErr := errors.New("handler failed")
	bus.Subscribe("SomethingHappened", eventbus.HandlerFunc(func(_ context.Context, _ eventsourcing.Event) error {
		return handlerErr
	}))

	// act
	err := bus.Publish(context.Background(), testEvent{ID: "a-1", Type: "SomethingHappened"})

	// assert
	assert.ErrorIs(t, err, handlerErr)
}

func Test_Handler_Can_Publish_While_Handling(t *testing.T) {
	// setup: the first handler publishes a follow-up event, as saga reactions do
	bus := eventbus.NewInMemoryEventBus()

	var mu sync.Mutex
	var followUpSeen bool
	bus.Subscribe("Trigger", eventbus.HandlerFunc(func(ctx context.Context, _ eventsourcing.Event) error {
		return bus.Publish(ctx, testEvent{ID: "a-1", Type: "FollowUp"})
	}))
	bus.Subscribe("FollowUp", eventbus.HandlerFunc(func(_ context.Context, _ eventsourcing.Event) error {
		mu.Lock()
		defer mu.Unlock()
		followUpSeen = true
		return nil
	}))

	// act
	err := bus.Publish(context.Background(), testEvent{ID: "a-1", Type: "Trigger"})

	// assert
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.True(t, followUpSeen)
}
