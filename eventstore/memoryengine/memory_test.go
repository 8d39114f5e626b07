package memoryengine_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddd-crafters/conference-booking/eventstore"
	"github.com/ddd-crafters/conference-booking/eventstore/memoryengine"
)

func storableEvent(t *testing.T, streamID string, eventType string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(
		streamID,
		eventType,
		time.Now().UTC(),
		[]byte(`{"value": 1}`),
	)
	require.NoError(t, err)

	return event
}

func Test_Append_And_Load_Preserve_Order_And_Version(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()

	// act
	require.NoError(t, store.Append(ctx, "stream-1", 0, storableEvent(t, "stream-1", "First")))
	require.NoError(t, store.Append(ctx, "stream-1", 1,
		storableEvent(t, "stream-1", "Second"),
		storableEvent(t, "stream-1", "Third"),
	))

	// assert
	events, version, err := store.Load(ctx, "stream-1")
	require.NoError(t, err)
	assert.Equal(t, eventstore.StreamVersionUint(3), version)
	require.Len(t, events, 3)
	assert.Equal(t, "First", events[0].EventType)
	assert.Equal(t, "Second", events[1].EventType)
	assert.Equal(t, "Third", events[2].EventType)
}

func Test_Append_When_Expected_Version_Does_Not_Match(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	require.NoError(t, store.Append(ctx, "stream-1", 0, storableEvent(t, "stream-1", "First")))

	// act: stale writer still expects version 0
	err := store.Append(ctx, "stream-1", 0, storableEvent(t, "stream-1", "Second"))

	// assert: nothing was written
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	events, version, loadErr := store.Load(ctx, "stream-1")
	require.NoError(t, loadErr)
	assert.Equal(t, eventstore.StreamVersionUint(1), version)
	assert.Len(t, events, 1)
}

func Test_Load_When_Stream_Is_Empty(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()

	// act
	events, version, err := store.Load(ctx, "missing")

	// assert
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, eventstore.StreamVersionUint(0), version)
}

func Test_Append_When_Writers_Compete_On_One_Stream(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	const writers = 8

	// act: every writer retries on conflict until its event lands
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
				_, version, loadErr := store.Load(ctx, "stream-1")
				if loadErr != nil {
					return loadErr
				}

				return store.Append(ctx, "stream-1", version, storableEvent(t, "stream-1", "Appended"))
			}, eventstore.WithMaxAttempts(writers*2))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// assert: all writes landed, the stream stayed contiguous
	events, version, err := store.Load(ctx, "stream-1")
	require.NoError(t, err)
	assert.Equal(t, eventstore.StreamVersionUint(writers), version)
	assert.Len(t, events, writers)
}
