package eventsourcing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

type counterIncremented struct {
	CounterID  string
	By         int
	OccurredAt time.Time
}

func (e counterIncremented) AggregateID() string      { return e.CounterID }
func (e counterIncremented) EventType() string        { return "CounterIncremented" }
func (e counterIncremented) HasOccurredAt() time.Time { return e.OccurredAt }

type unknownEvent struct{ counterIncremented }

func (e unknownEvent) EventType() string { return "Unknown" }

type counter struct {
	eventsourcing.Root
	value int
}

func (c *counter) Evolve(event eventsourcing.Event) error {
	switch e := event.(type) {
	case counterIncremented:
		c.value += e.By
		return nil
	default:
		return eventsourcing.ErrUnknownEvent
	}
}

func Test_FoldNew_Applies_Events_And_Buffers_Them(t *testing.T) {
	// setup
	c := &counter{Root: eventsourcing.NewRoot("counter-1")}

	// act
	err := eventsourcing.FoldNew(c,
		counterIncremented{CounterID: "counter-1", By: 2},
		counterIncremented{CounterID: "counter-1", By: 3},
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 5, c.value)
	assert.Equal(t, 2, c.Version())
	assert.Len(t, c.PendingChanges(), 2)
}

func Test_FoldHistoric_Applies_Events_Without_Buffering(t *testing.T) {
	// setup
	c := &counter{Root: eventsourcing.NewRoot("counter-1")}

	// act
	err := eventsourcing.FoldHistoric(c,
		counterIncremented{CounterID: "counter-1", By: 2},
		counterIncremented{CounterID: "counter-1", By: 3},
	)

	// assert: same state and version as the decision path, empty buffer
	require.NoError(t, err)
	assert.Equal(t, 5, c.value)
	assert.Equal(t, 2, c.Version())
	assert.Empty(t, c.PendingChanges())
}

func Test_MarkChangesAsCommitted_Clears_The_Buffer_But_Not_The_Version(t *testing.T) {
	// setup
	c := &counter{Root: eventsourcing.NewRoot("counter-1")}
	require.NoError(t, eventsourcing.FoldNew(c, counterIncremented{CounterID: "counter-1", By: 1}))

	// act
	c.MarkChangesAsCommitted()

	// assert
	assert.Empty(t, c.PendingChanges())
	assert.Equal(t, 1, c.Version())
	assert.Equal(t, 1, c.value)
}

func Test_FoldNew_When_The_Aggregate_Does_Not_Know_The_Event(t *testing.T) {
	// setup
	c := &counter{Root: eventsourcing.NewRoot("counter-1")}

	// act
	err := eventsourcing.FoldNew(c, unknownEvent{})

	// assert: nothing is buffered and the version is untouched
	assert.ErrorIs(t, err, eventsourcing.ErrUnknownEvent)
	assert.Equal(t, 0, c.Version())
	assert.Empty(t, c.PendingChanges())
}
