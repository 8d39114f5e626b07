package eventstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ddd-crafters/conference-booking/eventstore"
)

func Test_RetryOnConflict_When_The_First_Attempt_Succeeds(t *testing.T) {
	// setup
	attempts := 0

	// act
	err := eventstore.RetryOnConflict(context.Background(), func(_ context.Context) error {
		attempts++
		return nil
	})

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func Test_RetryOnConflict_When_Conflicts_Resolve_Within_Max_Attempts(t *testing.T) {
	// setup
	attempts := 0

	// act
	err := eventstore.RetryOnConflict(context.Background(), func(_ context.Context) error {
		attempts++
		if attempts < 3 {
			return eventstore.ErrConcurrencyConflict
		}
		return nil
	}, eventstore.WithBaseDelay(time.Millisecond))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func Test_RetryOnConflict_When_Conflicts_Exceed_Max_Attempts(t *testing.T) {
	// setup
	attempts := 0

	// act
	err := eventstore.RetryOnConflict(context.Background(), func(_ context.Context) error {
		attempts++
		return eventstore.ErrConcurrencyConflict
	}, eventstore.WithMaxAttempts(4), eventstore.WithBaseDelay(time.Millisecond))

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 4, attempts)
}

func Test_RetryOnConflict_Fails_Fast_On_Other_Errors(t *testing.T) {
	// setup
	attempts := 0
	boom := errors.New("boom")

	// act
	err := eventstore.RetryOnConflict(context.Background(), func(_ context.Context) error {
		attempts++
		return boom
	})

	// assert
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func Test_RetryOnConflict_When_The_Context_Is_Canceled_Between_Attempts(t *testing.T) {
	// setup
	ctx, cancel := context.WithCancel(context.Background())

	// act
	err := eventstore.RetryOnConflict(ctx, func(_ context.Context) error {
		cancel()
		return eventstore.ErrConcurrencyConflict
	}, eventstore.WithBaseDelay(time.Millisecond))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
}

func Test_RetryOnConflict_When_An_Option_Is_Invalid(t *testing.T) {
	err := eventstore.RetryOnConflict(context.Background(), func(_ context.Context) error {
		return nil
	}, eventstore.WithMaxAttempts(0))

	assert.ErrorIs(t, err, eventstore.ErrInvalidMaxAttempts)
}
