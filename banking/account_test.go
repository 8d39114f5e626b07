package banking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ddd-crafters/conference-booking/banking"
	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

func Test_Account_Lifecycle_When_Opened_Deposited_Withdrawn_And_Closed(t *testing.T) {
	// setup
	account := banking.NewAccount()

	// act
	assert.NoError(t, account.Open("Alice"))
	assert.NoError(t, account.Deposit(500))
	assert.NoError(t, account.Withdraw(300))
	assert.NoError(t, account.Withdraw(200))
	assert.NoError(t, account.Close())

	// assert
	assert.Equal(t, 0, account.Balance())
	assert.Equal(t, banking.StatusClosed, account.Status())
	assert.Equal(t, 5, account.Version())
	assertEventTypes(t, account.PendingChanges(),
		banking.AccountOpenedEventType,
		banking.AccountDepositedEventType,
		banking.AccountWithdrawnEventType,
		banking.AccountWithdrawnEventType,
		banking.AccountClosedEventType,
	)
}

func Test_Account_Withdraw_When_Amount_Exceeds_Balance(t *testing.T) {
	// setup
	account := banking.NewAccount()
	assert.NoError(t, account.Open("Alice"))
	assert.NoError(t, account.Deposit(100))

	// act
	err := account.Withdraw(200)

	// assert
	assert.ErrorIs(t, err, banking.ErrInsufficientFunds)
	assert.Equal(t, 100, account.Balance())
	assert.Equal(t, 2, account.Version())
	assert.Len(t, account.PendingChanges(), 2)
}

func Test_Account_Decisions_When_Status_Is_Invalid(t *testing.T) {
	t.Run("deposit on a new account", func(t *testing.T) {
		account := banking.NewAccount()

		err := account.Deposit(100)

		assert.ErrorIs(t, err, eventsourcing.ErrInvalidStateTransition)
		assert.Equal(t, 0, account.Version())
	})

	t.Run("open an already open account", func(t *testing.T) {
		account := banking.NewAccount()
		assert.NoError(t, account.Open("Alice"))

		err := account.Open("Alice")

		assert.ErrorIs(t, err, eventsourcing.ErrInvalidStateTransition)
		assert.Equal(t, 1, account.Version())
	})

	t.Run("decisions on a closed account", func(t *testing.T) {
		account := banking.NewAccount()
		assert.NoError(t, account.Open("Alice"))
		assert.NoError(t, account.Close())

		assert.ErrorIs(t, account.Deposit(100), eventsourcing.ErrInvalidStateTransition)
		assert.ErrorIs(t, account.Withdraw(100), eventsourcing.ErrInvalidStateTransition)
		assert.ErrorIs(t, account.Close(), eventsourcing.ErrInvalidStateTransition)
		assert.ErrorIs(t, account.RequestTransfer(banking.NewAccountID(), 100), eventsourcing.ErrInvalidStateTransition)
		assert.Equal(t, 2, account.Version())
	})
}

func Test_Account_Replay_When_History_Is_Folded_Twice(t *testing.T) {
	// setup
	original := banking.NewAccount()
	assert.NoError(t, original.Open("Alice"))
	assert.NoError(t, original.Deposit(500))
	assert.NoError(t, original.Withdraw(150))
	history := original.PendingChanges()

	// act
	replayed := banking.HydrateAccount(original.ID())
	assert.NoError(t, eventsourcing.FoldHistoric(replayed, history...))

	// assert
	assert.Equal(t, original.Balance(), replayed.Balance())
	assert.Equal(t, original.Status(), replayed.Status())
	assert.Equal(t, original.Version(), replayed.Version())
	assert.Empty(t, replayed.PendingChanges())
}

func assertEventTypes(t *testing.T, events eventsourcing.Events, expected ...string) {
	t.Helper()

	actual := make([]string, 0, len(events))
	for _, event := range events {
		actual = append(actual, event.EventType())
	}

	assert.Equal(t, expected, actual)
}
