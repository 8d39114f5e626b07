package banking_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddd-crafters/conference-booking/banking"
	"github.com/ddd-crafters/conference-booking/eventbus"
	"github.com/ddd-crafters/conference-booking/eventstore/memoryengine"
)

func Test_Transfer_When_Both_Accounts_Are_Open(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	bus := eventbus.NewInMemoryEventBus()
	accounts := banking.NewAccountRepository(store, bus)
	banking.NewTransferProcessManager(accounts).Register(bus)

	sender := banking.NewAccount()
	require.NoError(t, sender.Open("Alice"))
	require.NoError(t, sender.Deposit(200))
	require.NoError(t, accounts.Save(ctx, sender))

	receiver := banking.NewAccount()
	require.NoError(t, receiver.Open("Bob"))
	require.NoError(t, accounts.Save(ctx, receiver))

	// act
	require.NoError(t, sender.RequestTransfer(receiver.ID(), 50))
	require.NoError(t, accounts.Save(ctx, sender))

	// assert
	senderAfter, err := accounts.Load(ctx, sender.ID())
	require.NoError(t, err)
	assert.Equal(t, 150, senderAfter.Balance())
	assertStreamEventTypes(t, store, sender.ID(),
		banking.AccountOpenedEventType,
		banking.AccountDepositedEventType,
		banking.TransferRequestedEventType,
		banking.FundDebitedEventType,
	)

	receiverAfter, err := accounts.Load(ctx, receiver.ID())
	require.NoError(t, err)
	assert.Equal(t, 50, receiverAfter.Balance())
	assertStreamEventTypes(t, store, receiver.ID(),
		banking.AccountOpenedEventType,
		banking.FundCreditedEventType,
	)
}

func Test_Transfer_When_Receiver_Is_Closed(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	bus := eventbus.NewInMemoryEventBus()
	accounts := banking.NewAccountRepository(store, bus)
	banking.NewTransferProcessManager(accounts).Register(bus)

	sender := banking.NewAccount()
	require.NoError(t, sender.Open("Alice"))
	require.NoError(t, sender.Deposit(200))
	require.NoError(t, accounts.Save(ctx, sender))

	receiver := banking.NewAccount()
	require.NoError(t, receiver.Open("Bob"))
	require.NoError(t, receiver.Close())
	require.NoError(t, accounts.Save(ctx, receiver))

	// act
	require.NoError(t, sender.RequestTransfer(receiver.ID(), 100))
	require.NoError(t, accounts.Save(ctx, sender))

	// assert: no funds moved on either side
	senderAfter, err := accounts.Load(ctx, sender.ID())
	require.NoError(t, err)
	assert.Equal(t, 200, senderAfter.Balance())
	assertStreamEventTypes(t, store, sender.ID(),
		banking.AccountOpenedEventType,
		banking.AccountDepositedEventType,
		banking.TransferRequestedEventType,
		banking.TransferRequestAbortedEventType,
	)

	receiverAfter, err := accounts.Load(ctx, receiver.ID())
	require.NoError(t, err)
	assert.Equal(t, 0, receiverAfter.Balance())
	assert.Equal(t, banking.StatusClosed, receiverAfter.Status())
	assertStreamEventTypes(t, store, receiver.ID(),
		banking.AccountOpenedEventType,
		banking.AccountClosedEventType,
		banking.CreditRequestRefusedEventType,
	)
}

func Test_Transfer_When_Sender_Lacks_Funds(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewEventStore()
	bus := eventbus.NewInMemoryEventBus()
	accounts := banking.NewAccountRepository(store, bus)
	banking.NewTransferProcessManager(accounts).Register(bus)

	sender := banking.NewAccount()
	require.NoError(t, sender.Open("Alice"))
	require.NoError(t, sender.Deposit(30))
	require.NoError(t, accounts.Save(ctx, sender))

	receiver := banking.NewAccount()
	require.NoError(t, receiver.Open("Bob"))
	require.NoError(t, accounts.Save(ctx, receiver))

	// act: the refusal is recorded on the sender, the receiver never hears of it
	require.NoError(t, sender.RequestTransfer(receiver.ID(), 100))
	require.NoError(t, accounts.Save(ctx, sender))

	// assert
	assertStreamEventTypes(t, store, sender.ID(),
		banking.AccountOpenedEventType,
		banking.AccountDepositedEventType,
		banking.TransferRequestRefusedEventType,
	)
	assertStreamEventTypes(t, store, receiver.ID(),
		banking.AccountOpenedEventType,
	)
}

func assertStreamEventTypes(t *testing.T, store *memoryengine.EventStore, id banking.AccountID, expected ...string) {
	t.Helper()

	storableEvents, _, err := store.Load(context.Background(), id.String())
	require.NoError(t, err)

	actual := make([]string, 0, len(storableEvents))
	for _, storableEvent := range storableEvents {
		actual = append(actual, storableEvent.EventType)
	}

	assert.Equal(t, expected, actual)
}
