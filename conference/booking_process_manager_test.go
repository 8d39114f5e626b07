package conference_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddd-crafters/conference-booking/conference"
	"github.com/ddd-crafters/conference-booking/eventbus"
	"github.com/ddd-crafters/conference-booking/eventstore/memoryengine"
)

type bookingFixture struct {
	store       *memoryengine.EventStore
	bus         *eventbus.InMemoryEventBus
	conferences *conference.ConferenceRepository
	orders      *conference.OrderRepository
	accounts    *conference.PaymentAccountRepository
	statistics  *conference.StatisticsUpdater
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	store := memoryengine.NewEventStore()
	bus := eventbus.NewInMemoryEventBus()

	fixture := &bookingFixture{
		store:       store,
		bus:         bus,
		conferences: conference.NewConferenceRepository(store, bus),
		orders:      conference.NewOrderRepository(store, bus),
		accounts:    conference.NewPaymentAccountRepository(store, bus),
	}
	fixture.statistics = conference.NewStatisticsUpdater(fixture.orders)

	conference.NewBookingProcessManager(fixture.conferences, fixture.orders, fixture.accounts).Register(bus)
	fixture.statistics.Register(bus)

	return fixture
}

func (f *bookingFixture) openConference(t *testing.T, name conference.ConferenceName, places int, seatPrice int) {
	t.Helper()

	conf := conference.NewConference(name)
	require.NoError(t, conf.Open(places, seatPrice))
	require.NoError(t, f.conferences.Save(context.Background(), conf))
}

func (f *bookingFixture) fundedAccount(t *testing.T, amount int) conference.PaymentAccountID {
	t.Helper()

	account := conference.NewPaymentAccount()
	require.NoError(t, account.Credit(amount))
	require.NoError(t, f.accounts.Save(context.Background(), account))

	return account.ID()
}

func (f *bookingFixture) placeOrder(t *testing.T, name conference.ConferenceName, accountID conference.PaymentAccountID) conference.OrderID {
	t.Helper()

	order := conference.NewOrder()
	require.NoError(t, order.RequestBooking(name, accountID))
	require.NoError(t, f.orders.Save(context.Background(), order))

	return order.ID()
}

func Test_BookingSaga_When_Seat_And_Funds_Are_Available(t *testing.T) {
	// setup
	ctx := context.Background()
	fixture := newBookingFixture(t)
	fixture.openConference(t, "gopherconf", 1, 100)
	accountID := fixture.fundedAccount(t, 150)

	// act
	orderID := fixture.placeOrder(t, "gopherconf", accountID)

	// assert
	order, err := fixture.orders.Load(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, conference.OrderStatusPaid, order.Status())
	require.NotNil(t, order.Seat())
	assert.Equal(t, conference.Seat(0), *order.Seat())
	assert.NotNil(t, order.PaymentReference())

	conf, err := fixture.conferences.Load(ctx, "gopherconf")
	require.NoError(t, err)
	assert.Equal(t, conference.ConferenceStatusFull, conf.Status())

	account, err := fixture.accounts.Load(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 50, account.Balance())

	stats := fixture.statistics.StatisticsFor("gopherconf")
	assert.Equal(t, 100, stats.Incomes)
	assert.Equal(t, 1, stats.Bookings)
}

func Test_BookingSaga_When_No_Seat_Is_Left(t *testing.T) {
	// setup
	ctx := context.Background()
	fixture := newBookingFixture(t)
	fixture.openConference(t, "gopherconf", 1, 100)
	firstAccount := fixture.fundedAccount(t, 100)
	secondAccount := fixture.fundedAccount(t, 100)
	fixture.placeOrder(t, "gopherconf", firstAccount)

	// act
	orderID := fixture.placeOrder(t, "gopherconf", secondAccount)

	// assert: terminal failure, nothing was charged
	order, err := fixture.orders.Load(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, conference.OrderStatusSeatBookingFailed, order.Status())
	assert.Nil(t, order.Seat())

	account, err := fixture.accounts.Load(ctx, secondAccount)
	require.NoError(t, err)
	assert.Equal(t, 100, account.Balance())
}

func Test_BookingSaga_When_Payment_Is_Refused(t *testing.T) {
	// setup
	ctx := context.Background()
	fixture := newBookingFixture(t)
	fixture.openConference(t, "gopherconf", 1, 100)
	accountID := fixture.fundedAccount(t, 50)

	// act
	orderID := fixture.placeOrder(t, "gopherconf", accountID)

	// assert: the order ends refused with no seat and no reference
	order, err := fixture.orders.Load(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, conference.OrderStatusPaymentRefused, order.Status())
	assert.Nil(t, order.Seat())
	assert.Nil(t, order.PaymentReference())

	// the seat went back to the pool and the status flipped FULL -> OPEN
	conf, err := fixture.conferences.Load(ctx, "gopherconf")
	require.NoError(t, err)
	assert.Equal(t, conference.ConferenceStatusOpen, conf.Status())
	assert.Len(t, conf.AvailableSeats(), 1)

	// nothing was charged
	account, err := fixture.accounts.Load(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 50, account.Balance())

	stats := fixture.statistics.StatisticsFor("gopherconf")
	assert.Equal(t, 0, stats.Incomes)
	assert.Equal(t, 0, stats.Bookings)
}

func Test_BookingSaga_When_More_Orders_Than_Seats_Arrive_Concurrently(t *testing.T) {
	// setup
	ctx := context.Background()
	fixture := newBookingFixture(t)
	const places = 3
	fixture.openConference(t, "gopherconf", places, 100)

	accountIDs := make([]conference.PaymentAccountID, places+1)
	for i := range accountIDs {
		accountIDs[i] = fixture.fundedAccount(t, 100)
	}

	// act: one more order than there are seats, all at once
	orderIDs := make([]conference.OrderID, places+1)
	var wg sync.WaitGroup
	for i := range orderIDs {
		order := conference.NewOrder()
		orderIDs[i] = order.ID()
		require.NoError(t, order.RequestBooking("gopherconf", accountIDs[i]))

		wg.Add(1)
		go func(order *conference.Order) {
			defer wg.Done()
			assert.NoError(t, fixture.orders.Save(ctx, order))
		}(order)
	}
	wg.Wait()

	// assert: exactly one order lost the race, the rest got distinct seats
	paid := 0
	failed := 0
	seats := make(map[conference.Seat]bool)
	for _, orderID := range orderIDs {
		order, err := fixture.orders.Load(ctx, orderID)
		require.NoError(t, err)

		switch order.Status() {
		case conference.OrderStatusPaid:
			paid++
			require.NotNil(t, order.Seat())
			assert.False(t, seats[*order.Seat()], "seat booked twice")
			seats[*order.Seat()] = true
		case conference.OrderStatusSeatBookingFailed:
			failed++
		default:
			t.Fatalf("unexpected order status %s", order.Status())
		}
	}
	assert.Equal(t, places, paid)
	assert.Equal(t, 1, failed)

	conf, err := fixture.conferences.Load(ctx, "gopherconf")
	require.NoError(t, err)
	assert.Equal(t, conference.ConferenceStatusFull, conf.Status())
	assert.Empty(t, conf.AvailableSeats())
}
