package conference

import (
	"context"
	"fmt"

	"github.com/ddd-crafters/conference-booking/eventbus"
	"github.com/ddd-crafters/conference-booking/eventsourcing"
	"github.com/ddd-crafters/conference-booking/eventstore"
)

// BookingProcessManager drives the booking saga across the conference, the
// order and the payment account. It is stateless: every reaction is an
// independent unit of work that loads the affected aggregates, takes one or
// two decisions, and saves. Saga state lives entirely in the event streams.
//
// Reactions run under an optimistic concurrency retry. Concurrent orders
// against the same conference conflict on the conference stream; the loser
// reloads and decides again, so each seat is booked exactly once.
//
// There is no transaction across the aggregates a reaction touches: a crash
// between the order save and the account save in the seat-booked reaction
// leaves the seat durably booked with no payment requested. Recovery relies
// on event redelivery.
type BookingProcessManager struct {
	conferences *ConferenceRepository
	orders      *OrderRepository
	accounts    *PaymentAccountRepository
}

// NewBookingProcessManager creates a BookingProcessManager.
func NewBookingProcessManager(
	conferences *ConferenceRepository,
	orders *OrderRepository,
	accounts *PaymentAccountRepository,
) *BookingProcessManager {

	return &BookingProcessManager{
		conferences: conferences,
		orders:      orders,
		accounts:    accounts,
	}
}

// Register subscribes the manager's reactions on the bus.
func (pm *BookingProcessManager) Register(bus eventbus.EventBus) {
	bus.Subscribe(OrderRequestedEventType, eventbus.HandlerFunc(pm.onOrderRequested))
	bus.Subscribe(SeatBookedEventType, eventbus.HandlerFunc(pm.onSeatBooked))
	bus.Subscribe(SeatBookingRequestRefusedEventType, eventbus.HandlerFunc(pm.onSeatBookingRequestRefused))
	bus.Subscribe(PaymentAcceptedEventType, eventbus.HandlerFunc(pm.onPaymentAccepted))
	bus.Subscribe(PaymentRefusedEventType, eventbus.HandlerFunc(pm.onPaymentRefused))
}

// onOrderRequested tries to book a seat on the target conference. The
// conference decides between SeatBooked and SeatBookingRequestRefused.
func (pm *BookingProcessManager) onOrderRequested(ctx context.Context, event eventsourcing.Event) error {
	requested, ok := event.(OrderRequested)
	if !ok {
		return nil
	}

	return eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
		conf, err := pm.conferences.Load(ctx, ConferenceName(requested.ConferenceName))
		if err != nil {
			return err
		}

		if err = conf.BookSeat(OrderID(requested.OrderID)); err != nil {
			return err
		}

		return pm.conferences.Save(ctx, conf)
	})
}

// onSeatBooked assigns the seat to the order, then requests the payment on
// the customer's account at the conference's seat price. The order is saved
// first so the payment outcome reactions observe it in SEAT_BOOKED state.
func (pm *BookingProcessManager) onSeatBooked(ctx context.Context, event eventsourcing.Event) error {
	booked, ok := event.(SeatBooked)
	if !ok {
		return nil
	}

	return eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
		order, err := pm.orders.Load(ctx, OrderID(booked.OrderID))
		if err != nil {
			return err
		}

		if err = order.Assign(Seat(booked.Seat)); err != nil {
			return err
		}

		conf, err := pm.conferences.Load(ctx, ConferenceName(booked.ConferenceName))
		if err != nil {
			return err
		}

		account, err := pm.accounts.Load(ctx, order.AccountID())
		if err != nil {
			return err
		}

		if err = account.RequestPayment(conf.SeatPrice(), order.ID()); err != nil {
			return err
		}

		if err = pm.orders.Save(ctx, order); err != nil {
			return err
		}

		return pm.accounts.Save(ctx, account)
	})
}

// onSeatBookingRequestRefused propagates the refusal to the order.
func (pm *BookingProcessManager) onSeatBookingRequestRefused(ctx context.Context, event eventsourcing.Event) error {
	refused, ok := event.(SeatBookingRequestRefused)
	if !ok {
		return nil
	}

	return eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
		order, err := pm.orders.Load(ctx, OrderID(refused.OrderID))
		if err != nil {
			return err
		}

		if err = order.FailSeatBooking(); err != nil {
			return err
		}

		return pm.orders.Save(ctx, order)
	})
}

// onPaymentAccepted confirms the payment to the order.
func (pm *BookingProcessManager) onPaymentAccepted(ctx context.Context, event eventsourcing.Event) error {
	accepted, ok := event.(PaymentAccepted)
	if !ok {
		return nil
	}

	return eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
		order, err := pm.orders.Load(ctx, OrderID(accepted.OrderID))
		if err != nil {
			return err
		}

		if err = order.ConfirmPayment(PaymentReference(accepted.PaymentReference)); err != nil {
			return err
		}

		return pm.orders.Save(ctx, order)
	})
}

// onPaymentRefused compensates: the seat goes back to the conference's
// available pool and the order records the refusal. The seat is read from
// the order before RefusePayment clears it.
func (pm *BookingProcessManager) onPaymentRefused(ctx context.Context, event eventsourcing.Event) error {
	refused, ok := event.(PaymentRefused)
	if !ok {
		return nil
	}

	return eventstore.RetryOnConflict(ctx, func(ctx context.Context) error {
		order, err := pm.orders.Load(ctx, OrderID(refused.OrderID))
		if err != nil {
			return err
		}

		conf, err := pm.conferences.Load(ctx, order.ConferenceName())
		if err != nil {
			return err
		}

		seat := order.Seat()
		if seat == nil {
			return fmt.Errorf("order %s holds no seat to release", order.ID())
		}

		if err = conf.CancelBooking(*seat); err != nil {
			return err
		}

		if err = order.RefusePayment(); err != nil {
			return err
		}

		if err = pm.orders.Save(ctx, order); err != nil {
			return err
		}

		return pm.conferences.Save(ctx, conf)
	})
}
