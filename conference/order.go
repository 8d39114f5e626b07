package conference

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

// OrderID identifies a booking order.
type OrderID string

// NewOrderID generates a fresh collision-resistant order identity.
func NewOrderID() OrderID {
	return OrderID(uuid.NewString())
}

func (id OrderID) String() string {
	return string(id)
}

// OrderStatus is the saga-level status of an order.
type OrderStatus string

const (
	OrderStatusNew               OrderStatus = "NEW"
	OrderStatusSeatBooked        OrderStatus = "SEAT_BOOKED"
	OrderStatusSeatBookingFailed OrderStatus = "SEAT_BOOKING_FAILED"
	OrderStatusPaid              OrderStatus = "PAID"
	OrderStatusPaymentRefused    OrderStatus = "PAYMENT_REFUSED"
)

// Order is the event-sourced booking order aggregate. It tracks the saga
// outcome for one customer: which conference, which payment account, and
// eventually which seat and payment reference.
//
// The seat is only set while SEAT_BOOKED or PAID; the payment reference only
// while PAID. Both are cleared again when the payment is refused.
type Order struct {
	eventsourcing.Root

	status           OrderStatus
	conferenceName   ConferenceName
	accountID        PaymentAccountID
	seat             *Seat
	paymentReference *PaymentReference
}

// NewOrder creates a fresh order with a generated identity.
func NewOrder() *Order {
	return HydrateOrder(NewOrderID())
}

// HydrateOrder creates an empty order shell for the given identity, ready to
// replay its event history. Used by the repository load path.
func HydrateOrder(id OrderID) *Order {
	return &Order{
		Root:   eventsourcing.NewRoot(id.String()),
		status: OrderStatusNew,
	}
}

// ID returns the typed order identity.
func (o *Order) ID() OrderID {
	return OrderID(o.AggregateID())
}

// Status returns the current saga-level status.
func (o *Order) Status() OrderStatus {
	return o.status
}

// ConferenceName returns the conference this order targets.
func (o *Order) ConferenceName() ConferenceName {
	return o.conferenceName
}

// AccountID returns the payment account charged for this order.
func (o *Order) AccountID() PaymentAccountID {
	return o.accountID
}

// Seat returns the assigned seat, or nil while no seat is held.
func (o *Order) Seat() *Seat {
	return o.seat
}

// PaymentReference returns the payment reference, or nil while unpaid.
func (o *Order) PaymentReference() *PaymentReference {
	return o.paymentReference
}

/* decisions */

// RequestBooking starts the booking saga for a conference, naming the payment
// account to charge once a seat is held.
func (o *Order) RequestBooking(conferenceName ConferenceName, accountForPayment PaymentAccountID) error {
	if o.status != OrderStatusNew {
		return fmt.Errorf("%w: can not request booking for a %s order", eventsourcing.ErrInvalidStateTransition, o.status)
	}

	return eventsourcing.FoldNew(o, BuildOrderRequested(o.ID(), conferenceName, accountForPayment, time.Now().UTC()))
}

// Assign records the seat the conference booked for this order.
func (o *Order) Assign(seat Seat) error {
	return eventsourcing.FoldNew(o, BuildOrderSeatBooked(o.ID(), seat, time.Now().UTC()))
}

// FailSeatBooking records that no seat could be booked. Terminal.
func (o *Order) FailSeatBooking() error {
	return eventsourcing.FoldNew(o, BuildOrderSeatBookingFailed(o.ID(), time.Now().UTC()))
}

// ConfirmPayment records the accepted payment. Terminal success.
func (o *Order) ConfirmPayment(reference PaymentReference) error {
	return eventsourcing.FoldNew(o, BuildOrderPaid(o.ID(), reference, time.Now().UTC()))
}

// RefusePayment records the refused payment and gives up the seat. Terminal.
func (o *Order) RefusePayment() error {
	return eventsourcing.FoldNew(o, BuildOrderPaymentRefused(o.ID(), time.Now().UTC()))
}

/* evolutions */

// Evolve folds one event into the order state. Pure transition, no validation.
func (o *Order) Evolve(event eventsourcing.Event) error {
	switch e := event.(type) {
	case OrderRequested:
		o.conferenceName = ConferenceName(e.ConferenceName)
		o.accountID = PaymentAccountID(e.AccountID)

	case OrderSeatBooked:
		seat := Seat(e.Seat)
		o.seat = &seat
		o.status = OrderStatusSeatBooked

	case OrderSeatBookingFailed:
		o.seat = nil
		o.status = OrderStatusSeatBookingFailed

	case OrderPaid:
		reference := PaymentReference(e.PaymentReference)
		o.paymentReference = &reference
		o.status = OrderStatusPaid

	case OrderPaymentRefused:
		o.paymentReference = nil
		o.seat = nil
		o.status = OrderStatusPaymentRefused

	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEvent, event.EventType())
	}

	return nil
}
