package conference

import (
	"time"
)

// Event type identifiers for the order aggregate.
const (
	OrderRequestedEventType         = "OrderRequested"
	OrderSeatBookedEventType        = "OrderSeatBooked"
	OrderSeatBookingFailedEventType = "OrderSeatBookingFailed"
	OrderPaidEventType              = "OrderPaid"
	OrderPaymentRefusedEventType    = "OrderPaymentRefused"
)

// OrderRequested represents when a customer requested a seat booking,
// naming the conference and the payment account to charge.
type OrderRequested struct {
	OrderID        string
	ConferenceName string
	AccountID      string
	OccurredAt     time.Time
}

// BuildOrderRequested creates a new OrderRequested event.
func BuildOrderRequested(orderID OrderID, name ConferenceName, accountID PaymentAccountID, occurredAt time.Time) OrderRequested {
	return OrderRequested{
		OrderID:        orderID.String(),
		ConferenceName: name.String(),
		AccountID:      accountID.String(),
		OccurredAt:     occurredAt,
	}
}

// AggregateID returns the order identity.
func (e OrderRequested) AggregateID() string {
	return e.OrderID
}

// EventType returns the event type identifier.
func (e OrderRequested) EventType() string {
	return OrderRequestedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderRequested) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// OrderSeatBooked represents when the booked seat was assigned to the order.
type OrderSeatBooked struct {
	OrderID    string
	Seat       int
	OccurredAt time.Time
}

// BuildOrderSeatBooked creates a new OrderSeatBooked event.
func BuildOrderSeatBooked(orderID OrderID, seat Seat, occurredAt time.Time) OrderSeatBooked {
	return OrderSeatBooked{
		OrderID:    orderID.String(),
		Seat:       int(seat),
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the order identity.
func (e OrderSeatBooked) AggregateID() string {
	return e.OrderID
}

// EventType returns the event type identifier.
func (e OrderSeatBooked) EventType() string {
	return OrderSeatBookedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderSeatBooked) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// OrderSeatBookingFailed represents when the conference had no seat left for
// the order.
type OrderSeatBookingFailed struct {
	OrderID    string
	OccurredAt time.Time
}

// BuildOrderSeatBookingFailed creates a new OrderSeatBookingFailed event.
func BuildOrderSeatBookingFailed(orderID OrderID, occurredAt time.Time) OrderSeatBookingFailed {
	return OrderSeatBookingFailed{
		OrderID:    orderID.String(),
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the order identity.
func (e OrderSeatBookingFailed) AggregateID() string {
	return e.OrderID
}

// EventType returns the event type identifier.
func (e OrderSeatBookingFailed) EventType() string {
	return OrderSeatBookingFailedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderSeatBookingFailed) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// OrderPaid represents when the payment for the order was accepted.
type OrderPaid struct {
	OrderID          string
	PaymentReference string
	OccurredAt       time.Time
}

// BuildOrderPaid creates a new OrderPaid event.
func BuildOrderPaid(orderID OrderID, reference PaymentReference, occurredAt time.Time) OrderPaid {
	return OrderPaid{
		OrderID:          orderID.String(),
		PaymentReference: reference.String(),
		OccurredAt:       occurredAt,
	}
}

// AggregateID returns the order identity.
func (e OrderPaid) AggregateID() string {
	return e.OrderID
}

// EventType returns the event type identifier.
func (e OrderPaid) EventType() string {
	return OrderPaidEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderPaid) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// OrderPaymentRefused represents when the payment for the order was refused
// and the held seat was given up.
type OrderPaymentRefused struct {
	OrderID    string
	OccurredAt time.Time
}

// BuildOrderPaymentRefused creates a new OrderPaymentRefused event.
func BuildOrderPaymentRefused(orderID OrderID, occurredAt time.Time) OrderPaymentRefused {
	return OrderPaymentRefused{
		OrderID:    orderID.String(),
		OccurredAt: occurredAt,
	}
}

// AggregateID returns the order identity.
func (e OrderPaymentRefused) AggregateID() string {
	return e.OrderID
}

// EventType returns the event type identifier.
func (e OrderPaymentRefused) EventType() string {
	return OrderPaymentRefusedEventType
}

// HasOccurredAt returns when this event occurred.
func (e OrderPaymentRefused) HasOccurredAt() time.Time {
	return e.OccurredAt
}
