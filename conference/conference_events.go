package conference

import (
	"time"
)

// Event type identifiers for the seating aggregate.
const (
	ConferenceOpenedEventType          = "ConferenceOpened"
	SeatBookedEventType                = "SeatBooked"
	SeatBookingRequestRefusedEventType = "SeatBookingRequestRefused"
	SeatReleasedEventType              = "SeatReleased"
)

// ConferenceOpened represents when a conference was opened with a number of
// places and a seat price.
type ConferenceOpened struct {
	ConferenceName string
	Places         int
	SeatPrice      int
	OccurredAt     time.Time
}

// BuildConferenceOpened creates a new ConferenceOpened event.
func BuildConferenceOpened(name ConferenceName, places int, seatPrice int, occurredAt time.Time) ConferenceOpened {
	return ConferenceOpened{
		ConferenceName: name.String(),
		Places:         places,
		SeatPrice:      seatPrice,
		OccurredAt:     occurredAt,
	}
}

// AggregateID returns the conference identity.
func (e ConferenceOpened) AggregateID() string {
	return e.ConferenceName
}

// EventType returns the event type identifier.
func (e ConferenceOpened) EventType() string {
	return ConferenceOpenedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ConferenceOpened) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// SeatBooked represents when a seat was taken from the available pool for an
// order.
type SeatBooked struct {
	ConferenceName string
	OrderID        string
	Seat           int
	OccurredAt     time.Time
}

// BuildSeatBooked creates a new SeatBooked event.
func BuildSeatBooked(name ConferenceName, orderID OrderID, seat Seat, occurredAt time.Time) SeatBooked {
	return SeatBooked{
		ConferenceName: name.String(),
		OrderID:        orderID.String(),
		Seat:           int(seat),
		OccurredAt:     occurredAt,
	}
}

// AggregateID returns the conference identity.
func (e SeatBooked) AggregateID() string {
	return e.ConferenceName
}

// EventType returns the event type identifier.
func (e SeatBooked) EventType() string {
	return SeatBookedEventType
}

// HasOccurredAt returns when this event occurred.
func (e SeatBooked) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// SeatBookingRequestRefused represents when no seat was left for an order.
type SeatBookingRequestRefused struct {
	ConferenceName string
	OrderID        string
	OccurredAt     time.Time
}

// BuildSeatBookingRequestRefused creates a new SeatBookingRequestRefused event.
func BuildSeatBookingRequestRefused(name ConferenceName, orderID OrderID, occurredAt time.Time) SeatBookingRequestRefused {
	return SeatBookingRequestRefused{
		ConferenceName: name.String(),
		OrderID:        orderID.String(),
		OccurredAt:     occurredAt,
	}
}

// AggregateID returns the conference identity.
func (e SeatBookingRequestRefused) AggregateID() string {
	return e.ConferenceName
}

// EventType returns the event type identifier.
func (e SeatBookingRequestRefused) EventType() string {
	return SeatBookingRequestRefusedEventType
}

// HasOccurredAt returns when this event occurred.
func (e SeatBookingRequestRefused) HasOccurredAt() time.Time {
	return e.OccurredAt
}

// SeatReleased represents when a booked seat was returned to the available
// pool, compensating a refused payment.
type SeatReleased struct {
	ConferenceName string
	Seat           int
	OccurredAt     time.Time
}

// BuildSeatReleased creates a new SeatReleased event.
func BuildSeatReleased(name ConferenceName, seat Seat, occurredAt time.Time) SeatReleased {
	return SeatReleased{
		ConferenceName: name.String(),
		Seat:           int(seat),
		OccurredAt:     occurredAt,
	}
}

// AggregateID returns the conference identity.
func (e SeatReleased) AggregateID() string {
	return e.ConferenceName
}

// EventType returns the event type identifier.
func (e SeatReleased) EventType() string {
	return SeatReleasedEventType
}

// HasOccurredAt returns when this event occurred.
func (e SeatReleased) HasOccurredAt() time.Time {
	return e.OccurredAt
}
