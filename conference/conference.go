package conference

import (
	"fmt"
	"time"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

// ConferenceName identifies a conference. It is a natural key: the name is
// the aggregate identity.
type ConferenceName string

func (n ConferenceName) String() string {
	return string(n)
}

// Seat is a seat number within a conference.
type Seat int

// ConferenceStatus is the lifecycle status of a conference.
type ConferenceStatus string

const (
	ConferenceStatusNew  ConferenceStatus = "NEW"
	ConferenceStatusOpen ConferenceStatus = "OPEN"
	ConferenceStatusFull ConferenceStatus = "FULL"
)

// Conference is the event-sourced seating aggregate.
//
// Seats are numbered 0..places-1 and are always split between the booked and
// the available pool; every seat is in exactly one of the two. The status
// flips to FULL when the available pool empties and back to OPEN when a seat
// is released.
type Conference struct {
	eventsourcing.Root

	seatPrice      int
	status         ConferenceStatus
	bookedSeats    []Seat
	availableSeats []Seat
}

// NewConference creates a conference shell for the given name with no seats,
// ready to replay its event history or take its first decision.
func NewConference(name ConferenceName) *Conference {
	return &Conference{
		Root:   eventsourcing.NewRoot(name.String()),
		status: ConferenceStatusNew,
	}
}

// Name returns the conference identity.
func (c *Conference) Name() ConferenceName {
	return ConferenceName(c.AggregateID())
}

// SeatPrice returns the price per seat.
func (c *Conference) SeatPrice() int {
	return c.seatPrice
}

// Status returns the current lifecycle status.
func (c *Conference) Status() ConferenceStatus {
	return c.status
}

// BookedSeats returns the currently booked seats.
func (c *Conference) BookedSeats() []Seat {
	return append([]Seat(nil), c.bookedSeats...)
}

// AvailableSeats returns the currently available seats.
func (c *Conference) AvailableSeats() []Seat {
	return append([]Seat(nil), c.availableSeats...)
}

/* decisions */

// Open opens a NEW conference with the given number of places and seat price.
func (c *Conference) Open(places int, seatPrice int) error {
	if c.status != ConferenceStatusNew {
		return fmt.Errorf("%w: can not open a %s conference", eventsourcing.ErrInvalidStateTransition, c.status)
	}

	return eventsourcing.FoldNew(c, BuildConferenceOpened(c.Name(), places, seatPrice, time.Now().UTC()))
}

// BookSeat books the lowest-numbered available seat for the order, or records
// a refusal when no seat is left. The refusal is an event, not an error: the
// outcome must reach the order asynchronously.
func (c *Conference) BookSeat(orderID OrderID) error {
	seat, found := c.lowestAvailableSeat()
	if !found {
		return eventsourcing.FoldNew(c, BuildSeatBookingRequestRefused(c.Name(), orderID, time.Now().UTC()))
	}

	return eventsourcing.FoldNew(c, BuildSeatBooked(c.Name(), orderID, seat, time.Now().UTC()))
}

// CancelBooking releases a booked seat back to the available pool.
func (c *Conference) CancelBooking(seat Seat) error {
	return eventsourcing.FoldNew(c, BuildSeatReleased(c.Name(), seat, time.Now().UTC()))
}

// Lowest seat number wins so that concurrent bookings resolve deterministically.
func (c *Conference) lowestAvailableSeat() (Seat, bool) {
	if len(c.availableSeats) == 0 {
		return 0, false
	}

	lowest := c.availableSeats[0]
	for _, seat := range c.availableSeats[1:] {
		if seat < lowest {
			lowest = seat
		}
	}

	return lowest, true
}

/* evolutions */

// Evolve folds one event into the conference state. Pure transition, no validation.
func (c *Conference) Evolve(event eventsourcing.Event) error {
	switch e := event.(type) {
	case ConferenceOpened:
		c.status = ConferenceStatusOpen
		c.seatPrice = e.SeatPrice
		c.availableSeats = make([]Seat, 0, e.Places)
		for i := 0; i < e.Places; i++ {
			c.availableSeats = append(c.availableSeats, Seat(i))
		}

	case SeatBooked:
		c.availableSeats = removeSeat(c.availableSeats, Seat(e.Seat))
		c.bookedSeats = append(c.bookedSeats, Seat(e.Seat))
		if len(c.availableSeats) == 0 {
			c.status = ConferenceStatusFull
		}

	case SeatBookingRequestRefused:
		// bookkeeping only, no state change

	case SeatReleased:
		c.bookedSeats = removeSeat(c.bookedSeats, Seat(e.Seat))
		c.availableSeats = append(c.availableSeats, Seat(e.Seat))
		if c.status == ConferenceStatusFull {
			c.status = ConferenceStatusOpen
		}

	default:
		return fmt.Errorf("%w: %s", eventsourcing.ErrUnknownEvent, event.EventType())
	}

	return nil
}

func removeSeat(seats []Seat, seat Seat) []Seat {
	for i, s := range seats {
		if s == seat {
			return append(seats[:i], seats[i+1:]...)
		}
	}

	return seats
}
