package conference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddd-crafters/conference-booking/conference"
)

func Test_Conference_BookSeat_When_Seats_Are_Available(t *testing.T) {
	// setup
	conf := conference.NewConference("gopherconf")
	require.NoError(t, conf.Open(2, 100))

	// act
	require.NoError(t, conf.BookSeat(conference.NewOrderID()))
	require.NoError(t, conf.BookSeat(conference.NewOrderID()))

	// assert: lowest seat number first, full once the pool is empty
	assert.Equal(t, []conference.Seat{0, 1}, conf.BookedSeats())
	assert.Empty(t, conf.AvailableSeats())
	assert.Equal(t, conference.ConferenceStatusFull, conf.Status())
}

func Test_Conference_BookSeat_When_No_Seat_Is_Left(t *testing.T) {
	// setup
	conf := conference.NewConference("gopherconf")
	require.NoError(t, conf.Open(1, 100))
	require.NoError(t, conf.BookSeat(conference.NewOrderID()))

	// act
	require.NoError(t, conf.BookSeat(conference.NewOrderID()))

	// assert: the refusal is an event, not an error
	pendingChanges := conf.PendingChanges()
	require.Len(t, pendingChanges, 3)
	assert.Equal(t, conference.SeatBookingRequestRefusedEventType, pendingChanges[2].EventType())
	assert.Equal(t, conference.ConferenceStatusFull, conf.Status())
}

func Test_Conference_CancelBooking_When_Conference_Is_Full(t *testing.T) {
	// setup
	conf := conference.NewConference("gopherconf")
	require.NoError(t, conf.Open(1, 100))
	require.NoError(t, conf.BookSeat(conference.NewOrderID()))
	require.Equal(t, conference.ConferenceStatusFull, conf.Status())

	// act
	require.NoError(t, conf.CancelBooking(0))

	// assert: the seat is back in the pool and the status flips to OPEN
	assert.Equal(t, []conference.Seat{0}, conf.AvailableSeats())
	assert.Empty(t, conf.BookedSeats())
	assert.Equal(t, conference.ConferenceStatusOpen, conf.Status())
}

func Test_Conference_Open_When_Already_Open(t *testing.T) {
	conf := conference.NewConference("gopherconf")
	require.NoError(t, conf.Open(2, 100))

	err := conf.Open(2, 100)

	assert.Error(t, err)
	assert.Equal(t, 1, conf.Version())
}
