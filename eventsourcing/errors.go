package eventsourcing

import "errors"

// ErrInvalidStateTransition is returned when a decision is requested on an
// aggregate whose current status does not allow it. No events are produced
// and the aggregate state is unchanged.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// ErrUnknownEvent is returned by Evolve when an aggregate is asked to fold
// an event type it does not know.
var ErrUnknownEvent = errors.New("unknown event for this aggregate")
