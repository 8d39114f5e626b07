package eventstore

import "github.com/google/uuid"

// EventMetadata carries correlation information alongside an event payload.
// It never participates in aggregate state - it exists for tracing a saga
// across the streams it touches.
type EventMetadata struct {
	EventID       string
	CausationID   string
	CorrelationID string
}

// BuildEventMetadata creates EventMetadata from the given identifiers.
func BuildEventMetadata(eventID, causationID, correlationID uuid.UUID) EventMetadata {
	return EventMetadata{
		EventID:       eventID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
	}
}
