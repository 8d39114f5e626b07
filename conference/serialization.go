package conference

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/ddd-crafters/conference-booking/eventsourcing"
	"github.com/ddd-crafters/conference-booking/eventstore"
)

var (
	// ErrMappingToStorableEventFailed is returned when event serialization fails.
	ErrMappingToStorableEventFailed = errors.New("mapping to storable event failed")

	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// StorableEventsFrom converts multiple domain events for persistence.
func StorableEventsFrom(events eventsourcing.Events) (eventstore.StorableEvents, error) {
	storableEvents := make(eventstore.StorableEvents, 0, len(events))

	for _, event := range events {
		storableEvent, err := StorableEventFrom(event)
		if err != nil {
			return nil, err
		}

		storableEvents = append(storableEvents, storableEvent)
	}

	return storableEvents, nil
}

// StorableEventFrom converts a domain event to its persistence representation.
// Every event gets a fresh event id in its metadata; causation and correlation
// default to that id at the command boundary.
func StorableEventFrom(event eventsourcing.Event) (eventstore.StorableEvent, error) {
	payloadJSON, err := json.Marshal(event)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	eventID := uuid.New()
	metadataJSON, err := json.Marshal(eventstore.BuildEventMetadata(eventID, eventID, eventID))
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	storableEvent, err := eventstore.BuildStorableEvent(
		event.AggregateID(),
		event.EventType(),
		event.HasOccurredAt(),
		payloadJSON,
		metadataJSON,
	)
	if err != nil {
		return eventstore.StorableEvent{}, errors.Join(ErrMappingToStorableEventFailed, err)
	}

	return storableEvent, nil
}

// DomainEventsFrom converts multiple StorableEvents back to domain events.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (eventsourcing.Events, error) {
	domainEvents := make(eventsourcing.Events, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent back to its domain event.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (eventsourcing.Event, error) {
	return UnmarshalDomainEvent(storableEvent.EventType, storableEvent.PayloadJSON)
}

// UnmarshalDomainEvent decodes an event payload by its type identifier.
// Also used by message transports that carry the type next to the payload.
func UnmarshalDomainEvent(eventType string, payloadJSON []byte) (eventsourcing.Event, error) {
	switch eventType {
	case ConferenceOpenedEventType:
		return unmarshalEvent[ConferenceOpened](payloadJSON)

	case SeatBookedEventType:
		return unmarshalEvent[SeatBooked](payloadJSON)

	case SeatBookingRequestRefusedEventType:
		return unmarshalEvent[SeatBookingRequestRefused](payloadJSON)

	case SeatReleasedEventType:
		return unmarshalEvent[SeatReleased](payloadJSON)

	case OrderRequestedEventType:
		return unmarshalEvent[OrderRequested](payloadJSON)

	case OrderSeatBookedEventType:
		return unmarshalEvent[OrderSeatBooked](payloadJSON)

	case OrderSeatBookingFailedEventType:
		return unmarshalEvent[OrderSeatBookingFailed](payloadJSON)

	case OrderPaidEventType:
		return unmarshalEvent[OrderPaid](payloadJSON)

	case OrderPaymentRefusedEventType:
		return unmarshalEvent[OrderPaymentRefused](payloadJSON)

	case AccountCreditedEventType:
		return unmarshalEvent[AccountCredited](payloadJSON)

	case PaymentRequestedEventType:
		return unmarshalEvent[PaymentRequested](payloadJSON)

	case PaymentAcceptedEventType:
		return unmarshalEvent[PaymentAccepted](payloadJSON)

	case PaymentRefusedEventType:
		return unmarshalEvent[PaymentRefused](payloadJSON)

	default:
		return nil, errors.Join(ErrMappingToDomainEventFailed, ErrMappingToDomainEventUnknownEventType)
	}
}

func unmarshalEvent[T eventsourcing.Event](payloadJSON []byte) (eventsourcing.Event, error) {
	payload := new(T)

	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, payload); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *payload, nil
}
