package kafka_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddd-crafters/conference-booking/banking"
	"github.com/ddd-crafters/conference-booking/eventbus/kafka"
)

func Test_DecodeEnvelope_Roundtrips_A_Domain_Event(t *testing.T) {
	// setup: an envelope as the publisher writes it
	event := banking.BuildAccountDeposited(banking.NewAccountID(), 250, time.Now().UTC())
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	value, err := json.Marshal(map[string]any{
		"event_type":   event.EventType(),
		"aggregate_id": event.AggregateID(),
		"occurred_at":  event.HasOccurredAt(),
		"payload":      json.RawMessage(payload),
	})
	require.NoError(t, err)

	// act
	decoded, err := kafka.DecodeEnvelope(value, banking.UnmarshalDomainEvent)

	// assert
	require.NoError(t, err)
	deposited, ok := decoded.(banking.AccountDeposited)
	require.True(t, ok)
	assert.Equal(t, event.AccountID, deposited.AccountID)
	assert.Equal(t, 250, deposited.Amount)
}

func Test_DecodeEnvelope_When_The_Event_Type_Is_Unknown(t *testing.T) {
	value, err := json.Marshal(map[string]any{
		"event_type": "NobodyKnowsThisOne",
		"payload":    json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	_, err = kafka.DecodeEnvelope(value, banking.UnmarshalDomainEvent)

	assert.ErrorIs(t, err, kafka.ErrUnknownEventType)
}

func Test_DecodeEnvelope_When_The_Value_Is_Not_JSON(t *testing.T) {
	_, err := kafka.DecodeEnvelope([]byte("not json"), banking.UnmarshalDomainEvent)

	assert.Error(t, err)
}
