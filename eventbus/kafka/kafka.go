package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"

	"github.com/ddd-crafters/conference-booking/eventbus"
	"github.com/ddd-crafters/conference-booking/eventsourcing"
)

// ErrUnknownEventType is returned when a consumed message carries an event
// type the configured unmarshal func does not recognize.
var ErrUnknownEventType = errors.New("unknown event type in kafka message")

// UnmarshalEventFunc turns a consumed payload back into a domain event.
// Each domain package provides one for its own event types.
type UnmarshalEventFunc func(eventType string, payload []byte) (eventsourcing.Event, error)

// Logger interface for transport-level logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// envelope is the wire format: the event type travels next to the payload so
// consumers can dispatch without decoding the payload first.
type envelope struct {
	EventType   string          `json:"event_type"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Publisher writes committed domain events to a kafka topic. The aggregate id
// is used as the message key, so kafka preserves per-aggregate ordering while
// events of different aggregates spread over partitions.
type Publisher struct {
	writer *kafkaGo.Writer
	logger Logger
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger Logger) *Publisher {
	return &Publisher{
		writer: &kafkaGo.Writer{
			Addr:     kafkaGo.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafkaGo.Hash{},
		},
		logger: logger,
	}
}

// Publish writes the events in order.
func (p *Publisher) Publish(ctx context.Context, events ...eventsourcing.Event) error {
	messages := make([]kafkaGo.Message, 0, len(events))

	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
		}

		value, err := json.Marshal(envelope{
			EventType:   event.EventType(),
			AggregateID: event.AggregateID(),
			OccurredAt:  event.HasOccurredAt(),
			Payload:     payload,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal envelope for %s: %w", event.EventType(), err)
		}

		messages = append(messages, kafkaGo.Message{
			Key:   []byte(event.AggregateID()),
			Value: value,
		})
	}

	return p.writer.WriteMessages(ctx, messages...)
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Consumer reads event envelopes from a kafka topic and hands the decoded
// domain events to a local handler (typically an in-process event bus that
// routes them to process-manager subscriptions).
type Consumer struct {
	brokers   []string
	topic     string
	groupID   string
	unmarshal UnmarshalEventFunc
	logger    Logger
}

// NewConsumer creates a Consumer for the given brokers, topic and consumer group.
func NewConsumer(brokers []string, topic string, groupID string, unmarshal UnmarshalEventFunc, logger Logger) *Consumer {
	return &Consumer{
		brokers:   brokers,
		topic:     topic,
		groupID:   groupID,
		unmarshal: unmarshal,
		logger:    logger,
	}
}

// Run consumes until the context is canceled. Delivery is at-least-once:
// handler errors are logged and the loop keeps consuming - deduplication and
// recovery are the handler's concern.
func (c *Consumer) Run(ctx context.Context, handler eventbus.Handler) error {
	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers: c.brokers,
		Topic:   c.topic,
		GroupID: c.groupID,
	})
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && c.logger != nil {
			c.logger.Warn("failed to close kafka reader", "error", closeErr.Error())
		}
	}()

	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				if c.logger != nil {
					c.logger.Info("consumer shutting down", "topic", c.topic)
				}
				return nil
			}

			if c.logger != nil {
				c.logger.Error("failed to read kafka message", "topic", c.topic, "error", err.Error())
			}
			continue
		}

		if handleErr := c.handleMessage(ctx, message.Value, handler); handleErr != nil {
			if c.logger != nil {
				c.logger.Error("failed to handle kafka message", "topic", c.topic, "error", handleErr.Error())
			}
		}
	}
}

func (c *Consumer) handleMessage(ctx context.Context, value []byte, handler eventbus.Handler) error {
	event, err := DecodeEnvelope(value, c.unmarshal)
	if err != nil {
		return err
	}

	return handler.Handle(ctx, event)
}

// DecodeEnvelope turns a consumed message value back into a domain event
// using the given unmarshal func.
func DecodeEnvelope(value []byte, unmarshal UnmarshalEventFunc) (eventsourcing.Event, error) {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}

	event, err := unmarshal(env.EventType, env.Payload)
	if err != nil {
		return nil, errors.Join(ErrUnknownEventType, err)
	}

	return event, nil
}
