package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConsumer struct {
	eventTypes []string
	events     []*ConsumedEvent
	err        error
}

func (r *recordingConsumer) EventTypes() []string {
	return r.eventTypes
}

func (r *recordingConsumer) Handle(ctx context.Context, event *ConsumedEvent) error {
	r.events = append(r.events, event)
	return r.err
}

func newTestConsumer(t *testing.T, consumers ...EventConsumer) *RabbitMQConsumer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := NewConsumerRegistry(logger)
	for _, consumer := range consumers {
		registry.Register(consumer)
	}

	return &RabbitMQConsumer{
		queue:     DefaultConsumerQueueName,
		exchange:  ExchangeName,
		registry:  registry,
		logger:    logger,
		closeChan: make(chan struct{}),
	}
}

func consumedEventBody(t *testing.T, routingKey string) []byte {
	t.Helper()

	body, err := json.Marshal(&ConsumedEvent{
		EventID:       uuid.New(),
		AggregateID:   uuid.New(),
		AggregateType: "SwapProposal",
		RoutingKey:    routingKey,
		OccurredAt:    time.Now().UTC(),
		Payload:       json.RawMessage(`{"status":"accepted"}`),
	})
	require.NoError(t, err)
	return body
}

func TestRabbitMQConsumer_ProcessMessage(t *testing.T) {
	t.Run("dispatches to registered consumers", func(t *testing.T) {
		sub := &recordingConsumer{eventTypes: []string{"swaps.swap.accepted"}}
		consumer := newTestConsumer(t, sub)

		err := consumer.processMessage(context.Background(), amqp.Delivery{
			RoutingKey: "swaps.swap.accepted",
			Body:       consumedEventBody(t, "swaps.swap.accepted"),
		})

		require.NoError(t, err)
		require.Len(t, sub.events, 1)
		assert.Equal(t, "swaps.swap.accepted", sub.events[0].RoutingKey)
		assert.JSONEq(t, `{"status":"accepted"}`, string(sub.events[0].Payload))
	})

	t.Run("falls back to the delivery routing key", func(t *testing.T) {
		sub := &recordingConsumer{eventTypes: []string{"swaps.swap.rejected"}}
		consumer := newTestConsumer(t, sub)

		err := consumer.processMessage(context.Background(), amqp.Delivery{
			RoutingKey: "swaps.swap.rejected",
			Body:       consumedEventBody(t, ""),
		})

		require.NoError(t, err)
		require.Len(t, sub.events, 1)
		assert.Equal(t, "swaps.swap.rejected", sub.events[0].RoutingKey)
	})

	t.Run("discards malformed messages without error", func(t *testing.T) {
		sub := &recordingConsumer{eventTypes: []string{"swaps.swap.accepted"}}
		consumer := newTestConsumer(t, sub)

		err := consumer.processMessage(context.Background(), amqp.Delivery{
			RoutingKey: "swaps.swap.accepted",
			Body:       []byte("not json"),
		})

		require.NoError(t, err)
		assert.Empty(t, sub.events)
	})

	t.Run("surfaces dispatch failures for requeueing", func(t *testing.T) {
		sub := &recordingConsumer{
			eventTypes: []string{"swaps.swap.proposed"},
			err:        errors.New("subscriber down"),
		}
		consumer := newTestConsumer(t, sub)

		err := consumer.processMessage(context.Background(), amqp.Delivery{
			RoutingKey: "swaps.swap.proposed",
			Body:       consumedEventBody(t, "swaps.swap.proposed"),
		})

		assert.Error(t, err)
	})
}
