package bus

import (
	"context"

	"studiodesk/pkg/kafka"
	"studiodesk/pkg/middleware"
	"studiodesk/pkg/model"
)

const (
	schemaVersion = "1"
	broadcastKey  = "broadcast"
)

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaPublisher writes notifications to the reservation events topic, keyed
// by recipient so each user's events stay ordered.
type KafkaPublisher struct {
	producer messagePublisher
	source   string
}

func NewKafkaPublisher(producer messagePublisher, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, source: source}
}

func (p *KafkaPublisher) Publish(ctx context.Context, n *model.Notification) error {
	key := n.RecipientID
	if n.IsGlobal() {
		key = broadcastKey
	}

	builder := kafka.NewMessage().
		WithKey(key).
		WithValue(n).
		WithEventID(n.ID).
		WithEventType(string(n.Kind)).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source)
	if requestID := middleware.RequestID(ctx); requestID != "" {
		builder = builder.WithCorrelationID(requestID)
	}

	msg, err := builder.Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

// NewMessageHandler adapts a delivery handler to the Kafka consumer.
// Undecodable payloads are permanent failures; delivery errors are retried.
func NewMessageHandler(deliver Handler) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var n model.Notification
		if err := msg.DecodeValue(&n); err != nil {
			return kafka.NewPermanentError("invalid notification payload", err)
		}
		if n.ID == "" {
			return kafka.NewPermanentError("notification without id", kafka.ErrInvalidMessage)
		}
		if err := deliver(ctx, &n); err != nil {
			return kafka.NewTransientError("notification delivery failed", err)
		}
		return nil
	}
}
