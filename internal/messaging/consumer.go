package messaging

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Handler processes a single decoded event. A returned error triggers redelivery.
type Handler[T any] func(ctx context.Context, event *T) error

// Consumer decodes the JSON payloads of one topic for a typed Handler.
type Consumer struct {
	topic  string
	handle message.NoPublishHandlerFunc
}

// NewConsumer creates a consumer of T events published on topic.
func NewConsumer[T any](topic string, handler Handler[T], logger *zap.Logger) Consumer {
	return Consumer{
		topic: topic,
		handle: func(msg *message.Message) error {
			var event T
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				// Poison messages are acked and dropped.
				logger.Error("dropping undecodable event",
					zap.String("topic", topic),
					zap.String("messageId", msg.UUID),
					zap.Error(err),
				)

				return nil
			}

			return handler(msg.Context(), &event)
		},
	}
}

// Topic returns the topic this consumer reads.
func (c Consumer) Topic() string {
	return c.topic
}

// Handle decodes msg and runs the handler.
func (c Consumer) Handle(msg *message.Message) error {
	return c.handle(msg)
}
