package analytics

import (
	"context"

	"github.com/serroba/url-shortener/internal/messaging"
	"go.uber.org/zap"
)

// Sink receives decoded analytics events. A returned error nacks the message.
type Sink interface {
	RecordCreated(ctx context.Context, event *URLCreatedEvent) error
	RecordAccessed(ctx context.Context, event *URLAccessedEvent) error
}

// RegisterConsumers subscribes sink to both analytics topics through group.
func RegisterConsumers(group *messaging.ConsumerGroup, sink Sink, logger *zap.Logger) {
	group.Add(messaging.NewConsumer(TopicURLCreated, sink.RecordCreated, logger))
	group.Add(messaging.NewConsumer(TopicURLAccessed, sink.RecordAccessed, logger))
}
