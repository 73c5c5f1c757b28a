package logsink

import (
	"context"

	"github.com/serroba/url-shortener/internal/analytics"
	"go.uber.org/zap"
)

// Sink is an analytics.Sink that writes events to the structured log.
type Sink struct {
	logger *zap.Logger
}

// New creates a sink writing to logger.
func New(logger *zap.Logger) *Sink {
	return &Sink{logger: logger.Named("analytics")}
}

func (s *Sink) RecordCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	s.logger.Info("url created",
		zap.String("code", event.Code),
		zap.String("longUrl", event.LongURL),
		zap.Time("createdAt", event.CreatedAt),
		zap.String("clientIp", event.ClientIP),
	)

	return nil
}

func (s *Sink) RecordAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	s.logger.Info("url accessed",
		zap.String("code", event.Code),
		zap.String("longUrl", event.LongURL),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("clientIp", event.ClientIP),
		zap.String("userAgent", event.UserAgent),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
