package container

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/url-shortener/internal/analytics"
	"github.com/serroba/url-shortener/internal/analytics/logsink"
	"github.com/serroba/url-shortener/internal/messaging"
	"go.uber.org/zap"
)

// ConsumerGroupName is the Redis Streams consumer group used by the analytics consumer.
const ConsumerGroupName = "analytics"

// PublisherGroupPackage provides typed publish functions for analytics events.
// With Options.Events set to "none" events are discarded.
func PublisherGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client, err := do.Invoke[*RedisClient](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     client.Client,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, messaging.NewZapLogger(logger.Named("watermill")))
		if err != nil {
			return nil, fmt.Errorf("create redis stream publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	providePublish[analytics.URLCreatedEvent](i, analytics.TopicURLCreated)
	providePublish[analytics.URLAccessedEvent](i, analytics.TopicURLAccessed)
}

func providePublish[T any](i *do.Injector, topic string) {
	do.Provide(i, func(i *do.Injector) (messaging.Publish[T], error) {
		if do.MustInvoke[*Options](i).Events != EventsRedis {
			return messaging.Discard[T](), nil
		}

		group, err := do.Invoke[*messaging.PublisherGroup](i)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublishFunc[T](group.Publisher(), topic), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group reading from Redis Streams.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client, err := do.Invoke[*RedisClient](i)
		if err != nil {
			return nil, err
		}

		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client.Client,
			Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
			ConsumerGroup: ConsumerGroupName,
		}, messaging.NewZapLogger(logger.Named("watermill")))
		if err != nil {
			return nil, fmt.Errorf("create redis stream subscriber: %w", err)
		}

		group, err := messaging.NewConsumerGroup(subscriber, messaging.DefaultRetryPolicy, logger)
		if err != nil {
			return nil, err
		}

		analytics.RegisterConsumers(group, logsink.New(logger), logger)

		return group, nil
	})
}
