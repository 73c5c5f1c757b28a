package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.uber.org/zap"
)

const routerCloseTimeout = 10 * time.Second

var errAlreadyStarted = errors.New("consumer group already started")

// RetryPolicy bounds in-process redelivery of a failing handler before the message is nacked.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries three times with exponential backoff starting at 100ms.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     2 * time.Second,
}

// ConsumerGroup runs consumers sharing one subscriber on a watermill router.
type ConsumerGroup struct {
	router     *message.Router
	subscriber message.Subscriber
	topics     []string
	logger     *zap.Logger
	done       chan struct{}
	runErr     error
}

// NewConsumerGroup creates a consumer group reading from subscriber.
func NewConsumerGroup(subscriber message.Subscriber, retry RetryPolicy, logger *zap.Logger) (*ConsumerGroup, error) {
	routerLogger := NewZapLogger(logger.Named("watermill"))

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: routerCloseTimeout}, routerLogger)
	if err != nil {
		return nil, fmt.Errorf("create router: %w", err)
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      retry.MaxRetries,
			InitialInterval: retry.InitialInterval,
			MaxInterval:     retry.MaxInterval,
			Multiplier:      2,
			Logger:          routerLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	return &ConsumerGroup{
		router:     router,
		subscriber: subscriber,
		logger:     logger,
	}, nil
}

// Add registers a consumer. Consumers must be added before Start.
func (g *ConsumerGroup) Add(consumer Consumer) {
	g.router.AddConsumerHandler(consumer.Topic()+".handler", consumer.Topic(), g.subscriber, consumer.Handle)
	g.topics = append(g.topics, consumer.Topic())
}

// Topics lists the topics of the registered consumers.
func (g *ConsumerGroup) Topics() []string {
	return g.topics
}

// Start subscribes every consumer and returns once they are all running.
// Cancelling ctx stops the group.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	if g.done != nil {
		return errAlreadyStarted
	}

	g.done = make(chan struct{})

	go func() {
		defer close(g.done)

		g.runErr = g.router.Run(ctx)
	}()

	select {
	case <-g.router.Running():
		g.logger.Info("consumer group started", zap.Strings("topics", g.topics))

		return nil
	case <-g.done:
		return fmt.Errorf("start consumers for %v: %w", g.topics, g.runErr)
	}
}

// Shutdown stops all consumers, waiting for in-flight messages, and closes the subscriber.
func (g *ConsumerGroup) Shutdown() error {
	g.logger.Info("shutting down consumer group")

	var err error

	if g.done != nil {
		err = g.router.Close()
		<-g.done
	}

	if closeErr := g.subscriber.Close(); err == nil {
		err = closeErr
	}

	return err
}
