package messagestream

import (
	"fmt"
	"time"

	"rental-service/config"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

type Amqp struct {
	config amqp.Config
	logger watermill.LoggerAdapter
}

func NewAmpq(cfg *config.MessageStreamConfig, logger watermill.LoggerAdapter) *Amqp {
	uri := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.Username, cfg.Password, cfg.Host, cfg.Port)
	return &Amqp{
		config: amqp.NewDurableQueueConfig(uri),
		logger: logger,
	}
}

func (a *Amqp) NewSubscriber() (message.Subscriber, error) {
	return amqp.NewSubscriber(a.config, a.logger)
}

func (a *Amqp) NewPublisher() (message.Publisher, error) {
	return amqp.NewPublisher(a.config, a.logger)
}

func (a *Amqp) Logger() watermill.LoggerAdapter {
	return a.logger
}

// NewRouter consumes topic with handlerFunc. Messages that still fail after retries go to poisonTopic.
func NewRouter(
	publisher message.Publisher,
	poisonTopic string,
	handlerName string,
	topic string,
	subscriber message.Subscriber,
	logger watermill.LoggerAdapter,
	handlerFunc func(msg *message.Message) error,
) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating router: %w", err)
	}

	poisonQueue, err := middleware.PoisonQueue(publisher, poisonTopic)
	if err != nil {
		return nil, fmt.Errorf("creating poison queue middleware: %w", err)
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		poisonQueue,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: time.Millisecond * 500,
			MaxInterval:     time.Second * 5,
			Multiplier:      2,
			Logger:          logger,
		}.Middleware,
		middleware.Recoverer,
	)

	router.AddNoPublisherHandler(handlerName, topic, subscriber, handlerFunc)

	return router, nil
}
