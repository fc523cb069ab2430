package notifier

import (
	"context"
	"fmt"

	"rental-service/internal/pkg/log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/goccy/go-json"
)

const Topic = "notification"

type Template string

const (
	TemplateWelcome             Template = "welcome"
	TemplateAccountUpgraded     Template = "account_upgraded"
	TemplateBookingConfirmation Template = "booking_confirmation"
	TemplatePaymentConfirmation Template = "payment_confirmation"
)

// Notifier delivers templated messages to the external notification service.
type Notifier interface {
	Send(ctx context.Context, to string, template Template, data map[string]any) error
}

type Notification struct {
	To       string         `json:"to"`
	Template Template       `json:"template"`
	Data     map[string]any `json:"data"`
}

type publisherNotifier struct {
	publisher message.Publisher
	log       log.Logger
}

func New(publisher message.Publisher, log log.Logger) Notifier {
	return &publisherNotifier{publisher: publisher, log: log}
}

func (n *publisherNotifier) Send(ctx context.Context, to string, template Template, data map[string]any) error {
	payload, err := json.Marshal(Notification{To: to, Template: template, Data: data})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if id := log.CorrelationID(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}

	if err := n.publisher.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	n.log.Debug(ctx, fmt.Sprintf("notification %s queued", template))
	return nil
}

// SendBestEffort sends and only logs failures. Callers use it where delivery must not affect state.
func SendBestEffort(ctx context.Context, n Notifier, l log.Logger, to string, template Template, data map[string]any) {
	if n == nil || to == "" {
		return
	}
	if err := n.Send(ctx, to, template, data); err != nil {
		l.Error(ctx, fmt.Sprintf("error send %s notification to %s", template, to), err)
	}
}
