package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/loja/pkg/logging"
)

const (
	TopicUserEvents    = "user_events"
	TopicProductEvents = "product_events"
	TopicCartEvents    = "cart_events"
	TopicPaymentEvents = "payment_events"
)

// Topics lists every topic the services publish to.
var Topics = []string{TopicUserEvents, TopicProductEvents, TopicCartEvents, TopicPaymentEvents}

type UserEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"userID"`
	Email  string    `json:"email,omitempty"`
	Role   string    `json:"role,omitempty"`
	At     time.Time `json:"at"`
}

type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID string    `json:"productID"`
	Name      string    `json:"name,omitempty"`
	Price     float64   `json:"price,omitempty"`
	At        time.Time `json:"at"`
}

type CartEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userID"`
	ProductID string    `json:"productID,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	Total     float64   `json:"total"`
	At        time.Time `json:"at"`
}

type PaymentEvent struct {
	Type     string    `json:"type"`
	UserID   string    `json:"userID"`
	IntentID string    `json:"intentID"`
	Amount   int64     `json:"amount"`
	Currency string    `json:"currency"`
	At       time.Time `json:"at"`
}

// publish sends an event after a successful write. Failures are logged and
// swallowed: the write already happened.
func publish(ctx context.Context, p EventPublisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "key", key, "error", err)
	}
}

func nowUTC(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
