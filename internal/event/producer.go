// Package event publishes cart lifecycle events to the message broker for
// downstream consumers (analytics, inventory, notifications).
package event

import (
	"context"
	"fmt"

	"github.com/agrios/cartedge/internal/domain"
	"github.com/agrios/cartedge/pkg/kafka"
	"github.com/agrios/cartedge/pkg/logger"
)

const (
	source = "cartedge"

	// TopicCartUpdated receives an event after every successful cart mutation.
	TopicCartUpdated = "agrios.cart.updated"

	// TopicCheckoutCompleted receives an event for every completed checkout.
	TopicCheckoutCompleted = "agrios.checkout.completed"

	EventTypeCartUpdated       = "cart.updated"
	EventTypeCheckoutCompleted = "checkout.completed"
)

// CartUpdatedData is the payload of a cart.updated event.
type CartUpdatedData struct {
	UserID   string `json:"user_id"`
	Items    int    `json:"items"`
	Subtotal int64  `json:"subtotal"`
}

// CheckoutCompletedData is the payload of a checkout.completed event.
type CheckoutCompletedData struct {
	OrderID       string   `json:"order_id"`
	UserID        string   `json:"user_id"`
	Total         int64    `json:"total"`
	Items         int      `json:"items"`
	ClearFailures []string `json:"clear_failures,omitempty"`
}

// Producer publishes cart edge events through the shared Kafka producer.
type Producer struct {
	producer *kafka.Producer
}

func NewProducer(producer *kafka.Producer) *Producer {
	return &Producer{producer: producer}
}

// PublishCartUpdated emits a cart.updated event keyed by user ID.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		UserID:   cart.UserID,
		Items:    cart.ItemCount(),
		Subtotal: cart.Subtotal(),
	}

	evt, err := kafka.NewEvent(EventTypeCartUpdated, cart.UserID, "cart", source, data)
	if err != nil {
		return fmt.Errorf("create cart updated event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	return p.producer.Publish(ctx, TopicCartUpdated, evt)
}

// PublishCheckoutCompleted emits a checkout.completed event keyed by order ID.
func (p *Producer) PublishCheckoutCompleted(ctx context.Context, order domain.Order) error {
	data := CheckoutCompletedData{
		OrderID:       order.ID,
		UserID:        order.UserID,
		Total:         order.Total,
		Items:         len(order.Items),
		ClearFailures: order.ClearFailures,
	}

	evt, err := kafka.NewEvent(EventTypeCheckoutCompleted, order.ID, "order", source, data)
	if err != nil {
		return fmt.Errorf("create checkout completed event: %w", err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	return p.producer.Publish(ctx, TopicCheckoutCompleted, evt)
}
