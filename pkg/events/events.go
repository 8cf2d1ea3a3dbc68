package events

import (
	"context"
	"errors"
	"time"
)

const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
	PaymentSucceeded   = "payment.succeeded"
	ReviewSubmitted    = "review.submitted"
	ReviewUpdated      = "review.updated"
	ReviewDeleted      = "review.deleted"
)

// Event is published after the transaction that produced it has committed.
type Event struct {
	Type              string    `json:"type"`
	OrderID           uint      `json:"order_id"`
	CustomerID        uint      `json:"customer_id,omitempty"`
	RestaurantID      uint      `json:"restaurant_id,omitempty"`
	DeliveryPartnerID *uint     `json:"delivery_partner_id,omitempty"`
	Status            string    `json:"status,omitempty"`
	PaymentStatus     string    `json:"payment_status,omitempty"`
	OccurredAt        time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
