package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subscription mirrors a payment-gateway subscription for an account.
type Subscription struct {
	ID                string
	PriceID           string
	AccountKey        uuid.UUID
	Status            string
	CancelAtPeriodEnd bool
	Currency          string
	Interval          string
	IntervalCount     int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CustomerSubscription links a gateway customer to a subscription.
type CustomerSubscription struct {
	CustomerID     string
	AccountKey     uuid.UUID
	SubscriptionID string
	CreatedAt      time.Time
}

// SubscriptionStore defines persistence operations for subscriptions updated
// from payment webhooks.
type SubscriptionStore interface {
	Upsert(ctx context.Context, sub Subscription) error
	UpdateStatus(ctx context.Context, subscriptionID, status string, cancelAtPeriodEnd bool) error
	LinkCustomer(ctx context.Context, link CustomerSubscription) error
	GetByAccountKey(ctx context.Context, key uuid.UUID) ([]Subscription, error)
}
