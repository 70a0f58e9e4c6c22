package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mayank-anckr/express-kit/internal/model"
)

var _ model.SubscriptionStore = (*SubscriptionRepository)(nil)

type SubscriptionRepository struct {
	db *Connection
}

func NewSubscriptionRepository(db *Connection) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Upsert(ctx context.Context, sub model.Subscription) error {
	const query = `
		INSERT INTO subscriptions (id, price_id, account_key, status, cancel_at_period_end, currency, interval, interval_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			price_id = EXCLUDED.price_id,
			status = EXCLUDED.status,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			currency = EXCLUDED.currency,
			interval = EXCLUDED.interval,
			interval_count = EXCLUDED.interval_count,
			updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query,
		sub.ID, sub.PriceID, sub.AccountKey, sub.Status, sub.CancelAtPeriodEnd,
		sub.Currency, sub.Interval, sub.IntervalCount,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, subscriptionID, status string, cancelAtPeriodEnd bool) error {
	const query = `UPDATE subscriptions SET status = $2, cancel_at_period_end = $3, updated_at = NOW()
				   WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, subscriptionID, status, cancelAtPeriodEnd)
	if err != nil {
		return fmt.Errorf("failed to update subscription status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SubscriptionRepository) LinkCustomer(ctx context.Context, link model.CustomerSubscription) error {
	const query = `
		INSERT INTO customer_subscriptions (customer_id, account_key, subscription_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (customer_id, subscription_id) DO NOTHING
	`

	_, err := r.db.Exec(ctx, query, link.CustomerID, link.AccountKey, link.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to link customer subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetByAccountKey(ctx context.Context, key uuid.UUID) ([]model.Subscription, error) {
	const query = `
		SELECT id, price_id, account_key, status, cancel_at_period_end, currency, interval, interval_count, created_at, updated_at
		FROM subscriptions WHERE account_key = $1 ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions by account key: %w", err)
	}
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		var s model.Subscription
		err := rows.Scan(
			&s.ID, &s.PriceID, &s.AccountKey, &s.Status, &s.CancelAtPeriodEnd,
			&s.Currency, &s.Interval, &s.IntervalCount, &s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription row: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscription rows: %w", err)
	}

	return subs, nil
}
