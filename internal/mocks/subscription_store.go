package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mayank-anckr/express-kit/internal/model"
)

// SubscriptionStore is a mock of model.SubscriptionStore.
type SubscriptionStore struct {
	mock.Mock
}

func (m *SubscriptionStore) Upsert(ctx context.Context, sub model.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *SubscriptionStore) UpdateStatus(ctx context.Context, subscriptionID, status string, cancelAtPeriodEnd bool) error {
	args := m.Called(ctx, subscriptionID, status, cancelAtPeriodEnd)
	return args.Error(0)
}

func (m *SubscriptionStore) LinkCustomer(ctx context.Context, link model.CustomerSubscription) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *SubscriptionStore) GetByAccountKey(ctx context.Context, key uuid.UUID) ([]model.Subscription, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subscription), args.Error(1)
}
