package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mayank-anckr/express-kit/internal/model"
)

// ProfileStore is a mock of model.ProfileStore.
type ProfileStore struct {
	mock.Mock
}

func (m *ProfileStore) GetByAccountKey(ctx context.Context, key uuid.UUID) (model.Profile, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) GetAll(ctx context.Context) ([]model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Profile), args.Error(1)
}

func (m *ProfileStore) Create(ctx context.Context, profile model.Profile) (model.Profile, error) {
	args := m.Called(ctx, profile)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileStore) Update(ctx context.Context, profile model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *ProfileStore) UpdateImage(ctx context.Context, key uuid.UUID, image string) error {
	args := m.Called(ctx, key, image)
	return args.Error(0)
}

func (m *ProfileStore) Delete(ctx context.Context, key uuid.UUID) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
