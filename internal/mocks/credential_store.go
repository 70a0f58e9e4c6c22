// Package mocks provides testify mocks for the model interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mayank-anckr/express-kit/internal/model"
)

// CredentialStore is a mock of model.CredentialStore.
type CredentialStore struct {
	mock.Mock
}

func (m *CredentialStore) GetByIdentity(ctx context.Context, identity string) (model.Credential, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(model.Credential), args.Error(1)
}

func (m *CredentialStore) GetByAccountKey(ctx context.Context, key uuid.UUID) (model.Credential, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(model.Credential), args.Error(1)
}

func (m *CredentialStore) Create(ctx context.Context, cred model.Credential) (model.Credential, error) {
	args := m.Called(ctx, cred)
	return args.Get(0).(model.Credential), args.Error(1)
}

func (m *CredentialStore) SetRefreshToken(ctx context.Context, key uuid.UUID, token string) error {
	args := m.Called(ctx, key, token)
	return args.Error(0)
}

func (m *CredentialStore) UpdateRefreshToken(ctx context.Context, key uuid.UUID, oldToken, newToken string) (bool, error) {
	args := m.Called(ctx, key, oldToken, newToken)
	return args.Bool(0), args.Error(1)
}

func (m *CredentialStore) UpdatePasswordHash(ctx context.Context, key uuid.UUID, hash []byte) error {
	args := m.Called(ctx, key, hash)
	return args.Error(0)
}

func (m *CredentialStore) Delete(ctx context.Context, key uuid.UUID) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *CredentialStore) ListAccounts(ctx context.Context) ([]model.AccountDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccountDetail), args.Error(1)
}
