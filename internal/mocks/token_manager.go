package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mayank-anckr/express-kit/internal/model"
)

// TokenManager is a mock of model.TokenManager.
type TokenManager struct {
	mock.Mock
}

func (m *TokenManager) GenerateAccessToken(identity string, accountKey uuid.UUID) (string, error) {
	args := m.Called(identity, accountKey)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) GenerateRefreshToken(identity string, accountKey uuid.UUID) (string, error) {
	args := m.Called(identity, accountKey)
	return args.String(0), args.Error(1)
}

func (m *TokenManager) Parse(token string, kind model.TokenKind) (model.TokenClaims, error) {
	args := m.Called(token, kind)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}
