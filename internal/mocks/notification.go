package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mayank-anckr/express-kit/internal/model"
)

// NotificationQueue is a mock of model.NotificationQueue.
type NotificationQueue struct {
	mock.Mock
}

func (m *NotificationQueue) EnqueueEmail(msg model.EmailMessage) {
	m.Called(msg)
}

func (m *NotificationQueue) EnqueuePush(msg model.PushMessage) {
	m.Called(msg)
}

// EmailSender is a mock of model.EmailSender.
type EmailSender struct {
	mock.Mock
}

func (m *EmailSender) SendEmail(ctx context.Context, msg model.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// PushSender is a mock of model.PushSender.
type PushSender struct {
	mock.Mock
}

func (m *PushSender) SendPush(ctx context.Context, msg model.PushMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
