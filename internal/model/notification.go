package model

import "context"

// EmailMessage is an outbound email. HTML is optional.
type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// PushMessage is an outbound push notification addressed by device token.
type PushMessage struct {
	Token string
	Title string
	Body  string
}

// EmailSender delivers a single email synchronously.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// PushSender delivers a single push notification synchronously.
type PushSender interface {
	SendPush(ctx context.Context, msg PushMessage) error
}

// NotificationQueue accepts notifications for best-effort background delivery.
// Enqueue methods never block and never report delivery failures to the
// caller; failures are logged by the dispatcher.
type NotificationQueue interface {
	EnqueueEmail(msg EmailMessage)
	EnqueuePush(msg PushMessage)
}
