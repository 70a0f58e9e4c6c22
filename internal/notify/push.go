package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mayank-anckr/express-kit/internal/model"
)

var _ model.PushSender = (*HTTPPushSender)(nil)

// HTTPPushSender posts notifications to an FCM-style HTTP endpoint addressed
// by device token.
type HTTPPushSender struct {
	endpoint  string
	serverKey string
	client    *http.Client
}

// NewHTTPPushSender creates a push sender for the given endpoint.
func NewHTTPPushSender(endpoint, serverKey string) *HTTPPushSender {
	return &HTTPPushSender{
		endpoint:  endpoint,
		serverKey: serverKey,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

type pushPayload struct {
	To           string           `json:"to"`
	Notification pushNotification `json:"notification"`
}

type pushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendPush delivers a single push notification.
func (s *HTTPPushSender) SendPush(ctx context.Context, msg model.PushMessage) error {
	body, err := json.Marshal(pushPayload{
		To: msg.Token,
		Notification: pushNotification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.serverKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
