// Package payment holds the payment-gateway bridges: Stripe webhook handling
// and PhonePe payment initiation/callback verification.
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mayank-anckr/express-kit/internal/logger"
)

// PhonePe initiates payments against the PhonePe gateway and verifies its
// callback checksums.
type PhonePe struct {
	merchantID  string
	secretKey   string
	baseURL     string
	redirectURL string
	callbackURL string
	client      *http.Client
	logger      *logger.Logger
}

func NewPhonePe(merchantID, secretKey, baseURL, redirectURL, callbackURL string, logger *logger.Logger) *PhonePe {
	return &PhonePe{
		merchantID:  merchantID,
		secretKey:   secretKey,
		baseURL:     baseURL,
		redirectURL: redirectURL,
		callbackURL: callbackURL,
		client:      &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
	}
}

// Checksum computes the hex HMAC-SHA256 of body under secretKey.
func Checksum(body []byte, secretKey string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

type initiateRequest struct {
	MerchantID    string `json:"merchantId"`
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
	RedirectURL   string `json:"redirectUrl"`
	CallbackURL   string `json:"callbackUrl"`
}

// Initiate starts a payment for the given amount (in currency units; the
// gateway receives paise) and returns the gateway response body.
func (p *PhonePe) Initiate(ctx context.Context, amount int64) (json.RawMessage, error) {
	body, err := json.Marshal(initiateRequest{
		MerchantID:    p.merchantID,
		TransactionID: uuid.NewString(),
		Amount:        amount * 100,
		RedirectURL:   p.redirectURL,
		CallbackURL:   p.callbackURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-VERIFY", Checksum(body, p.secretKey)+"###"+p.secretKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment initiation failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		p.logger.Error("PhonePe: gateway rejected payment initiation",
			"status", resp.StatusCode)
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	return respBody, nil
}

// VerifyCallback reports whether the X-VERIFY header matches the callback
// body. The header format is "{checksum}###{suffix}".
func (p *PhonePe) VerifyCallback(body []byte, xVerify string) bool {
	received, _, _ := strings.Cut(xVerify, "###")
	expected := Checksum(body, p.secretKey)
	return subtle.ConstantTimeCompare([]byte(received), []byte(expected)) == 1
}
