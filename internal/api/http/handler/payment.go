package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
)

// StripeService verifies and applies Stripe webhook events.
type StripeService interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

// PhonePeService initiates payments and verifies gateway callbacks.
type PhonePeService interface {
	Initiate(ctx context.Context, amount int64) (json.RawMessage, error)
	VerifyCallback(body []byte, xVerify string) bool
}

// Payment handles the payment gateway endpoints.
type Payment struct {
	stripe  StripeService
	phonepe PhonePeService
	logger  *logger.Logger
}

// NewPayment creates a new Payment handler.
func NewPayment(stripe StripeService, phonepe PhonePeService, logger *logger.Logger) *Payment {
	return &Payment{stripe: stripe, phonepe: phonepe, logger: logger}
}

// StripeWebhook verifies the event signature and applies the event.
func (h *Payment) StripeWebhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		handleError(c, model.NewInvalidInput("missing Stripe-Signature header"))
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		handleError(c, fmt.Errorf("failed to read webhook payload: %w", err))
		return
	}

	if err := h.stripe.HandleEvent(c.Request.Context(), payload, signature); err != nil {
		h.logger.Error("Payment handler: stripe webhook failed", "error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "Webhook processed", nil)
}

type payRequest struct {
	Amount int64 `json:"amount"`
}

// Pay initiates a payment with the gateway.
func (h *Payment) Pay(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewInvalidInput("invalid request body"))
		return
	}
	if req.Amount <= 0 {
		handleError(c, model.NewInvalidInput("amount must be positive"))
		return
	}

	resp, err := h.phonepe.Initiate(c.Request.Context(), req.Amount)
	if err != nil {
		h.logger.Error("Payment handler: payment initiation failed", "error", err.Error())
		handleError(c, err)
		return
	}

	success(c, http.StatusOK, "Payment initiated", resp)
}

// Callback verifies the gateway callback checksum.
func (h *Payment) Callback(c *gin.Context) {
	xVerify := c.GetHeader("X-VERIFY")
	if xVerify == "" {
		handleError(c, model.NewInvalidInput("missing X-VERIFY header"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		handleError(c, fmt.Errorf("failed to read callback payload: %w", err))
		return
	}

	if !h.phonepe.VerifyCallback(body, xVerify) {
		h.logger.Error("Payment handler: callback checksum mismatch")
		handleError(c, model.NewUnauthorized("invalid callback checksum"))
		return
	}

	h.logger.Info("Payment handler: gateway callback verified")
	success(c, http.StatusOK, "Callback processed", nil)
}
