package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
)

// Stripe verifies webhook signatures and applies subscription events to the
// store.
type Stripe struct {
	webhookSecret string
	subscriptions model.SubscriptionStore
	logger        *logger.Logger
}

func NewStripe(webhookSecret string, subscriptions model.SubscriptionStore, logger *logger.Logger) *Stripe {
	return &Stripe{
		webhookSecret: webhookSecret,
		subscriptions: subscriptions,
		logger:        logger,
	}
}

// HandleEvent verifies the payload signature and dispatches the event.
// An invalid signature returns model.KindUnauthorized.
func (s *Stripe) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		s.logger.Error("Stripe: webhook signature verification failed", "error", err)
		return model.NewUnauthorized("invalid webhook signature")
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		s.logger.Info("Stripe: checkout session completed",
			"session_id", session.ID, "customer", customerID(session.Customer))

	case "payment_intent.succeeded":
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return fmt.Errorf("failed to parse payment intent: %w", err)
		}
		s.logger.Info("Stripe: payment intent succeeded",
			"intent_id", intent.ID, "amount", intent.Amount)

	case "customer.subscription.created":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		if err := s.createSubscription(ctx, &sub); err != nil {
			return err
		}
		s.logger.Info("Stripe: subscription created",
			"subscription_id", sub.ID, "status", sub.Status)

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		if err := s.subscriptions.UpdateStatus(ctx, sub.ID, string(sub.Status), sub.CancelAtPeriodEnd); err != nil {
			return fmt.Errorf("failed to update subscription %q: %w", sub.ID, err)
		}
		s.logger.Info("Stripe: subscription updated",
			"subscription_id", sub.ID, "status", sub.Status)

	case "charge.succeeded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			return fmt.Errorf("failed to parse charge: %w", err)
		}
		s.logger.Info("Stripe: charge succeeded",
			"charge_id", charge.ID, "amount", charge.Amount)

	default:
		s.logger.Info("Stripe: unhandled event type", "type", event.Type)
	}

	return nil
}

// createSubscription records a new subscription and the customer link. The
// owning account key is carried in the subscription metadata.
func (s *Stripe) createSubscription(ctx context.Context, sub *stripe.Subscription) error {
	accountKey, err := uuid.Parse(sub.Metadata["account_key"])
	if err != nil {
		s.logger.Error("Stripe: subscription without account key metadata",
			"subscription_id", sub.ID)
		return fmt.Errorf("subscription %q has no valid account key: %w", sub.ID, err)
	}

	record := model.Subscription{
		ID:                sub.ID,
		AccountKey:        accountKey,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		Currency:          string(sub.Currency),
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		price := sub.Items.Data[0].Price
		record.PriceID = price.ID
		if price.Recurring != nil {
			record.Interval = string(price.Recurring.Interval)
			record.IntervalCount = price.Recurring.IntervalCount
		}
	}
	if err := s.subscriptions.Upsert(ctx, record); err != nil {
		return fmt.Errorf("failed to store subscription %q: %w", sub.ID, err)
	}

	if sub.Customer != nil {
		link := model.CustomerSubscription{
			CustomerID:     sub.Customer.ID,
			AccountKey:     accountKey,
			SubscriptionID: sub.ID,
		}
		if err := s.subscriptions.LinkCustomer(ctx, link); err != nil {
			return fmt.Errorf("failed to link customer for subscription %q: %w", sub.ID, err)
		}
	}

	return nil
}

func customerID(c *stripe.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}
