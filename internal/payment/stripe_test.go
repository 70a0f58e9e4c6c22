package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mayank-anckr/express-kit/internal/mocks"
	"github.com/mayank-anckr/express-kit/internal/model"
	"github.com/mayank-anckr/express-kit/internal/testutil"
)

const stripeTestSecret = "whsec_test_secret"

// signStripePayload builds a Stripe-Signature header for the payload.
func signStripePayload(t *testing.T, payload []byte) string {
	t.Helper()
	timestamp := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(stripeTestSecret))
	fmt.Fprintf(mac, "%d.%s", timestamp, payload)
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func TestStripe_HandleEvent_InvalidSignature(t *testing.T) {
	s := NewStripe(stripeTestSecret, &mocks.SubscriptionStore{}, testutil.MakeNoopLogger())

	payload := []byte(`{"type":"charge.succeeded"}`)
	err := s.HandleEvent(context.Background(), payload, "t=1,v1=deadbeef")
	require.Error(t, err)
	assert.Equal(t, model.KindUnauthorized, model.KindOf(err))
}

func TestStripe_HandleEvent_SubscriptionUpdated(t *testing.T) {
	subscriptions := &mocks.SubscriptionStore{}
	subscriptions.On("UpdateStatus", mock.Anything, "sub_123", "past_due", true).Return(nil)

	s := NewStripe(stripeTestSecret, subscriptions, testutil.MakeNoopLogger())

	payload := []byte(`{
		"id": "evt_1",
		"type": "customer.subscription.updated",
		"data": {
			"object": {
				"id": "sub_123",
				"status": "past_due",
				"cancel_at_period_end": true
			}
		}
	}`)

	err := s.HandleEvent(context.Background(), payload, signStripePayload(t, payload))
	require.NoError(t, err)
	subscriptions.AssertExpectations(t)
}

func TestStripe_HandleEvent_SubscriptionDeleted(t *testing.T) {
	subscriptions := &mocks.SubscriptionStore{}
	subscriptions.On("UpdateStatus", mock.Anything, "sub_123", "canceled", false).Return(nil)

	s := NewStripe(stripeTestSecret, subscriptions, testutil.MakeNoopLogger())

	payload := []byte(`{
		"id": "evt_2",
		"type": "customer.subscription.deleted",
		"data": {
			"object": {
				"id": "sub_123",
				"status": "canceled"
			}
		}
	}`)

	err := s.HandleEvent(context.Background(), payload, signStripePayload(t, payload))
	require.NoError(t, err)
	subscriptions.AssertExpectations(t)
}

func TestStripe_HandleEvent_SubscriptionCreated(t *testing.T) {
	accountKey := "4f9c76ae-11a2-4f59-bd2e-6f4a4c9d9f01"
	subscriptions := &mocks.SubscriptionStore{}
	subscriptions.On("Upsert", mock.Anything, mock.MatchedBy(func(sub model.Subscription) bool {
		return sub.ID == "sub_new" &&
			sub.AccountKey.String() == accountKey &&
			sub.Status == "active" &&
			sub.PriceID == "price_1" &&
			sub.Interval == "month"
	})).Return(nil)
	subscriptions.On("LinkCustomer", mock.Anything, mock.MatchedBy(func(link model.CustomerSubscription) bool {
		return link.CustomerID == "cus_1" && link.SubscriptionID == "sub_new"
	})).Return(nil)

	s := NewStripe(stripeTestSecret, subscriptions, testutil.MakeNoopLogger())

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_3",
		"type": "customer.subscription.created",
		"data": {
			"object": {
				"id": "sub_new",
				"status": "active",
				"currency": "usd",
				"customer": {"id": "cus_1"},
				"metadata": {"account_key": %q},
				"items": {
					"data": [
						{"price": {"id": "price_1", "recurring": {"interval": "month", "interval_count": 1}}}
					]
				}
			}
		}
	}`, accountKey))

	err := s.HandleEvent(context.Background(), payload, signStripePayload(t, payload))
	require.NoError(t, err)
	subscriptions.AssertExpectations(t)
}

func TestStripe_HandleEvent_UnhandledType(t *testing.T) {
	s := NewStripe(stripeTestSecret, &mocks.SubscriptionStore{}, testutil.MakeNoopLogger())

	payload := []byte(`{"id": "evt_4", "type": "invoice.finalized", "data": {"object": {}}}`)
	err := s.HandleEvent(context.Background(), payload, signStripePayload(t, payload))
	require.NoError(t, err)
}
