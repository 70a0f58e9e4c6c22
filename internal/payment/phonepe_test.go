package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayank-anckr/express-kit/internal/testutil"
)

func TestChecksum(t *testing.T) {
	body := []byte(`{"merchantId":"M1"}`)
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, Checksum(body, "secret"))
	assert.NotEqual(t, expected, Checksum(body, "other"))
}

func TestPhonePe_Initiate(t *testing.T) {
	var gotVerify string
	var gotBody initiateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVerify = r.Header.Get("X-VERIFY")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	p := NewPhonePe("M1", "secret", srv.URL, "https://redirect", "https://callback", testutil.MakeNoopLogger())

	resp, err := p.Initiate(context.Background(), 42)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(resp))

	assert.Equal(t, "M1", gotBody.MerchantID)
	assert.NotEmpty(t, gotBody.TransactionID)
	assert.Equal(t, int64(4200), gotBody.Amount)
	assert.Equal(t, "https://redirect", gotBody.RedirectURL)
	assert.Equal(t, "https://callback", gotBody.CallbackURL)

	raw, err := json.Marshal(gotBody)
	require.NoError(t, err)
	assert.Equal(t, Checksum(raw, "secret")+"###secret", gotVerify)
}

func TestPhonePe_Initiate_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewPhonePe("M1", "secret", srv.URL, "https://redirect", "https://callback", testutil.MakeNoopLogger())

	_, err := p.Initiate(context.Background(), 42)
	require.Error(t, err)
}

func TestPhonePe_VerifyCallback(t *testing.T) {
	p := NewPhonePe("M1", "secret", "", "", "", testutil.MakeNoopLogger())
	body := []byte(`{"transactionId":"t1","code":"PAYMENT_SUCCESS"}`)

	valid := Checksum(body, "secret") + "###secret"
	assert.True(t, p.VerifyCallback(body, valid))

	forged := Checksum(body, "wrong-key") + "###secret"
	assert.False(t, p.VerifyCallback(body, forged))

	assert.False(t, p.VerifyCallback(body, "garbage"))
	assert.False(t, p.VerifyCallback([]byte("tampered"), valid))
}
