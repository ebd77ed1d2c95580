package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	// HMAC-SHA256("s", "A|B"), computed independently.
	const expected = "65c25be3df05316e1b512d06d8efce60e7d701212f18fc77d289ac68768da771"

	assert.True(t, VerifySignature("s", "A", "B", expected))
	assert.False(t, VerifySignature("s", "A", "B", "deadbeef"))
	assert.False(t, VerifySignature("s", "A", "B", ""))
	assert.False(t, VerifySignature("wrong", "A", "B", expected))
	assert.False(t, VerifySignature("s", "B", "A", expected))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "key_id", user)
		require.Equal(t, "key_secret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(26000), body["amount"])
		require.Equal(t, "INR", body["currency"])

		json.NewEncoder(w).Encode(GatewayOrder{
			ID:       "order_abc123",
			Amount:   26000,
			Currency: "INR",
			Receipt:  body["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := NewClient("key_id", "key_secret", srv.URL)
	gwOrder, err := client.CreateOrder(26000, "INR", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc123", gwOrder.ID)
	assert.Equal(t, int64(26000), gwOrder.Amount)
	assert.Equal(t, "INR", gwOrder.Currency)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount is invalid"}}`))
	}))
	defer srv.Close()

	client := NewClient("key_id", "key_secret", srv.URL)
	_, err := client.CreateOrder(-1, "INR", "ref-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount is invalid")
}

func TestCreateOrderUnreachable(t *testing.T) {
	client := NewClient("key_id", "key_secret", "http://127.0.0.1:1")
	_, err := client.CreateOrder(100, "INR", "ref-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach payment gateway")
}
