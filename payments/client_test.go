package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	c := NewClient("http://gateway.local", "key", "topsecret")

	sig := Sign("topsecret", "order_1", "pay_1")
	assert.True(t, c.VerifySignature("order_1", "pay_1", sig))

	assert.False(t, c.VerifySignature("order_1", "pay_1", "tampered"))
	assert.False(t, c.VerifySignature("order_2", "pay_1", sig))
	assert.False(t, c.VerifySignature("order_1", "pay_2", sig))

	other := NewClient("http://gateway.local", "key", "othersecret")
	assert.False(t, other.VerifySignature("order_1", "pay_1", sig))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "topsecret", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 50000.0, body["amount"]) // 500.00 in smallest unit
		assert.Equal(t, "INR", body["currency"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_abc",
			Amount:   50000,
			Currency: "INR",
			Receipt:  body["receipt"].(string),
			Status:   "created",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "topsecret")
	order, err := c.CreateOrder(context.Background(), 500, "INR", "APT-ABC123")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, "APT-ABC123", order.Receipt)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "topsecret")
	_, err := c.CreateOrder(context.Background(), 500, "INR", "APT-ABC123")
	assert.Error(t, err)
}

func TestRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/pay_9/refund", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "topsecret")
	assert.NoError(t, c.Refund(context.Background(), "pay_9", 450))
}
