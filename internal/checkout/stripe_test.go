// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package checkout_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartly/cartly/internal/checkout"
	"github.com/cartly/cartly/internal/platform/apperr"
)

func TestStripeGateway_CreateSession(t *testing.T) {
	var captured *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())
		captured = request

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"id": "cs_test_001",
			"url": "https://checkout.stripe.com/pay/cs_test_001",
			"payment_status": "unpaid",
			"amount_total": 3998,
			"metadata": {"user_id": "u1"}
		}`))
	}))
	defer server.Close()

	gateway := checkout.NewStripeGateway("sk_test_key").WithBaseURL(server.URL)

	session, err := gateway.CreateSession(context.Background(), checkout.SessionParams{
		LineItems: []checkout.GatewayLineItem{
			{Name: "Desk Lamp", Image: "https://img.cartly.sh/lamp.png", UnitAmountCents: 1999, Quantity: 2},
		},
		DiscountCouponID: "coupon_10_off",
		SuccessURL:       "https://shop.cartly.sh/purchase-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        "https://shop.cartly.sh/purchase-cancel",
		Metadata:         map[string]string{"user_id": "u1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_001", session.ID)
	assert.Equal(t, int64(3998), session.AmountTotal)
	assert.Equal(t, "u1", session.Metadata["user_id"])

	// Wire format checks: bracketed form keys, bearer auth
	require.NotNil(t, captured)
	assert.Equal(t, "Bearer sk_test_key", captured.Header.Get("Authorization"))
	assert.Equal(t, "payment", captured.PostForm.Get("mode"))
	assert.Equal(t, "2", captured.PostForm.Get("line_items[0][quantity]"))
	assert.Equal(t, "1999", captured.PostForm.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "usd", captured.PostForm.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "Desk Lamp", captured.PostForm.Get("line_items[0][price_data][product_data][name]"))
	assert.Equal(t, "coupon_10_off", captured.PostForm.Get("discounts[0][coupon]"))
	assert.Equal(t, "u1", captured.PostForm.Get("metadata[user_id]"))
}

func TestStripeGateway_CreateDiscount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, request.ParseForm())
		assert.Equal(t, "/v1/coupons", request.URL.Path)
		assert.Equal(t, "10", request.PostForm.Get("percent_off"))
		assert.Equal(t, "once", request.PostForm.Get("duration"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"id": "co_abc123"}`))
	}))
	defer server.Close()

	gateway := checkout.NewStripeGateway("sk_test_key").WithBaseURL(server.URL)

	couponID, err := gateway.CreateDiscount(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, "co_abc123", couponID)
}

func TestStripeGateway_ErrorMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusPaymentRequired)
		_, _ = writer.Write([]byte(`{"error": {"type": "card_error", "code": "card_declined", "message": "Your card was declined."}}`))
	}))
	defer server.Close()

	gateway := checkout.NewStripeGateway("sk_test_key").WithBaseURL(server.URL)

	_, err := gateway.RetrieveSession(context.Background(), "cs_test_001")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "GATEWAY_ERROR", ae.Code)

	// The provider's message stays server-side; the client sees a generic one
	assert.NotContains(t, ae.Message, "declined")
}

func TestStripeGateway_UnknownSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"error": {"type": "invalid_request_error", "message": "No such checkout.session"}}`))
	}))
	defer server.Close()

	gateway := checkout.NewStripeGateway("sk_test_key").WithBaseURL(server.URL)

	_, err := gateway.RetrieveSession(context.Background(), "cs_test_missing")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}
