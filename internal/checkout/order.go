// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

/*
Package checkout implements the checkout-to-order pipeline.

It is the transactional core of the shop: a cart becomes a payment gateway
session, and a paid session becomes exactly one immutable order.

# Invariants

  - All amounts are integer cents end to end.
  - Order creation is idempotent on the gateway session ID; replaying a
    success callback can never duplicate an order.
  - Coupon consumption and order insertion commit atomically.
*/
package checkout

import "time"

// # Domain Entities

// Order is an immutable record of a completed purchase.
type Order struct {
	ID                string      `json:"id"`
	UserID            string      `json:"user_id"`
	TotalCents        int64       `json:"total_cents"`
	CheckoutSessionID string      `json:"checkout_session_id"`
	Items             []OrderItem `json:"items"`
	CreatedAt         time.Time   `json:"created_at"`
}

// OrderItem is a purchased line with its price frozen at purchase time.
//
// The unit price is a snapshot taken when the gateway session was created;
// later catalog price changes never alter a completed order.
type OrderItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

// # Pipeline Parameters

const (
	// GiftThresholdCents is the discounted order total at or below which a
	// gift coupon is issued for the next purchase.
	GiftThresholdCents int64 = 2000

	// paymentStatusPaid is the gateway status that permits order creation.
	paymentStatusPaid = "paid"
)

// # Field Identifiers

const (
	FieldCouponCode = "coupon_code"
	FieldSessionID  = "session_id"
)
