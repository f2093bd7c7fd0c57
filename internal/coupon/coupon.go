// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

/*
Package coupon implements the per-user discount coupon engine.

Coupons are personal and single-use: each coupon belongs to exactly one user,
and a completed checkout that applied it deactivates it permanently. Gift
coupons are issued automatically by the checkout pipeline when a checkout's
discounted total lands at or below the gift threshold.
*/
package coupon

import (
	"crypto/rand"
	"fmt"
	"time"
)

// # Domain Entities

// Coupon is a personal percentage discount.
type Coupon struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Code               string    `json:"code"`
	DiscountPercentage int       `json:"discount_percentage"`
	ExpirationDate     time.Time `json:"expiration_date"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

// IsExpired reports whether the coupon's expiration date has passed.
func (c *Coupon) IsExpired(now time.Time) bool {
	return now.After(c.ExpirationDate)
}

// # Gift Coupon Parameters

const (
	// GiftCodePrefix starts every automatically issued gift coupon code.
	GiftCodePrefix = "GIFT"

	// GiftCodeSuffixLength is the number of random characters after the prefix.
	GiftCodeSuffixLength = 6

	// GiftDiscountPercentage is the discount granted on qualifying orders.
	GiftDiscountPercentage = 10

	// GiftValidity is how long a gift coupon remains redeemable.
	GiftValidity = 30 * 24 * time.Hour
)

// giftCodeAlphabet excludes ambiguous characters (0/O, 1/I) since gift codes
// are read and typed by humans.
const giftCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewGiftCode generates a fresh gift coupon code, e.g. "GIFTX7K2QP".
func NewGiftCode() (string, error) {
	buffer := make([]byte, GiftCodeSuffixLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("coupon_gift_code_failed: %w", err)
	}

	for index, value := range buffer {
		buffer[index] = giftCodeAlphabet[int(value)%len(giftCodeAlphabet)]
	}

	return GiftCodePrefix + string(buffer), nil
}

// # Field Identifiers

const (
	FieldCode = "code"
)
