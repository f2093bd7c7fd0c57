// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

/*
Package cart implements the shopping cart domain.

A cart is the set of (product, quantity) pairs a user intends to buy. It is
the sole input to checkout: the pipeline reads the cart, never an ad-hoc list
of products from the client.

# Invariants

  - A cart row always has quantity >= 1; setting a quantity to zero deletes
    the row instead of storing it.
  - Cart lines referencing deleted products never surface to the client.
*/
package cart

import (
	"time"

	"github.com/cartly/cartly/internal/catalog"
)

// # Domain Entities

// Item is a single cart row as stored.
type Item struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Line is a cart row joined with its live product data, ready for display
// and for checkout total computation.
type Line struct {
	catalog.Product
	Quantity int `json:"quantity"`
}

// SubtotalCents returns the line price (unit price times quantity).
func (line Line) SubtotalCents() int64 {
	return line.PriceCents * int64(line.Quantity)
}

// # Field Identifiers

const (
	FieldProductID = "product_id"
	FieldQuantity  = "quantity"
)
