// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

/*
Package catalog implements the product catalog domain.

It defines the Product entity and the logic for browsing, curation (featured
products), and administrative management of the shop inventory.

# Architecture

  - Service: Orchestrates catalog use cases and the featured-products cache.
  - Repository: Abstracted interfaces for Postgres (products) and Redis (cache).
*/
package catalog

import "time"

// # Domain Entities

// Category is the merchandising group a product belongs to.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryFashion     Category = "fashion"
	CategoryBooks       Category = "books"
)

// IsValid reports whether the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryElectronics, CategoryFashion, CategoryBooks:
		return true
	}
	return false
}

// Product represents a sellable item in the Cartly shop.
//
// All monetary amounts are integer cents. Floating-point currency is never
// stored or computed anywhere in the pipeline.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	PriceCents  int64     `json:"price_cents"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image"`
	IsFeatured  bool      `json:"is_featured"`
	Sold        int       `json:"sold"`
	Reviews     int       `json:"reviews"`
	Rating      float64   `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation in the catalog domain.
const (
	FieldName        = "name"
	FieldPriceCents  = "price_cents"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldStock       = "stock"
	FieldImage       = "image"
	FieldProductID   = "product_id"
)

// RecommendationCount is how many random products the homepage carousel
// shows by default.
const RecommendationCount = 3

// MaxRecommendationCount bounds client-requested sample sizes.
const MaxRecommendationCount = 12
