// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package catalog

import (
	"context"
	"fmt"

	"github.com/cartly/cartly/internal/platform/constants"
	"github.com/cartly/cartly/internal/platform/ctxutil"
	"github.com/cartly/cartly/pkg/slug"
	"github.com/cartly/cartly/pkg/uuid"
)

// # Definitions & Constructors

// Service implements catalog use cases.
type Service struct {
	productRepository ProductRepository
	featuredCache     FeaturedCache
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(productRepo ProductRepository, cache FeaturedCache) *Service {
	return &Service{
		productRepository: productRepo,
		featuredCache:     cache,
	}
}

// # Browsing

/*
List returns the complete inventory, newest first.

Description: Administrative listing used by the back-office inventory screen.

Parameters:
  - context: context.Context

Returns:
  - []Product: Full inventory
  - err: Storage failures
*/
func (service *Service) List(context context.Context) ([]Product, error) {
	products, err := service.productRepository.List(context)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_list_failed: %w", err)
	}
	return products, nil
}

/*
Featured returns the curated featured-products list.

Description: Read-through cache. On a cache miss the list is loaded from
Postgres and stored in Redis with a bounded TTL. Cache failures degrade
to a direct database read; browsing must not break because Redis is down.

Parameters:
  - context: context.Context

Returns:
  - []Product: Featured products
  - err: Storage failures
*/
func (service *Service) Featured(context context.Context) ([]Product, error) {

	// ── 1. Cache Hit ──────────────────────────────────────────────────────
	if cached, err := service.featuredCache.Get(context); err == nil {
		return cached, nil
	}

	// ── 2. Cache Miss: load from source of truth ──────────────────────────
	products, err := service.productRepository.FindFeatured(context)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_featured_failed: %w", err)
	}

	// ── 3. Populate Cache ─────────────────────────────────────────────────
	if err := service.featuredCache.Set(context, products, constants.FeaturedCacheTTL); err != nil {
		ctxutil.GetLogger(context).Warn("featured cache population failed", "error", err)
	}

	return products, nil
}

/*
Recommendations returns a small random sample for the homepage carousel.

Description: The requested count is clamped to [1, MaxRecommendationCount];
out-of-range values fall back to the default rather than erroring, since the
carousel size is a presentation concern.

Parameters:
  - context: context.Context
  - count: int

Returns:
  - []Product: Up to count random products
  - err: Storage failures
*/
func (service *Service) Recommendations(context context.Context, count int) ([]Product, error) {
	if count < 1 {
		count = RecommendationCount
	}
	if count > MaxRecommendationCount {
		count = MaxRecommendationCount
	}

	products, err := service.productRepository.Random(context, count)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_recommendations_failed: %w", err)
	}
	return products, nil
}

/*
ByCategory returns products within a single merchandising category.

Parameters:
  - context: context.Context
  - category: Category

Returns:
  - []Product: Category subset, newest first
  - err: Storage failures
*/
func (service *Service) ByCategory(context context.Context, category Category) ([]Product, error) {
	products, err := service.productRepository.FindByCategory(context, category)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_by_category_failed: %w", err)
	}
	return products, nil
}

// # Administration

// CreateInput holds the data required to add a product to the catalog.
type CreateInput struct {
	Name        string
	PriceCents  int64
	Description string
	Category    Category
	Stock       int
	Image       string
}

/*
Create adds a new product to the catalog.

Description: Generates a URL-safe slug from the name and a time-sortable ID.
Negative stock is clamped to zero rather than rejected, matching how bulk
imports arrive from suppliers.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Product: Created entity
  - err: Conflict (duplicate slug) or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Product, error) {
	stock := input.Stock
	if stock < 0 {
		stock = 0
	}

	product := &Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		PriceCents:  input.PriceCents,
		Description: input.Description,
		Category:    input.Category,
		Stock:       stock,
		Image:       input.Image,
	}

	if err := service.productRepository.Create(context, product); err != nil {
		return nil, fmt.Errorf("catalog_service_create_failed: %w", err)
	}

	return product, nil
}

/*
ToggleFeatured flips the featured flag on a product.

Description: The cached featured list is invalidated so the change is visible
on the next read rather than after TTL expiry.

Parameters:
  - context: context.Context
  - productID: string

Returns:
  - *Product: Updated entity
  - err: NotFound or storage failures
*/
func (service *Service) ToggleFeatured(context context.Context, productID string) (*Product, error) {
	product, err := service.productRepository.FindByID(context, productID)
	if err != nil {
		return nil, err
	}

	updated, err := service.productRepository.SetFeatured(context, productID, !product.IsFeatured)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_toggle_featured_failed: %w", err)
	}

	if err := service.featuredCache.Invalidate(context); err != nil {
		ctxutil.GetLogger(context).Warn("featured cache invalidation failed", "error", err)
	}

	return updated, nil
}

/*
Delete permanently removes a product from the catalog.

Description: Cart rows referencing the product are removed by the storage
layer; historical order lines keep their price snapshots and are unaffected.

Parameters:
  - context: context.Context
  - productID: string

Returns:
  - err: NotFound or storage failures
*/
func (service *Service) Delete(context context.Context, productID string) error {
	if err := service.productRepository.Delete(context, productID); err != nil {
		return err
	}

	if err := service.featuredCache.Invalidate(context); err != nil {
		ctxutil.GetLogger(context).Warn("featured cache invalidation failed", "error", err)
	}

	return nil
}
