// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package catalog

import (
	"context"
	"time"
)

// # Product Data Access

// ProductRepository defines the data access contract for catalog products.
type ProductRepository interface {

	/*
		List returns every product, newest first.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Product: Full inventory
		  - error: Database retrieval failures
	*/
	List(context context.Context) ([]Product, error)

	/*
		FindByID returns the product with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Product: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Product, error)

	/*
		FindFeatured returns every product currently flagged as featured.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Product: Featured subset
		  - error: Retrieval failures
	*/
	FindFeatured(context context.Context) ([]Product, error)

	/*
		FindByCategory returns products in the given category, newest first.

		Parameters:
		  - context: context.Context
		  - category: Category

		Returns:
		  - []Product: Category subset
		  - error: Retrieval failures
	*/
	FindByCategory(context context.Context, category Category) ([]Product, error)

	/*
		Random returns up to count products sampled at random.

		Parameters:
		  - context: context.Context
		  - count: int

		Returns:
		  - []Product: Random sample
		  - error: Retrieval failures
	*/
	Random(context context.Context, count int) ([]Product, error)

	/*
		Create persists a brand-new product.

		Parameters:
		  - context: context.Context
		  - product: *Product

		Returns:
		  - error: Constraint violations or persistence failures
	*/
	Create(context context.Context, product *Product) error

	/*
		SetFeatured updates the featured flag and returns the updated entity.

		Parameters:
		  - context: context.Context
		  - id: string
		  - featured: bool

		Returns:
		  - *Product: Updated entity
		  - error: apperr.NotFound or persistence failures
	*/
	SetFeatured(context context.Context, id string, featured bool) (*Product, error)

	/*
		Delete permanently removes a product from the catalog.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, id string) error
}

// # Volatile Data Access

// FeaturedCache defines the contract for the featured-products read-through cache.
type FeaturedCache interface {

	/*
		Get returns the cached featured list.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Product: Cached snapshot
		  - error: apperr.NotFound on a cache miss, or retrieval failures
	*/
	Get(context context.Context) ([]Product, error)

	/*
		Set stores a featured list snapshot with a TTL.

		Parameters:
		  - context: context.Context
		  - products: []Product
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, products []Product, ttl time.Duration) error

	/*
		Invalidate drops the cached snapshot after a catalog mutation.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Deletion failures
	*/
	Invalidate(context context.Context) error
}
