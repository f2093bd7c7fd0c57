// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

// PostgreSQL implementation of the catalog storage contracts.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cartly/cartly/internal/platform/apperr"
	"github.com/cartly/cartly/internal/platform/dberr"
)

// # Product Repository

// PostgresProductRepository implements the ProductRepository interface using pgx.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PostgreSQL implementation of the ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

const productColumns = `
	id, name, slug, price_cents, description, category, stock,
	image, is_featured, sold, reviews, rating, created_at, updated_at`

/*
List returns every product, newest first.

Parameters:
  - context: context.Context

Returns:
  - []Product: Full inventory
  - error: Retrieval failures
*/
func (repository *PostgresProductRepository) List(context context.Context) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY created_at DESC"

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_list_failed: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

/*
FindByID returns the product with the given ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Product: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresProductRepository) FindByID(context context.Context, id string) (*Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"

	product := &Product{}
	err := scanProduct(repository.pool.QueryRow(context, query, id), product)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, fmt.Errorf("postgres_product_repo_find_by_id_failed: %w", err)
	}

	return product, nil
}

/*
FindFeatured returns every product currently flagged as featured.

Parameters:
  - context: context.Context

Returns:
  - []Product: Featured subset
  - error: Retrieval failures
*/
func (repository *PostgresProductRepository) FindFeatured(context context.Context) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE is_featured ORDER BY created_at DESC"

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_find_featured_failed: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

/*
FindByCategory returns products in the given category, newest first.

Parameters:
  - context: context.Context
  - category: Category

Returns:
  - []Product: Category subset
  - error: Retrieval failures
*/
func (repository *PostgresProductRepository) FindByCategory(context context.Context, category Category) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE category = $1 ORDER BY created_at DESC"

	rows, err := repository.pool.Query(context, query, string(category))
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_find_by_category_failed: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

/*
Random returns up to count products sampled at random.

Description: ORDER BY random() is acceptable at catalog scale (thousands of
rows); revisit with TABLESAMPLE if the inventory grows past that.

Parameters:
  - context: context.Context
  - count: int

Returns:
  - []Product: Random sample
  - error: Retrieval failures
*/
func (repository *PostgresProductRepository) Random(context context.Context, count int) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products ORDER BY random() LIMIT $1"

	rows, err := repository.pool.Query(context, query, count)
	if err != nil {
		return nil, fmt.Errorf("postgres_product_repo_random_failed: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

/*
Create persists a brand-new product.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: Conflict (duplicate slug) or persistence failures
*/
func (repository *PostgresProductRepository) Create(context context.Context, product *Product) error {
	const query = `
		INSERT INTO products (
			id, name, slug, price_cents, description, category, stock,
			image, is_featured, sold, reviews, rating, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Slug,
		product.PriceCents,
		product.Description,
		string(product.Category),
		product.Stock,
		product.Image,
		product.IsFeatured,
		product.Sold,
		product.Reviews,
		product.Rating,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "A product with this name already exists")
	}

	return nil
}

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
func (repository *PostgresProductRepository) SetFeatured(context context.Context, id string, featured bool) (*Product, error) {
	query := `
		UPDATE products SET is_featured = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + productColumns

	product := &Product{}
	err := scanProduct(repository.pool.QueryRow(context, query, id, featured, time.Now()), product)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product not found")
		}
		return nil, fmt.Errorf("postgres_product_repo_set_featured_failed: %w", err)
	}

	return product, nil
}

/*
Delete permanently removes a product from the catalog.

Description: Cart rows referencing the product are removed by the ON DELETE
CASCADE constraint on cart_items.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or persistence failures
*/
func (repository *PostgresProductRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM products WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_product_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product not found")
	}

	return nil
}

// # Row Scanning

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct hydrates a single product from a row.
func scanProduct(row rowScanner, product *Product) error {
	var category string
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.PriceCents,
		&product.Description,
		&category,
		&product.Stock,
		&product.Image,
		&product.IsFeatured,
		&product.Sold,
		&product.Reviews,
		&product.Rating,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return err
	}
	product.Category = Category(category)
	return nil
}

// scanProducts drains a result set into a slice.
func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := []Product{}
	for rows.Next() {
		var product Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("postgres_product_repo_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_product_repo_rows_failed: %w", err)
	}

	return products, nil
}
