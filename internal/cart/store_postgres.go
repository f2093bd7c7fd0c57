// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

// PostgreSQL implementation of the cart storage contract.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cartly/cartly/internal/catalog"
	"github.com/cartly/cartly/internal/platform/apperr"
)

// foreignKeyViolation is the PostgreSQL error code for FK constraint failures.
const foreignKeyViolation = "23503"

// # Cart Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the cart Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Lines returns the user's cart joined with live product data.

Description: INNER JOIN against products guarantees deleted products never
surface; their rows are already gone via ON DELETE CASCADE.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Line: Checkout-ready cart lines, oldest first
  - error: Retrieval failures
*/
func (repository *PostgresRepository) Lines(context context.Context, userID string) ([]Line, error) {
	const query = `
		SELECT
			p.id, p.name, p.slug, p.price_cents, p.description, p.category, p.stock,
			p.image, p.is_featured, p.sold, p.reviews, p.rating, p.created_at, p.updated_at,
			c.quantity
		FROM cart_items c
		INNER JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.added_at ASC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_cart_repo_lines_failed: %w", err)
	}
	defer rows.Close()

	lines := []Line{}
	for rows.Next() {
		var line Line
		var category string
		err := rows.Scan(
			&line.ID,
			&line.Name,
			&line.Slug,
			&line.PriceCents,
			&line.Description,
			&category,
			&line.Stock,
			&line.Image,
			&line.IsFeatured,
			&line.Sold,
			&line.Reviews,
			&line.Rating,
			&line.CreatedAt,
			&line.UpdatedAt,
			&line.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_cart_repo_scan_failed: %w", err)
		}
		line.Category = catalog.Category(category)
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_cart_repo_rows_failed: %w", err)
	}

	return lines, nil
}

/*
Add inserts a cart row with the given quantity, or increments atomically.

Description: Single upsert statement, so concurrent adds of the same product
serialize inside the database rather than racing a read-modify-write.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string
  - quantity: int

Returns:
  - error: apperr.NotFound for an unknown product, or persistence failures
*/
func (repository *PostgresRepository) Add(context context.Context, userID, productID string, quantity int) error {
	const query = `
		INSERT INTO cart_items (user_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`

	_, err := repository.pool.Exec(context, query, userID, productID, quantity, time.Now())
	if err != nil {
		var pgError *pgconn.PgError
		if errors.As(err, &pgError) && pgError.Code == foreignKeyViolation {
			return apperr.NotFound("Product not found")
		}
		return fmt.Errorf("postgres_cart_repo_add_failed: %w", err)
	}

	return nil
}

/*
SetQuantity replaces the quantity of an existing cart row.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string
  - quantity: int

Returns:
  - error: apperr.NotFound when the row does not exist, or persistence failures
*/
func (repository *PostgresRepository) SetQuantity(context context.Context, userID, productID string, quantity int) error {
	const query = `
		UPDATE cart_items SET quantity = $3
		WHERE user_id = $1 AND product_id = $2`

	tag, err := repository.pool.Exec(context, query, userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_set_quantity_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product not in cart")
	}

	return nil
}

/*
Remove deletes a single cart row.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string

Returns:
  - error: apperr.NotFound when the row does not exist, or persistence failures
*/
func (repository *PostgresRepository) Remove(context context.Context, userID, productID string) error {
	const query = "DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2"

	tag, err := repository.pool.Exec(context, query, userID, productID)
	if err != nil {
		return fmt.Errorf("postgres_cart_repo_remove_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product not in cart")
	}

	return nil
}

/*
Clear deletes every cart row belonging to the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Clear(context context.Context, userID string) error {
	const query = "DELETE FROM cart_items WHERE user_id = $1"

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_cart_repo_clear_failed: %w", err)
	}

	return nil
}
