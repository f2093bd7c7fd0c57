// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

// PostgreSQL implementation of the order storage contract.
package checkout

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

// # Order Repository

// PostgresOrderRepository implements the OrderRepository interface using pgx.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new PostgreSQL implementation of the OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

/*
CreateWithCouponConsumption persists the order atomically.

Description: Order header, order items, and coupon deactivation run inside
one transaction. The UNIQUE constraint on checkout_session_id is the
idempotency guard; a duplicate insert aborts the whole transaction, leaving
the coupon untouched by the replay.

Parameters:
  - context: context.Context
  - order: *Order
  - couponCode: string (empty when no coupon was applied)

Returns:
  - error: apperr.Conflict on a duplicate session ID, or persistence failures
*/
func (repository *PostgresOrderRepository) CreateWithCouponConsumption(context context.Context, order *Order, couponCode string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	const orderQuery = `
		INSERT INTO orders (id, user_id, total_cents, checkout_session_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = transaction.Exec(context, orderQuery,
		order.ID,
		order.UserID,
		order.TotalCents,
		order.CheckoutSessionID,
		order.CreatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("An order for this checkout session already exists")
		}
		return fmt.Errorf("postgres_order_repo_insert_failed: %w", err)
	}

	const itemQuery = `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price_cents)
		VALUES ($1, $2, $3, $4)`

	for _, item := range order.Items {
		_, err := transaction.Exec(context, itemQuery,
			order.ID,
			item.ProductID,
			item.Quantity,
			item.UnitPriceCents,
		)
		if err != nil {
			return fmt.Errorf("postgres_order_repo_insert_item_failed: %w", err)
		}
	}

	if couponCode != "" {
		const couponQuery = `
			UPDATE coupons SET is_active = FALSE
			WHERE user_id = $1 AND code = $2 AND is_active`

		if _, err := transaction.Exec(context, couponQuery, order.UserID, couponCode); err != nil {
			return fmt.Errorf("postgres_order_repo_consume_coupon_failed: %w", err)
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_order_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindBySessionID returns the order created from the given gateway session.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Order: Hydrated entity with its items
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresOrderRepository) FindBySessionID(context context.Context, sessionID string) (*Order, error) {
	const orderQuery = `
		SELECT id, user_id, total_cents, checkout_session_id, created_at
		FROM orders
		WHERE checkout_session_id = $1`

	order := &Order{}
	err := repository.pool.QueryRow(context, orderQuery, sessionID).Scan(
		&order.ID,
		&order.UserID,
		&order.TotalCents,
		&order.CheckoutSessionID,
		&order.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Order not found for this checkout session")
		}
		return nil, fmt.Errorf("postgres_order_repo_find_failed: %w", err)
	}

	const itemsQuery = `
		SELECT product_id, quantity, unit_price_cents
		FROM order_items
		WHERE order_id = $1`

	rows, err := repository.pool.Query(context, itemsQuery, order.ID)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_repo_find_items_failed: %w", err)
	}
	defer rows.Close()

	order.Items = []OrderItem{}
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, fmt.Errorf("postgres_order_repo_scan_item_failed: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_order_repo_rows_failed: %w", err)
	}

	return order, nil
}
