// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

// PostgreSQL implementation of the coupon storage contract.
package coupon

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

// # Coupon Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the coupon Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const couponColumns = `
	id, user_id, code, discount_percentage, expiration_date, is_active, created_at`

/*
FindActiveByUser returns the user's most recently issued active coupon.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Coupon: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresRepository) FindActiveByUser(context context.Context, userID string) (*Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE user_id = $1 AND is_active
		ORDER BY created_at DESC
		LIMIT 1`

	return repository.scanOne(repository.pool.QueryRow(context, query, userID))
}

/*
FindActiveByUserAndCode returns the user's active coupon with the given code.

Parameters:
  - context: context.Context
  - userID: string
  - code: string

Returns:
  - *Coupon: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresRepository) FindActiveByUserAndCode(context context.Context, userID, code string) (*Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE user_id = $1 AND code = $2 AND is_active`

	return repository.scanOne(repository.pool.QueryRow(context, query, userID, code))
}

/*
Create persists a brand-new coupon.

Parameters:
  - context: context.Context
  - coupon: *Coupon

Returns:
  - error: Conflict (duplicate code for the user) or persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, coupon *Coupon) error {
	const query = `
		INSERT INTO coupons (
			id, user_id, code, discount_percentage, expiration_date, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		coupon.ID,
		coupon.UserID,
		coupon.Code,
		coupon.DiscountPercentage,
		coupon.ExpirationDate,
		coupon.IsActive,
		coupon.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "A coupon with this code already exists for the user")
	}

	return nil
}

/*
Deactivate marks a coupon as consumed.

Description: Zero rows affected is not an error; the coupon may already have
been deactivated by a concurrent request.

Parameters:
  - context: context.Context
  - couponID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Deactivate(context context.Context, couponID string) error {
	const query = "UPDATE coupons SET is_active = FALSE WHERE id = $1"

	if _, err := repository.pool.Exec(context, query, couponID); err != nil {
		return fmt.Errorf("postgres_coupon_repo_deactivate_failed: %w", err)
	}

	return nil
}

/*
DeleteByUser removes every coupon belonging to the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) DeleteByUser(context context.Context, userID string) error {
	const query = "DELETE FROM coupons WHERE user_id = $1"

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres_coupon_repo_delete_by_user_failed: %w", err)
	}

	return nil
}

// scanOne hydrates a single coupon from a row.
func (repository *PostgresRepository) scanOne(row pgx.Row) (*Coupon, error) {
	coupon := &Coupon{}
	err := row.Scan(
		&coupon.ID,
		&coupon.UserID,
		&coupon.Code,
		&coupon.DiscountPercentage,
		&coupon.ExpirationDate,
		&coupon.IsActive,
		&coupon.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Coupon not found")
		}
		return nil, fmt.Errorf("postgres_coupon_repo_find_failed: %w", err)
	}

	return coupon, nil
}
