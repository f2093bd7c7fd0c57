// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

// PostgreSQL implementation of the reporting storage contract.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// # Reporting Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the analytics Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Totals returns shop-wide aggregate counts and revenue.

Description: Scalar subqueries keep this a single round trip; the planner
runs each aggregate off its primary index.

Parameters:
  - context: context.Context

Returns:
  - *Totals: Aggregate row
  - error: Retrieval failures
*/
func (repository *PostgresRepository) Totals(context context.Context) (*Totals, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COALESCE(SUM(total_cents), 0) FROM orders)`

	totals := &Totals{}
	err := repository.pool.QueryRow(context, query).Scan(
		&totals.Users,
		&totals.Products,
		&totals.Orders,
		&totals.TotalRevenueCents,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres_analytics_repo_totals_failed: %w", err)
	}

	return totals, nil
}

/*
SalesBetween returns per-day order counts and revenue in [from, to).

Parameters:
  - context: context.Context
  - from: time.Time (inclusive)
  - to: time.Time (exclusive)

Returns:
  - []DailySale: Sparse series, ascending by date
  - error: Retrieval failures
*/
func (repository *PostgresRepository) SalesBetween(context context.Context, from, to time.Time) ([]DailySale, error) {
	const query = `
		SELECT
			to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
			COUNT(*),
			COALESCE(SUM(total_cents), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY day
		ORDER BY day ASC`

	rows, err := repository.pool.Query(context, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres_analytics_repo_sales_failed: %w", err)
	}
	defer rows.Close()

	series := []DailySale{}
	for rows.Next() {
		var day DailySale
		if err := rows.Scan(&day.Date, &day.Sales, &day.RevenueCents); err != nil {
			return nil, fmt.Errorf("postgres_analytics_repo_scan_failed: %w", err)
		}
		series = append(series, day)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_analytics_repo_rows_failed: %w", err)
	}

	return series, nil
}
