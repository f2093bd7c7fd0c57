// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package analytics

import (
	"context"
	"time"
)

// # Reporting Data Access

// Totals is the raw aggregate row behind the overview block.
type Totals struct {
	Users             int64
	Products          int64
	Orders            int64
	TotalRevenueCents int64
}

// Repository defines the read-only data access contract for reporting.
type Repository interface {

	/*
		Totals returns shop-wide aggregate counts and revenue.

		Parameters:
		  - context: context.Context

		Returns:
		  - *Totals: Aggregate row
		  - error: Retrieval failures
	*/
	Totals(context context.Context) (*Totals, error)

	/*
		SalesBetween returns per-day order counts and revenue for days that
		had at least one order in [from, to). Days without orders are absent;
		the service zero-fills them.

		Parameters:
		  - context: context.Context
		  - from: time.Time (inclusive)
		  - to: time.Time (exclusive)

		Returns:
		  - []DailySale: Sparse series, ascending by date
		  - error: Retrieval failures
	*/
	SalesBetween(context context.Context, from, to time.Time) ([]DailySale, error)
}
