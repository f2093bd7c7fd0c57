// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

/*
Package analytics implements the back-office sales reporting domain.

It aggregates orders, users, and catalog size into an overview plus a
seven-day daily sales series. Read-only: nothing here mutates shop state.
*/
package analytics

import "time"

// # Domain Entities

// Overview is the headline numbers block of the admin dashboard.
type Overview struct {
	Users                  int64 `json:"users"`
	Products               int64 `json:"products"`
	TotalSales             int64 `json:"total_sales"`
	TotalRevenueCents      int64 `json:"total_revenue_cents"`
	AverageOrderValueCents int64 `json:"average_order_value_cents"`
}

// DailySale is one day's aggregated order count and revenue.
type DailySale struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Sales        int64  `json:"sales"`
	RevenueCents int64  `json:"revenue_cents"`
}

// # Reporting Window

const (
	// DailyWindowDays is the length of the daily sales series.
	DailyWindowDays = 7

	// DateLayout is the wire format for series dates.
	DateLayout = time.DateOnly
)
