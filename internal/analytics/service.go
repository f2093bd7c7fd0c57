// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package analytics

import (
	"context"
	"fmt"
	"time"
)

// # Definitions & Constructors

// Service implements reporting use cases.
type Service struct {
	repository Repository
	now        func() time.Time
}

// NewService constructs a new [Service] with its storage dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository, now: time.Now}
}

// WithClock overrides the time source. Test hook.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Reports

/*
Overview returns the headline dashboard numbers.

Parameters:
  - context: context.Context

Returns:
  - *Overview: Counts, revenue, and average order value in cents
  - err: Storage failures
*/
func (service *Service) Overview(context context.Context) (*Overview, error) {
	totals, err := service.repository.Totals(context)
	if err != nil {
		return nil, fmt.Errorf("analytics_service_overview_failed: %w", err)
	}

	overview := &Overview{
		Users:             totals.Users,
		Products:          totals.Products,
		TotalSales:        totals.Orders,
		TotalRevenueCents: totals.TotalRevenueCents,
	}

	if totals.Orders > 0 {
		overview.AverageOrderValueCents = totals.TotalRevenueCents / totals.Orders
	}

	return overview, nil
}

/*
DailySales returns the last seven days of sales, oldest first.

Description: The series always contains exactly [DailyWindowDays] entries
ending today; days without orders appear with zero sales and zero revenue
rather than being omitted.

Parameters:
  - context: context.Context

Returns:
  - []DailySale: Dense ascending series
  - err: Storage failures
*/
func (service *Service) DailySales(context context.Context) ([]DailySale, error) {
	today := service.now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(DailyWindowDays - 1))
	to := today.AddDate(0, 0, 1)

	sparse, err := service.repository.SalesBetween(context, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics_service_daily_sales_failed: %w", err)
	}

	byDate := make(map[string]DailySale, len(sparse))
	for _, day := range sparse {
		byDate[day.Date] = day
	}

	series := make([]DailySale, 0, DailyWindowDays)
	for offset := 0; offset < DailyWindowDays; offset++ {
		date := from.AddDate(0, 0, offset).Format(DateLayout)
		if day, ok := byDate[date]; ok {
			series = append(series, day)
			continue
		}
		series = append(series, DailySale{Date: date})
	}

	return series, nil
}
