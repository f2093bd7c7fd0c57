// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartly/cartly/internal/analytics"
)

// # In-Memory Fake

type fakeRepository struct {
	totals *analytics.Totals
	sparse []analytics.DailySale
}

func (repository *fakeRepository) Totals(_ context.Context) (*analytics.Totals, error) {
	return repository.totals, nil
}

func (repository *fakeRepository) SalesBetween(_ context.Context, _, _ time.Time) ([]analytics.DailySale, error) {
	return repository.sparse, nil
}

// # Tests

var frozenNow = time.Date(2026, time.August, 29, 15, 30, 0, 0, time.UTC)

func TestService_Overview(t *testing.T) {
	repository := &fakeRepository{
		totals: &analytics.Totals{Users: 120, Products: 45, Orders: 10, TotalRevenueCents: 39980},
	}
	service := analytics.NewService(repository).WithClock(func() time.Time { return frozenNow })

	overview, err := service.Overview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(120), overview.Users)
	assert.Equal(t, int64(45), overview.Products)
	assert.Equal(t, int64(10), overview.TotalSales)
	assert.Equal(t, int64(39980), overview.TotalRevenueCents)
	assert.Equal(t, int64(3998), overview.AverageOrderValueCents)
}

func TestService_Overview_NoOrders(t *testing.T) {
	repository := &fakeRepository{totals: &analytics.Totals{Users: 5, Products: 3}}
	service := analytics.NewService(repository)

	overview, err := service.Overview(context.Background())

	require.NoError(t, err)
	assert.Zero(t, overview.AverageOrderValueCents)
}

func TestService_DailySales_ZeroFilled(t *testing.T) {
	repository := &fakeRepository{
		sparse: []analytics.DailySale{
			{Date: "2026-08-26", Sales: 2, RevenueCents: 7996},
			{Date: "2026-08-29", Sales: 1, RevenueCents: 1499},
		},
	}
	service := analytics.NewService(repository).WithClock(func() time.Time { return frozenNow })

	series, err := service.DailySales(context.Background())

	require.NoError(t, err)
	require.Len(t, series, analytics.DailyWindowDays)

	// Ascending, ending today
	assert.Equal(t, "2026-08-23", series[0].Date)
	assert.Equal(t, "2026-08-29", series[6].Date)

	// Days without orders are present with zeros
	assert.Zero(t, series[0].Sales)
	assert.Equal(t, int64(2), series[3].Sales)
	assert.Equal(t, int64(7996), series[3].RevenueCents)
	assert.Equal(t, int64(1), series[6].Sales)
}
