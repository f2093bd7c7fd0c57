// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package coupon_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartly/cartly/internal/coupon"
	"github.com/cartly/cartly/internal/platform/apperr"
)

// # In-Memory Fake

type memoryCouponRepository struct {
	coupons         map[string]*coupon.Coupon
	deactivateCalls int
}

func newMemoryCouponRepository() *memoryCouponRepository {
	return &memoryCouponRepository{coupons: make(map[string]*coupon.Coupon)}
}

func (repository *memoryCouponRepository) FindActiveByUser(_ context.Context, userID string) (*coupon.Coupon, error) {
	for _, c := range repository.coupons {
		if c.UserID == userID && c.IsActive {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Coupon not found")
}

func (repository *memoryCouponRepository) FindActiveByUserAndCode(_ context.Context, userID, code string) (*coupon.Coupon, error) {
	for _, c := range repository.coupons {
		if c.UserID == userID && c.Code == code && c.IsActive {
			copied := *c
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Coupon not found")
}

func (repository *memoryCouponRepository) Create(_ context.Context, c *coupon.Coupon) error {
	repository.coupons[c.ID] = c
	return nil
}

func (repository *memoryCouponRepository) Deactivate(_ context.Context, couponID string) error {
	repository.deactivateCalls++
	if c, ok := repository.coupons[couponID]; ok {
		c.IsActive = false
	}
	return nil
}

func (repository *memoryCouponRepository) DeleteByUser(_ context.Context, userID string) error {
	for id, c := range repository.coupons {
		if c.UserID == userID {
			delete(repository.coupons, id)
		}
	}
	return nil
}

// # Test Harness

const testUserID = "0199e8f0-aaaa-7000-8000-000000000001"

var frozenNow = time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

func newTestService() (*coupon.Service, *memoryCouponRepository) {
	repository := newMemoryCouponRepository()
	service := coupon.NewService(repository).WithClock(func() time.Time { return frozenNow })
	return service, repository
}

func seedCoupon(repository *memoryCouponRepository, code string, expiresAt time.Time, active bool) *coupon.Coupon {
	c := &coupon.Coupon{
		ID:                 "coupon-" + code,
		UserID:             testUserID,
		Code:               code,
		DiscountPercentage: 15,
		ExpirationDate:     expiresAt,
		IsActive:           active,
	}
	repository.coupons[c.ID] = c
	return c
}

// # Tests

func TestService_GetActive(t *testing.T) {
	service, repository := newTestService()

	// No coupon is a normal state, not an error
	active, err := service.GetActive(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Nil(t, active)

	seedCoupon(repository, "WELCOME15", frozenNow.Add(24*time.Hour), true)
	active, err = service.GetActive(context.Background(), testUserID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "WELCOME15", active.Code)
}

func TestService_Validate(t *testing.T) {
	service, repository := newTestService()
	seedCoupon(repository, "WELCOME15", frozenNow.Add(24*time.Hour), true)

	validation, err := service.Validate(context.Background(), testUserID, "WELCOME15")

	require.NoError(t, err)
	assert.Equal(t, "WELCOME15", validation.Code)
	assert.Equal(t, 15, validation.DiscountPercentage)
}

func TestService_Validate_UnknownCode(t *testing.T) {
	service, _ := newTestService()

	_, err := service.Validate(context.Background(), testUserID, "NOPE")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_Validate_Expired(t *testing.T) {
	service, repository := newTestService()
	seeded := seedCoupon(repository, "OLD10", frozenNow.Add(-time.Hour), true)

	_, err := service.Validate(context.Background(), testUserID, "OLD10")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "COUPON_EXPIRED", ae.Code)
	assert.Equal(t, 400, ae.HTTPStatus)

	// First sight of an expired coupon deactivates it
	assert.False(t, repository.coupons[seeded.ID].IsActive)
	assert.Equal(t, 1, repository.deactivateCalls)

	// A second validation reports the same error without a second deactivation
	_, err = service.Validate(context.Background(), testUserID, "OLD10")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Equal(t, 1, repository.deactivateCalls)
}

func TestService_Validate_InactiveCode(t *testing.T) {
	service, repository := newTestService()
	seedCoupon(repository, "USED10", frozenNow.Add(24*time.Hour), false)

	_, err := service.Validate(context.Background(), testUserID, "USED10")

	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestService_IssueGift(t *testing.T) {
	service, repository := newTestService()
	seedCoupon(repository, "WELCOME15", frozenNow.Add(24*time.Hour), true)

	gift, err := service.IssueGift(context.Background(), testUserID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gift.Code, coupon.GiftCodePrefix))
	assert.Len(t, gift.Code, len(coupon.GiftCodePrefix)+coupon.GiftCodeSuffixLength)
	assert.Equal(t, coupon.GiftDiscountPercentage, gift.DiscountPercentage)
	assert.Equal(t, frozenNow.Add(coupon.GiftValidity), gift.ExpirationDate)
	assert.True(t, gift.IsActive)

	// The previous coupon is gone; only the gift remains
	assert.Len(t, repository.coupons, 1)
}

func TestNewGiftCode_Charset(t *testing.T) {
	for range 50 {
		code, err := coupon.NewGiftCode()
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(code, coupon.GiftCodePrefix))

		suffix := strings.TrimPrefix(code, coupon.GiftCodePrefix)
		assert.Len(t, suffix, coupon.GiftCodeSuffixLength)
		assert.NotContains(t, suffix, "0")
		assert.NotContains(t, suffix, "O")
		assert.NotContains(t, suffix, "1")
		assert.NotContains(t, suffix, "I")
	}
}
