// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package coupon

import (
	"context"
	"fmt"
	"time"

	"github.com/cartly/cartly/internal/platform/apperr"
	"github.com/cartly/cartly/pkg/uuid"
)

// # Definitions & Constructors

// Service implements coupon use cases.
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

// # Coupon Operations

/*
GetActive returns the user's current active coupon, if any.

Description: Absence of a coupon is a normal state, not an error; the handler
renders it as a null payload.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Coupon: Active coupon, or nil when none exists
  - err: Storage failures
*/
func (service *Service) GetActive(context context.Context, userID string) (*Coupon, error) {
	coupon, err := service.repository.FindActiveByUser(context, userID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("coupon_service_get_active_failed: %w", err)
	}
	return coupon, nil
}

// Validation is the client-facing result of a successful coupon check.
type Validation struct {
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discount_percentage"`
}

/*
Validate checks whether a coupon code is currently redeemable by the user.

Description: A coupon whose expiration date has passed is deactivated on
first sight; validating the same expired coupon twice deactivates once and
reports COUPON_EXPIRED both times.

Parameters:
  - context: context.Context
  - userID: string
  - code: string

Returns:
  - *Validation: Code and discount percentage when redeemable
  - err: NotFound (unknown/inactive code), CouponExpired, or storage failures
*/
func (service *Service) Validate(context context.Context, userID, code string) (*Validation, error) {
	coupon, err := service.repository.FindActiveByUserAndCode(context, userID, code)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.NotFound("Coupon not found")
		}
		return nil, fmt.Errorf("coupon_service_validate_failed: %w", err)
	}

	if coupon.IsExpired(service.now()) {
		if err := service.repository.Deactivate(context, coupon.ID); err != nil {
			return nil, fmt.Errorf("coupon_service_expire_failed: %w", err)
		}
		return nil, apperr.CouponExpired()
	}

	return &Validation{
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
	}, nil
}

/*
IssueGift creates a fresh gift coupon for the user.

Description: Called by the checkout pipeline when an order qualifies for a
reward. Any previous coupon the user held is removed first, so a user carries
at most one coupon at a time.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Coupon: Newly issued gift coupon
  - err: Generation or storage failures
*/
func (service *Service) IssueGift(context context.Context, userID string) (*Coupon, error) {
	code, err := NewGiftCode()
	if err != nil {
		return nil, err
	}

	if err := service.repository.DeleteByUser(context, userID); err != nil {
		return nil, fmt.Errorf("coupon_service_gift_cleanup_failed: %w", err)
	}

	gift := &Coupon{
		ID:                 uuid.New(),
		UserID:             userID,
		Code:               code,
		DiscountPercentage: GiftDiscountPercentage,
		ExpirationDate:     service.now().Add(GiftValidity),
		IsActive:           true,
	}

	if err := service.repository.Create(context, gift); err != nil {
		return nil, fmt.Errorf("coupon_service_gift_create_failed: %w", err)
	}

	return gift, nil
}
