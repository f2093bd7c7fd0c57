// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package coupon

import "context"

// # Coupon Data Access

// Repository defines the data access contract for coupons.
type Repository interface {

	/*
		FindActiveByUser returns the user's most recently issued active coupon.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - *Coupon: Hydrated entity
		  - error: apperr.NotFound when no active coupon exists, or retrieval failures
	*/
	FindActiveByUser(context context.Context, userID string) (*Coupon, error)

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
	FindActiveByUserAndCode(context context.Context, userID, code string) (*Coupon, error)

	/*
		Create persists a brand-new coupon.

		Parameters:
		  - context: context.Context
		  - coupon: *Coupon

		Returns:
		  - error: Conflict (duplicate code for the user) or persistence failures
	*/
	Create(context context.Context, coupon *Coupon) error

	/*
		Deactivate marks a coupon as consumed. Already-inactive coupons are a
		no-op, which makes expiry deactivation idempotent.

		Parameters:
		  - context: context.Context
		  - couponID: string

		Returns:
		  - error: Persistence failures
	*/
	Deactivate(context context.Context, couponID string) error

	/*
		DeleteByUser removes every coupon belonging to the user. Used before
		issuing a gift coupon so a user carries at most one.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteByUser(context context.Context, userID string) error
}
