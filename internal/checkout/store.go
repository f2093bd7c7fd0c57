// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package checkout

import "context"

// # Order Data Access

// OrderRepository defines the data access contract for completed orders.
type OrderRepository interface {

	/*
		CreateWithCouponConsumption persists the order, its items, and the
		consumption of the applied coupon in a single transaction.

		couponCode may be empty, in which case no coupon row is touched.
		Either the whole write commits or none of it does; an order can
		never exist with its coupon still active.

		Parameters:
		  - context: context.Context
		  - order: *Order
		  - couponCode: string

		Returns:
		  - error: apperr.Conflict on a duplicate checkout session ID, or persistence failures
	*/
	CreateWithCouponConsumption(context context.Context, order *Order, couponCode string) error

	/*
		FindBySessionID returns the order created from the given gateway session.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - *Order: Hydrated entity with its items
		  - error: apperr.NotFound or retrieval failures
	*/
	FindBySessionID(context context.Context, sessionID string) (*Order, error)
}
