// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package cart

import "context"

// # Cart Data Access

// Repository defines the data access contract for cart rows.
type Repository interface {

	/*
		Lines returns the user's cart joined with live product data.

		Rows whose product has been deleted are excluded by the join, so the
		checkout pipeline and the cart screen always agree on content.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []Line: Display- and checkout-ready cart lines
		  - error: Retrieval failures
	*/
	Lines(context context.Context, userID string) ([]Line, error)

	/*
		Add inserts a cart row with the given quantity, or atomically
		increments the existing row by that amount.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - productID: string
		  - quantity: int (must be >= 1; callers validate)

		Returns:
		  - error: apperr.NotFound when the product does not exist, or persistence failures
	*/
	Add(context context.Context, userID, productID string, quantity int) error

	/*
		SetQuantity replaces the quantity of an existing cart row.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - productID: string
		  - quantity: int (must be >= 1; callers handle the zero-deletes rule)

		Returns:
		  - error: apperr.NotFound when the row does not exist, or persistence failures
	*/
	SetQuantity(context context.Context, userID, productID string, quantity int) error

	/*
		Remove deletes a single cart row.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - productID: string

		Returns:
		  - error: apperr.NotFound when the row does not exist, or persistence failures
	*/
	Remove(context context.Context, userID, productID string) error

	/*
		Clear deletes every cart row belonging to the user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	Clear(context context.Context, userID string) error
}
