// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package cart

import (
	"context"
	"fmt"

	"github.com/cartly/cartly/internal/platform/apperr"
)

// # Definitions & Constructors

// Service implements shopping cart use cases.
type Service struct {
	repository Repository
}

// NewService constructs a new [Service] with its storage dependency.
func NewService(repository Repository) *Service {
	return &Service{repository: repository}
}

// # Cart Operations

/*
List returns the user's cart joined with live product data.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []Line: Cart content (possibly empty, never nil)
  - err: Storage failures
*/
func (service *Service) List(context context.Context, userID string) ([]Line, error) {
	lines, err := service.repository.Lines(context, userID)
	if err != nil {
		return nil, fmt.Errorf("cart_service_list_failed: %w", err)
	}
	return lines, nil
}

/*
Add puts a product into the cart.

Description: Adding a product already in the cart increments its quantity
atomically; two concurrent single-unit adds of the same product net exactly
plus two.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string
  - quantity: int (how many units to add)

Returns:
  - []Line: Updated cart content
  - err: ValidationError (quantity < 1), NotFound (unknown product), or storage failures
*/
func (service *Service) Add(context context.Context, userID, productID string, quantity int) ([]Line, error) {
	if quantity < 1 {
		return nil, apperr.ValidationError("Quantity must be at least 1")
	}

	if err := service.repository.Add(context, userID, productID, quantity); err != nil {
		return nil, err
	}
	return service.List(context, userID)
}

/*
SetQuantity replaces the quantity of a product already in the cart.

Description: A zero quantity deletes the row; the stored quantity is never
zero. Setting a quantity on a product not in the cart is NotFound, not an
insert.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string
  - quantity: int

Returns:
  - []Line: Updated cart content
  - err: ValidationError (negative), NotFound, or storage failures
*/
func (service *Service) SetQuantity(context context.Context, userID, productID string, quantity int) ([]Line, error) {
	if quantity < 0 {
		return nil, apperr.ValidationError("Quantity must not be negative")
	}

	if quantity == 0 {
		if err := service.repository.Remove(context, userID, productID); err != nil {
			return nil, err
		}
		return service.List(context, userID)
	}

	if err := service.repository.SetQuantity(context, userID, productID, quantity); err != nil {
		return nil, err
	}
	return service.List(context, userID)
}

/*
Clear removes a single product from the cart, or everything.

Description: With a productID the named row is removed (missing row is
tolerated, matching how a double-click on "remove" should behave). With an
empty productID the whole cart is emptied.

Parameters:
  - context: context.Context
  - userID: string
  - productID: string (empty means "everything")

Returns:
  - []Line: Updated cart content
  - err: Storage failures
*/
func (service *Service) Clear(context context.Context, userID, productID string) ([]Line, error) {
	if productID == "" {
		if err := service.repository.Clear(context, userID); err != nil {
			return nil, fmt.Errorf("cart_service_clear_failed: %w", err)
		}
		return service.List(context, userID)
	}

	err := service.repository.Remove(context, userID, productID)
	if err != nil && !apperr.IsAppError(err) {
		return nil, fmt.Errorf("cart_service_remove_failed: %w", err)
	}
	return service.List(context, userID)
}
