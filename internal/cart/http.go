// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cartly/cartly/internal/platform/middleware"
	requestutil "github.com/cartly/cartly/internal/platform/request"
	"github.com/cartly/cartly/internal/platform/respond"
	"github.com/cartly/cartly/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements cart-related HTTP endpoints.
//
// Every endpoint operates on the authenticated caller's own cart; there is no
// way to address another user's cart through this surface.
type Handler struct {
	cartService *Service
	resolver    middleware.IdentityResolver
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{cartService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with cart-specific routes.
//
// # Endpoints
//   - GET    /            : Current cart content.
//   - POST   /            : Add units of a product (quantity defaults to 1).
//   - PUT    /{productID} : Set the quantity of a product (0 removes).
//   - DELETE /            : Remove one product, or empty the cart.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth(handler.resolver))
	router.Get("/", handler.list)
	router.Post("/", handler.add)
	router.Put("/{productID}", handler.setQuantity)
	router.Delete("/", handler.clear)

	return router
}

// # Request Payloads

type addRequest struct {
	ProductID string `json:"product_id"`

	// A pointer distinguishes "omitted" (default 1) from an explicit zero,
	// which is rejected.
	Quantity *int `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type clearRequest struct {
	ProductID string `json:"product_id"`
}

/*
List returns the caller's cart.

GET /api/v1/cart

Response:
  - 200: []Line: Cart content joined with product data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	lines, err := handler.cartService.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, lines)
}

/*
Add puts units of a product into the cart.

POST /api/v1/cart

Request:
  - Body: addRequest (ProductID, Quantity optional; omitted means 1)

Response:
  - 201: []Line: Updated cart content
  - 400: ErrValidation: Quantity below 1
  - 404: ErrNotFound: Unknown product
*/
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	quantity := 1
	if input.Quantity != nil {
		quantity = *input.Quantity
	}

	validator := &validate.Validator{}
	validator.Required(FieldProductID, input.ProductID).
		UUID(FieldProductID, input.ProductID).
		Min(FieldQuantity, quantity, 1)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lines, err := handler.cartService.Add(request.Context(), userID, input.ProductID, quantity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, lines)
}

/*
SetQuantity replaces the quantity of a product in the cart.

PUT /api/v1/cart/{productID}

Request:
  - Body: setQuantityRequest (Quantity; 0 removes the row)

Response:
  - 200: []Line: Updated cart content
  - 400: ErrValidation: Negative quantity
  - 404: ErrNotFound: Product not in cart
*/
func (handler *Handler) setQuantity(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	productID := requestutil.Param(request, "productID")

	var input setQuantityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldProductID, productID).
		UUID(FieldProductID, productID).
		Min(FieldQuantity, input.Quantity, 0)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	lines, err := handler.cartService.SetQuantity(request.Context(), userID, productID, input.Quantity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, lines)
}

/*
Clear removes a product from the cart, or empties it entirely.

DELETE /api/v1/cart

Request:
  - Body: clearRequest (ProductID; empty or absent body empties the whole cart)

Response:
  - 204: No Content
*/
func (handler *Handler) clear(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// DELETE without a body empties the entire cart.
	var input clearRequest
	_ = requestutil.DecodeJSON(request, &input)

	if _, err := handler.cartService.Clear(request.Context(), userID, input.ProductID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
