// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package coupon

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cartly/cartly/internal/platform/middleware"
	requestutil "github.com/cartly/cartly/internal/platform/request"
	"github.com/cartly/cartly/internal/platform/respond"
	"github.com/cartly/cartly/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements coupon-related HTTP endpoints.
type Handler struct {
	couponService *Service
	resolver      middleware.IdentityResolver
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{couponService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with coupon-specific routes.
//
// # Endpoints
//   - GET  /          : The caller's active coupon (null when none).
//   - POST /validate  : Check whether a code is redeemable.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth(handler.resolver))
	router.Get("/", handler.getActive)
	router.Post("/validate", handler.validateCode)

	return router
}

// # Request Payloads

type validateRequest struct {
	Code string `json:"code"`
}

/*
GetActive returns the caller's active coupon.

GET /api/v1/coupons

Response:
  - 200: Coupon: Active coupon, or null when the user holds none
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) getActive(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	coupon, err := handler.couponService.GetActive(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, coupon)
}

/*
ValidateCode checks whether a coupon code is redeemable by the caller.

POST /api/v1/coupons/validate

Request:
  - Body: validateRequest (Code)

Response:
  - 200: Validation: Code and discount percentage
  - 400: COUPON_EXPIRED: The coupon's expiration date has passed
  - 404: ErrNotFound: Unknown or inactive code
*/
func (handler *Handler) validateCode(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input validateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCode, input.Code)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validation, err := handler.couponService.Validate(request.Context(), userID, input.Code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, validation)
}
