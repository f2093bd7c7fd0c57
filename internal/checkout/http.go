// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package checkout

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cartly/cartly/internal/platform/middleware"
	requestutil "github.com/cartly/cartly/internal/platform/request"
	"github.com/cartly/cartly/internal/platform/respond"
	"github.com/cartly/cartly/internal/platform/validate"
	"github.com/cartly/cartly/pkg/slice"
)

// # Definitions & Constructors

// Handler implements payment-related HTTP endpoints.
type Handler struct {
	checkoutService *Service
	resolver        middleware.IdentityResolver
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{checkoutService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with payment-specific routes.
//
// # Endpoints
//   - POST /create-checkout-session : Open a hosted payment session for the given lines.
//   - POST /checkout-success        : Convert a paid session into an order.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth(handler.resolver))
	router.Post("/create-checkout-session", handler.createSession)
	router.Post("/checkout-success", handler.complete)

	return router
}

// # Request Payloads

type lineItemRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Image      string `json:"image"`
	Quantity   int    `json:"quantity"`
}

type createSessionRequest struct {
	Products   []lineItemRequest `json:"products"`
	CouponCode string            `json:"coupon_code"`
}

type completeRequest struct {
	SessionID string `json:"session_id"`
}

/*
CreateSession opens a hosted payment session for the submitted cart lines.

POST /api/v1/payment/create-checkout-session

Request:
  - Body: createSessionRequest (Products, CouponCode optional)

Response:
  - 200: SessionResult: Session ID, redirect URL, discounted total in cents
  - 400: ErrValidation: No products, bad line, or expired coupon
  - 404: ErrNotFound: Unknown coupon code
  - 500: GATEWAY_ERROR: Payment provider failure
*/
func (handler *Handler) createSession(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createSessionRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	items := slice.Map(input.Products, func(product lineItemRequest) LineItem {
		return LineItem{
			ProductID:  product.ID,
			Name:       product.Name,
			PriceCents: product.PriceCents,
			Image:      product.Image,
			Quantity:   product.Quantity,
		}
	})

	result, err := handler.checkoutService.CreateSession(request.Context(), userID, items, input.CouponCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
Complete converts a paid checkout session into an order.

POST /api/v1/payment/checkout-success

Request:
  - Body: completeRequest (SessionID)

Response:
  - 200: Order (or a message when the session is not yet paid; no order is created)
  - 404: ErrNotFound: Unknown session ID
  - 500: GATEWAY_ERROR: Payment provider failure
*/
func (handler *Handler) complete(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredUserID(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input completeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldSessionID, input.SessionID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.checkoutService.Complete(request.Context(), input.SessionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Unpaid session: acknowledged, nothing materialized.
	if order == nil {
		respond.OK(writer, map[string]string{"message": "Payment not completed; no order created"})
		return
	}

	respond.OK(writer, order)
}
