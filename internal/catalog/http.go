// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cartly/cartly/internal/platform/apperr"
	"github.com/cartly/cartly/internal/platform/middleware"
	requestutil "github.com/cartly/cartly/internal/platform/request"
	"github.com/cartly/cartly/internal/platform/respond"
	"github.com/cartly/cartly/internal/platform/sec"
	"github.com/cartly/cartly/internal/platform/validate"
	"github.com/cartly/cartly/pkg/convert"
)

// # Definitions & Constructors

// Handler implements catalog-related HTTP endpoints.
type Handler struct {
	catalogService *Service
	resolver       middleware.IdentityResolver
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{catalogService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with catalog-specific routes.
//
// # Endpoints
//   - GET    /featured            : Curated featured list (public, cached).
//   - GET    /recommendations     : Random sample for the homepage (public).
//   - GET    /category/{category} : Category browsing (public).
//   - GET    /                    : Full inventory (admin).
//   - POST   /                    : Add a product (admin).
//   - PATCH  /{productID}         : Toggle the featured flag (admin).
//   - DELETE /{productID}         : Remove a product (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Get("/featured", handler.featured)
	router.Get("/recommendations", handler.recommendations)
	router.Get("/category/{category}", handler.byCategory)

	// Admin endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(handler.resolver))
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Get("/", handler.list)
		r.Post("/", handler.create)
		r.Patch("/{productID}", handler.toggleFeatured)
		r.Delete("/{productID}", handler.remove)
	})

	return router
}

// # Request Payloads

type createProductRequest struct {
	Name        string `json:"name"`
	PriceCents  int64  `json:"price_cents"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Stock       int    `json:"stock"`
	Image       string `json:"image"`
}

/*
Featured returns the curated featured-products list.

GET /api/v1/products/featured

Response:
  - 200: []Product: Featured products (possibly empty)
*/
func (handler *Handler) featured(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.catalogService.Featured(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, products)
}

/*
Recommendations returns a random product sample.

GET /api/v1/products/recommendations?count=3

Response:
  - 200: []Product: Random sample, three products unless count says otherwise
*/
func (handler *Handler) recommendations(writer http.ResponseWriter, request *http.Request) {
	count := convert.ToIntD(request.URL.Query().Get("count"), RecommendationCount)

	products, err := handler.catalogService.Recommendations(request.Context(), count)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, products)
}

/*
ByCategory returns products within a single category.

GET /api/v1/products/category/{category}

Response:
  - 200: []Product: Category subset
  - 400: ErrValidation: Unknown category
*/
func (handler *Handler) byCategory(writer http.ResponseWriter, request *http.Request) {
	category := Category(requestutil.Param(request, "category"))
	if !category.IsValid() {
		respond.Error(writer, request, apperr.ValidationError("Unknown product category"))
		return
	}

	products, err := handler.catalogService.ByCategory(request.Context(), category)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, products)
}

/*
List returns the complete inventory.

GET /api/v1/products

Response:
  - 200: []Product: Full inventory, newest first
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.catalogService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, products)
}

/*
Create adds a new product to the catalog.

POST /api/v1/products

Request:
  - Body: createProductRequest (Name, PriceCents, Description, Category, Stock, Image)

Response:
  - 201: Product: Created entity
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Duplicate product name
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createProductRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, 200).
		Required(FieldImage, input.Image).
		OneOf(FieldCategory, input.Category,
			string(CategoryElectronics), string(CategoryFashion), string(CategoryBooks)).
		Custom(FieldPriceCents, input.PriceCents < 0, "must not be negative")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.catalogService.Create(request.Context(), CreateInput{
		Name:        input.Name,
		PriceCents:  input.PriceCents,
		Description: input.Description,
		Category:    Category(input.Category),
		Stock:       input.Stock,
		Image:       input.Image,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

/*
ToggleFeatured flips the featured flag on a product.

PATCH /api/v1/products/{productID}

Response:
  - 200: Product: Updated entity
  - 404: ErrNotFound: Unknown product
*/
func (handler *Handler) toggleFeatured(writer http.ResponseWriter, request *http.Request) {
	productID := requestutil.Param(request, "productID")

	validator := &validate.Validator{}
	validator.Required(FieldProductID, productID).UUID(FieldProductID, productID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.catalogService.ToggleFeatured(request.Context(), productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Remove permanently deletes a product.

DELETE /api/v1/products/{productID}

Response:
  - 200: Confirmation message
  - 404: ErrNotFound: Unknown product
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	productID := requestutil.Param(request, "productID")

	validator := &validate.Validator{}
	validator.Required(FieldProductID, productID).UUID(FieldProductID, productID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.catalogService.Delete(request.Context(), productID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"message": "Product deleted"})
}
