// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cartly/cartly/internal/platform/middleware"
	"github.com/cartly/cartly/internal/platform/respond"
	"github.com/cartly/cartly/internal/platform/sec"
)

// # Definitions & Constructors

// Handler implements analytics HTTP endpoints.
type Handler struct {
	analyticsService *Service
	resolver         middleware.IdentityResolver
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, resolver middleware.IdentityResolver) *Handler {
	return &Handler{analyticsService: service, resolver: resolver}
}

// Routes returns a [chi.Router] configured with analytics routes.
//
// # Endpoints
//   - GET / : Overview block plus the seven-day daily series (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth(handler.resolver))
	router.Use(middleware.RequireRole(sec.RoleAdmin))
	router.Get("/", handler.report)

	return router
}

/*
Report returns the full analytics payload.

GET /api/v1/analytics

Response:
  - 200: {overview, daily_sales}: Headline numbers plus the dense daily series
  - 403: ErrForbidden: Caller is not an administrator
*/
func (handler *Handler) report(writer http.ResponseWriter, request *http.Request) {
	overview, err := handler.analyticsService.Overview(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	dailySales, err := handler.analyticsService.DailySales(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"overview":    overview,
		"daily_sales": dailySales,
	})
}
