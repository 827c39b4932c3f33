// Copyright (c) 2026 Byte. All rights reserved.

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/bytefood/byte/internal/platform/request"
	"github.com/bytefood/byte/internal/platform/respond"
	"github.com/bytefood/byte/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the catalog read endpoints.
type Handler struct {
	catalogService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{catalogService: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// # Endpoints
//   - GET /        : Lists all foods (id and name only).
//   - GET /{name}  : Full profile lookup by partial name.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{name}", handler.lookup)

	return router
}

/*
List returns the id+name listing of every food.

GET /api/v1/foods

Response:
  - 200: []FoodSummary
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	summaries, err := handler.catalogService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, summaries)
}

/*
Lookup resolves a partial food name to its full profile.

GET /api/v1/foods/{name}

Response:
  - 200: Food with the complete amino-acid profile
  - 400: VALIDATION_ERROR: Empty or oversized name
  - 404: NOT_FOUND: No food matches
*/
func (handler *Handler) lookup(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, "name")

	validator := &validate.Validator{}
	validator.Required(FieldFoodName, name).
		MaxLen(FieldFoodName, name, 100)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	food, err := handler.catalogService.Lookup(request.Context(), name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, food)
}
