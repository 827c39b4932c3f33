// Copyright (c) 2026 Byte. All rights reserved.

package journal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/bytefood/byte/internal/platform/request"
	"github.com/bytefood/byte/internal/platform/respond"
	"github.com/bytefood/byte/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the journal endpoints.
//
// All routes here are mounted behind RequireAuth; anonymous requests
// never reach this handler.
type Handler struct {
	journalService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{journalService: service}
}

// Routes returns a [chi.Router] configured with journal routes.
//
// # Endpoints
//   - POST / : Records a consumption entry.
//   - GET  / : Returns today's entries with amino-acid totals.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", handler.add)
	router.Get("/", handler.today)

	return router
}

// # Request Payloads

type addRequest struct {
	FoodID      string  `json:"food_id"`
	WeightGrams float64 `json:"weight_g"`
}

/*
Add records one consumption entry for the authenticated user.

POST /api/v1/journal

Request:
  - Body: addRequest (FoodID, WeightGrams)

Response:
  - 201: Entry: Persisted entry with the food name
  - 400: VALIDATION_ERROR: Missing food or non-positive weight
  - 404: NOT_FOUND: Unknown food ID
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

	validator := &validate.Validator{}
	validator.Required(FieldFoodID, input.FoodID).
		Positive(FieldWeight, input.WeightGrams)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.journalService.Add(request.Context(), AddInput{
		UserID:      userID,
		FoodID:      input.FoodID,
		WeightGrams: input.WeightGrams,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}

/*
Today returns the authenticated user's consumption for the current day.

GET /api/v1/journal

Response:
  - 200: DayReport: Entries plus summed amino-acid totals
*/
func (handler *Handler) today(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	report, err := handler.journalService.Today(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, report)
}
