package trip

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	appMiddleware "github.com/i-am-feyi/ai-travel-planner/app/middleware"
	"github.com/i-am-feyi/ai-travel-planner/internal/api"
	"github.com/i-am-feyi/ai-travel-planner/internal/types"
)

// TripHandler exposes the trip pipeline and read paths over HTTP.
type TripHandler struct {
	tripService Service
	logger      *slog.Logger
}

func NewTripHandler(tripService Service, logger *slog.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// CreateTrip handles POST /trips. The body is the questionnaire payload; the
// user comes from the auth middleware, never from the body.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := h.resolveUserID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req types.TripRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTripRequest(&req); msg != "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, msg)
		return
	}

	resp, err := h.tripService.CreateTrip(ctx, userID, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "Trip creation failed",
			slog.String("userID", userID.String()), slog.Any("error", err))
		switch {
		case errors.Is(err, types.ErrUpstreamGeneration):
			api.ErrorResponse(w, r, http.StatusBadGateway, "Itinerary generation failed")
		case errors.Is(err, types.ErrPersistenceFailed):
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save trip")
		default:
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create trip")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

// GetTrip handles GET /trips/{tripID}.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid trip ID")
		return
	}

	detail, err := h.tripService.GetTrip(ctx, tripID)
	if err != nil {
		if errors.Is(err, types.ErrTripNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Trip not found")
			return
		}
		h.logger.ErrorContext(ctx, "Failed to fetch trip",
			slog.String("tripID", tripID.String()), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch trip")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, detail)
}

// GetUserTrips handles GET /trips, listing the authenticated user's trips.
func (h *TripHandler) GetUserTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := h.resolveUserID(r)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	summaries, err := h.tripService.GetUserTrips(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list user trips",
			slog.String("userID", userID.String()), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list trips")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, summaries)
}

// GetRecentTrips handles GET /trips/recent, the public landing page list.
func (h *TripHandler) GetRecentTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summaries, err := h.tripService.GetRecentTrips(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to list recent trips", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list recent trips")
		return
	}
	if len(summaries) == 0 {
		api.ErrorResponse(w, r, http.StatusNotFound, "No trips found")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, summaries)
}

func (h *TripHandler) resolveUserID(r *http.Request) (uuid.UUID, error) {
	raw, ok := appMiddleware.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, types.ErrUnauthenticated
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user id", types.ErrUnauthenticated)
	}
	return userID, nil
}

// validateTripRequest checks the questionnaire payload. Returns an empty
// string when valid, otherwise a client-presentable message.
func validateTripRequest(req *types.TripRequest) string {
	if strings.TrimSpace(req.Location) == "" {
		return "location is required"
	}
	if strings.TrimSpace(req.GroupType) == "" {
		return "groupType is required"
	}
	if strings.TrimSpace(req.TravelStyle) == "" {
		return "travelStyle is required"
	}
	if strings.TrimSpace(req.Budget) == "" {
		return "budget is required"
	}
	if req.NumberOfDays < 1 || req.NumberOfDays > 10 {
		return "numberOfDays must be between 1 and 10"
	}
	if len(req.Interests) < 1 || len(req.Interests) > 3 {
		return "select between 1 and 3 interests"
	}
	for _, interest := range req.Interests {
		if strings.TrimSpace(interest) == "" {
			return "interests must not be empty"
		}
	}
	return ""
}
