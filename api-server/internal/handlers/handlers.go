package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/akbar-farajov/booking-system/api-server/internal/database"
	"github.com/akbar-farajov/booking-system/api-server/internal/service"
	"github.com/akbar-farajov/booking-system/shared/booking"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/validation"
	"github.com/akbar-farajov/booking-system/shared/wizard"
	"github.com/gorilla/mux"
)

const dateLayout = "2006-01-02"

// SnapshotStreamer upgrades a request into a live snapshot stream
type SnapshotStreamer interface {
	Serve(w http.ResponseWriter, r *http.Request, initial models.Snapshot) error
}

// Handler contains HTTP handlers for the API
type Handler struct {
	sessionService service.SessionService
	streamer       SnapshotStreamer
	logger         *slog.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(sessionService service.SessionService, streamer SnapshotStreamer, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessionService: sessionService,
		streamer:       streamer,
		logger:         logger,
	}
}

// ConfigurationRequest is the body of PUT /api/sessions/{id}/configuration
type ConfigurationRequest struct {
	Citizenship  *int             `json:"citizenship"`
	StartDate    string           `json:"startDate"`
	NumberOfDays int              `json:"numberOfDays"`
	Destination  string           `json:"destination"`
	BoardType    models.BoardType `json:"boardType"`
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps domain errors to HTTP statuses
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErrs validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "Invalid configuration",
			"fields": fieldErrs,
		})
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, database.ErrNotFound),
		errors.Is(err, service.ErrDestinationNotFound),
		errors.Is(err, service.ErrConfirmationUnavailable):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, wizard.ErrWrongStep),
		errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrBookingIncomplete),
		errors.Is(err, wizard.ErrOperationPending):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, validation.ErrMealsNotIncluded),
		errors.Is(err, validation.ErrMealConflict),
		errors.Is(err, validation.ErrUnknownReference),
		errors.Is(err, booking.ErrDayOutOfRange):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// GetCountries handles GET /api/catalog/countries
func (h *Handler) GetCountries(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionService.Countries(r.Context()))
}

// GetBoardTypes handles GET /api/catalog/board-types
func (h *Handler) GetBoardTypes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionService.BoardTypes(r.Context()))
}

// GetHotels handles GET /api/catalog/destinations/{destination}/hotels
func (h *Handler) GetHotels(w http.ResponseWriter, r *http.Request) {
	hotels, err := h.sessionService.Hotels(r.Context(), mux.Vars(r)["destination"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, hotels)
}

// GetMeals handles GET /api/catalog/destinations/{destination}/meals
func (h *Handler) GetMeals(w http.ResponseWriter, r *http.Request) {
	menu, err := h.sessionService.Meals(r.Context(), mux.Vars(r)["destination"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, menu)
}

// CreateSession handles POST /api/sessions
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.sessionService.CreateSession(r.Context())
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, snapshot)
}

// GetSession handles GET /api/sessions/{id}?step=
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	var step *models.Step
	if r.URL.Query().Has("step") {
		s := models.ParseStep(r.URL.Query().Get("step"))
		step = &s
	}

	snapshot, err := h.sessionService.GetSession(r.Context(), mux.Vars(r)["id"], step)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// DeleteSession handles DELETE /api/sessions/{id}
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.DeleteSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

// SubmitConfiguration handles PUT /api/sessions/{id}/configuration
func (h *Handler) SubmitConfiguration(w http.ResponseWriter, r *http.Request) {
	var req ConfigurationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	input := models.ConfigurationInput{
		Citizenship:  req.Citizenship,
		NumberOfDays: req.NumberOfDays,
		Destination:  req.Destination,
		BoardType:    req.BoardType,
	}
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "Invalid configuration",
				"fields": validation.FieldErrors{"startDate": "Please select a start date"},
			})
			return
		}
		input.StartDate = &start
	}

	snapshot, err := h.sessionService.SubmitConfiguration(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// UpdateDay handles PATCH /api/sessions/{id}/days/{index}
func (h *Handler) UpdateDay(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	index, err := strconv.Atoi(vars["index"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "Day index must be a number")
		return
	}

	var patch models.DayPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	snapshot, err := h.sessionService.UpdateDay(r.Context(), vars["id"], index, patch)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// Continue handles POST /api/sessions/{id}/continue
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sessionService.Continue)
}

// Back handles POST /api/sessions/{id}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sessionService.Back)
}

// Reset handles POST /api/sessions/{id}/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.sessionService.Reset)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, sessionID string) (*models.Snapshot, error)) {
	snapshot, err := fn(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshot)
}

// Confirm handles POST /api/sessions/{id}/confirm
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.sessionService.Confirm(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, confirmation)
}

// GetConfirmationState handles GET /api/sessions/{id}/confirmation
func (h *Handler) GetConfirmationState(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessionService.ConfirmationState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// GetConfirmedBooking handles GET /api/bookings/{code}
func (h *Handler) GetConfirmedBooking(w http.ResponseWriter, r *http.Request) {
	record, err := h.sessionService.ConfirmedBooking(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// StreamSession handles GET /api/sessions/{id}/ws
func (h *Handler) StreamSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.sessionService.GetSession(r.Context(), mux.Vars(r)["id"], nil)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	// the upgrader writes its own error response
	if err := h.streamer.Serve(w, r, *snapshot); err != nil {
		h.logger.Warn("WebSocket upgrade failed", "sessionId", snapshot.SessionID, "error", err)
	}
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return models.CalendarDate(t), nil
}
