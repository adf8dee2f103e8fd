package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/akbar-farajov/booking-system/api-server/internal/handlers"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(h *handlers.Handler, logger *slog.Logger) *mux.Router {
	if logger == nil {
		logger = slog.Default()
	}
	r := mux.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Catalog
	api.HandleFunc("/catalog/countries", h.GetCountries).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/catalog/board-types", h.GetBoardTypes).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/catalog/destinations/{destination}/hotels", h.GetHotels).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/catalog/destinations/{destination}/meals", h.GetMeals).Methods(http.MethodGet, http.MethodOptions)

	// Sessions
	api.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/configuration", h.SubmitConfiguration).Methods(http.MethodPut, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/days/{index}", h.UpdateDay).Methods(http.MethodPatch, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/continue", h.Continue).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/back", h.Back).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/confirm", h.Confirm).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/reset", h.Reset).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions/{id}/confirmation", h.GetConfirmationState).Methods(http.MethodGet, http.MethodOptions)

	// Confirmed bookings
	api.HandleFunc("/bookings/{code}", h.GetConfirmedBooking).Methods(http.MethodGet, http.MethodOptions)

	// WebSocket for real-time updates
	api.HandleFunc("/sessions/{id}/ws", h.StreamSession).Methods(http.MethodGet)

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"requestId", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
