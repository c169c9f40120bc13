// Package api exposes the booking engine over HTTP JSON.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Somprasong001/simple-booking-app/internal/booking"
	"github.com/Somprasong001/simple-booking-app/internal/catalog"
	"github.com/Somprasong001/simple-booking-app/internal/service"
)

// Config holds HTTP server settings.
type Config struct {
	Port   int
	APIKey string // empty disables authentication on mutating endpoints

	// Rate limiting per client IP; zero values disable it.
	RateLimit float64
	RateBurst int
}

// HTTPServer serves the booking API.
type HTTPServer struct {
	server   *http.Server
	bookings *service.BookingService
	catalog  *catalog.Catalog
	exporter BookingExporter
	limiter  *clientLimiter
	apiKey   string
	logger   zerolog.Logger
}

// NewHTTPServer wires handlers and middleware.
func NewHTTPServer(cfg Config, bookings *service.BookingService, cat *catalog.Catalog, exporter BookingExporter, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		bookings: bookings,
		catalog:  cat,
		exporter: exporter,
		apiKey:   cfg.APIKey,
		logger:   logger.With().Str("component", "api").Logger(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = newClientLimiter(cfg.RateLimit, cfg.RateBurst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/healthcheck", s.handleHealthcheck)
	mux.HandleFunc("/api/bookings", s.handleBookings)
	mux.HandleFunc("/api/bookings/", s.handleBookingByID)
	mux.HandleFunc("/api/services", s.handleServices)
	mux.HandleFunc("/api/services/", s.handleServiceByID)
	mux.HandleFunc("/api/export/bookings", s.handleExportBookings)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.rateLimitMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.server.Shutdown(ctxShutdown)
	}()

	s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Handler exposes the routing tree for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeBookingError maps the error taxonomy onto HTTP statuses.
func writeBookingError(w http.ResponseWriter, err error) {
	switch booking.KindOf(err) {
	case booking.KindValidation:
		writeError(w, http.StatusBadRequest, err.Error())
	case booking.KindNotFound:
		writeError(w, http.StatusNotFound, err.Error())
	case booking.KindConflict, booking.KindInvalidTransition:
		writeError(w, http.StatusConflict, err.Error())
	case booking.KindBusy:
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
