package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/Somprasong001/simple-booking-app/internal/metrics"
	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// ServiceRequest is the request body for creating or updating a service.
type ServiceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"` // minutes
}

// handleServices routes GET (list) and POST (create) on /api/services.
func (s *HTTPServer) handleServices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listServices(w, r)
	case http.MethodPost:
		s.createService(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listServices(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_services")

	activeOnly := r.URL.Query().Get("include_inactive") != "true"
	services, err := s.catalog.List(r.Context(), activeOnly)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	if services == nil {
		services = []models.Service{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(services),
		"data":  services,
	})
}

func (s *HTTPServer) createService(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_service")
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	var req ServiceRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	svc := &models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
	}
	if err := s.catalog.Create(r.Context(), svc); err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// handleServiceByID routes GET/PUT/DELETE on /api/services/{id}.
func (s *HTTPServer) handleServiceByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/services/"), "/")
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid service id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getService(w, r, id)
	case http.MethodPut:
		s.updateService(w, r, id)
	case http.MethodDelete:
		s.deleteService(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) getService(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("get_service")

	svc, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}

func (s *HTTPServer) updateService(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("update_service")
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	var req ServiceRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	existing, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.Duration = req.Duration
	if err := s.catalog.Update(r.Context(), existing); err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

// deleteService soft-deletes: bookings referencing the service survive.
func (s *HTTPServer) deleteService(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("delete_service")
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}

	if err := s.catalog.Deactivate(r.Context(), id); err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "service deactivated"})
}
