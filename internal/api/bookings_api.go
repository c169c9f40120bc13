package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Somprasong001/simple-booking-app/internal/booking"
	"github.com/Somprasong001/simple-booking-app/internal/database"
	"github.com/Somprasong001/simple-booking-app/internal/metrics"
	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// CreateBookingRequest is the request body for POST /api/bookings.
type CreateBookingRequest struct {
	ServiceID int64  `json:"service_id"`
	StartTime string `json:"start_time"`         // RFC 3339
	EndTime   string `json:"end_time,omitempty"` // optional; derived from service duration
	Customer  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	} `json:"customer"`
	Notes string `json:"notes,omitempty"`
}

// StatusRequest is the request body for PATCH /api/bookings/{id}/status.
type StatusRequest struct {
	Status string `json:"status"`
}

// handleBookings routes GET (list) and POST (create) on /api/bookings.
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// createBooking handles POST /api/bookings.
func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_booking")

	var req CreateBookingRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.ServiceID <= 0 {
		writeError(w, http.StatusBadRequest, "service_id is required")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_time; expected RFC 3339")
		return
	}
	var end time.Time
	if req.EndTime != "" {
		end, err = time.Parse(time.RFC3339, req.EndTime)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end_time; expected RFC 3339")
			return
		}
	}

	candidate := booking.Candidate{
		ServiceID: req.ServiceID,
		StartTime: start,
		EndTime:   end,
		Customer: models.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Notes: strings.TrimSpace(req.Notes),
	}

	created, err := s.bookings.CreateBooking(r.Context(), candidate)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// listBookings handles GET /api/bookings with optional filters:
// service_id, status, date (single day) or from/to (RFC 3339 range).
func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_bookings")

	var filter database.BookingFilter
	q := r.URL.Query()

	if v := q.Get("service_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid service_id")
			return
		}
		filter.ServiceID = id
	}
	if v := q.Get("status"); v != "" {
		status, err := models.ParseStatus(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Status = status
	}
	if v := q.Get("date"); v != "" {
		day, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
		filter.From = day
		filter.To = day.Add(24 * time.Hour)
	} else {
		if v := q.Get("from"); v != "" {
			from, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid from; expected RFC 3339")
				return
			}
			filter.From = from
		}
		if v := q.Get("to"); v != "" {
			to, err := time.Parse(time.RFC3339, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid to; expected RFC 3339")
				return
			}
			filter.To = to
		}
	}

	bookings, err := s.bookings.ListBookings(r.Context(), filter)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(bookings),
		"data":  bookings,
	})
}

// handleBookingByID routes /api/bookings/{id} and /api/bookings/{id}/status.
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/bookings/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.getBooking(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.cancelBooking(w, r, id)
	case len(parts) == 2 && parts[1] == "status" && r.Method == http.MethodPatch:
		s.updateBookingStatus(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("get_booking")

	b, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *HTTPServer) updateBookingStatus(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("update_booking_status")

	var req StatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b, err := s.bookings.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *HTTPServer) cancelBooking(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("cancel_booking")

	b, err := s.bookings.Cancel(r.Context(), id)
	if err != nil {
		writeBookingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
