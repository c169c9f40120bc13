package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Somprasong001/simple-booking-app/internal/database"
	"github.com/Somprasong001/simple-booking-app/internal/metrics"
	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// BookingExporter renders bookings into a downloadable workbook.
type BookingExporter interface {
	Write(w io.Writer, sheet string, bookings []models.Booking) error
}

// handleExportBookings streams all bookings (optionally filtered by
// service_id) as an xlsx attachment.
// GET /api/export/bookings?service_id=1
func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export_bookings")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "invalid API key")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusNotImplemented, "export is not configured")
		return
	}

	var filter database.BookingFilter
	if v := r.URL.Query().Get("service_id"); v != "" {
		if _, err := fmt.Sscan(v, &filter.ServiceID); err != nil || filter.ServiceID <= 0 {
			writeError(w, http.StatusBadRequest, "invalid service_id")
			return
		}
	}

	bookings, err := s.bookings.ListBookings(r.Context(), filter)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := s.exporter.Write(w, "Bookings", bookings); err != nil {
		s.logger.Error().Err(err).Msg("export bookings failed")
	}
}
