package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "simple_booking",
			Name:      "booking_created_total",
			Help:      "Count of bookings successfully committed.",
		},
	)

	bookingConflict = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "simple_booking",
			Name:      "booking_conflict_total",
			Help:      "Count of booking attempts rejected at commit time.",
		},
	)

	bookingStatusChanged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simple_booking",
			Name:      "booking_status_changed_total",
			Help:      "Count of booking status transitions by target status.",
		},
		[]string{"status"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "simple_booking",
			Name:      "http_requests_total",
			Help:      "Count of HTTP API requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingCreated, bookingConflict, bookingStatusChanged, httpRequests)
	})
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingConflict() {
	bookingConflict.Inc()
}

func IncStatusChanged(status string) {
	bookingStatusChanged.WithLabelValues(status).Inc()
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
