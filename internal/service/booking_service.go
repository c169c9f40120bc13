// Package service wires the reservation core together: validation, the
// advisory conflict pre-check, the atomic commit and the status machine.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Somprasong001/simple-booking-app/internal/booking"
	"github.com/Somprasong001/simple-booking-app/internal/database"
	"github.com/Somprasong001/simple-booking-app/internal/events"
	"github.com/Somprasong001/simple-booking-app/internal/metrics"
	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// ResourceCatalog supplies read-only service data for the reservation core.
type ResourceCatalog interface {
	GetBookable(ctx context.Context, id int64) (*models.Service, error)
}

// BookingRepository is the persistence surface the service reads from.
type BookingRepository interface {
	booking.ConflictRepository
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, filter database.BookingFilter) ([]models.Booking, error)
}

// EventPublisher publishes domain events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// BookingRules bound how far ahead a booking may start. Zero values disable
// the corresponding bound.
type BookingRules struct {
	MinAdvance time.Duration
	MaxAdvance time.Duration
}

// BookingService exposes the operations of the reservation engine.
type BookingService struct {
	repo      BookingRepository
	catalog   ResourceCatalog
	validator *booking.Validator
	detector  *booking.Detector
	committer *booking.Committer
	lifecycle *booking.Lifecycle
	bus       EventPublisher
	clock     booking.Clock
	rules     BookingRules
	logger    zerolog.Logger
}

// NewBookingService assembles the reservation engine.
func NewBookingService(
	repo BookingRepository,
	catalog ResourceCatalog,
	committer *booking.Committer,
	lifecycle *booking.Lifecycle,
	bus EventPublisher,
	clock booking.Clock,
	rules BookingRules,
	logger *zerolog.Logger,
) *BookingService {
	if clock == nil {
		clock = booking.SystemClock()
	}
	return &BookingService{
		repo:      repo,
		catalog:   catalog,
		validator: booking.NewValidator(clock),
		detector:  booking.NewDetector(repo),
		committer: committer,
		lifecycle: lifecycle,
		bus:       bus,
		clock:     clock,
		rules:     rules,
		logger:    logger.With().Str("component", "booking_service").Logger(),
	}
}

// CreateBooking validates the candidate, runs the advisory conflict
// pre-check and hands the interval to the committer. Only the committer's
// verdict is authoritative; the pre-check exists to fail cheap before
// entering the per-service critical section.
func (s *BookingService) CreateBooking(ctx context.Context, c booking.Candidate) (*models.Booking, error) {
	svc, err := s.catalog.GetBookable(ctx, c.ServiceID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateCustomer(c.Customer, c.Notes); err != nil {
		return nil, err
	}

	iv, err := s.validator.Validate(c, svc)
	if err != nil {
		return nil, err
	}

	if err := s.checkAdvanceWindow(iv.Start); err != nil {
		return nil, err
	}

	// Advisory pre-check; a race past this point is caught at commit time.
	if blocking, err := s.detector.FindOverlap(ctx, c.ServiceID, iv); err != nil {
		return nil, fmt.Errorf("conflict pre-check: %w", err)
	} else if blocking != nil {
		metrics.IncBookingConflict()
		return nil, booking.NewConflictError(
			"interval [%s, %s) on service %d is taken by booking %d",
			iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339),
			c.ServiceID, blocking.ID,
		)
	}

	created, err := s.committer.Commit(ctx, c.ServiceID, iv, c.Customer, c.Notes)
	if err != nil {
		if booking.KindOf(err) == booking.KindConflict {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	metrics.IncBookingCreated()
	if s.bus != nil {
		_ = s.bus.PublishJSON(events.TypeBookingCreated, created)
	}
	return created, nil
}

// ChangeStatus validates and applies a status transition.
func (s *BookingService) ChangeStatus(ctx context.Context, id int64, raw string) (*models.Booking, error) {
	status, err := models.ParseStatus(raw)
	if err != nil {
		return nil, booking.NewValidationError("%v", err)
	}

	b, changed, err := s.lifecycle.Transition(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Idempotent re-application; nothing to report.
		return b, nil
	}

	metrics.IncStatusChanged(string(status))
	if s.bus != nil {
		_ = s.bus.PublishJSON(events.TypeBookingStatusChanged, b)
	}
	s.logger.Info().
		Int64("booking_id", id).
		Str("status", string(status)).
		Msg("booking status changed")
	return b, nil
}

// Cancel is equivalent to ChangeStatus(id, cancelled). Cancelling an
// already-cancelled booking succeeds with unchanged state.
func (s *BookingService) Cancel(ctx context.Context, id int64) (*models.Booking, error) {
	return s.ChangeStatus(ctx, id, string(models.StatusCancelled))
}

// GetBooking returns a booking by id.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	b, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, booking.NewNotFoundError("booking %d not found", id)
	}
	return b, nil
}

// ListBookings is a read-only query with no invariant obligations.
func (s *BookingService) ListBookings(ctx context.Context, filter database.BookingFilter) ([]models.Booking, error) {
	return s.repo.ListBookings(ctx, filter)
}

func (s *BookingService) checkAdvanceWindow(start time.Time) error {
	now := s.clock.Now()
	if s.rules.MinAdvance > 0 && start.Before(now.Add(s.rules.MinAdvance)) {
		return booking.NewValidationError("bookings must start at least %s from now", s.rules.MinAdvance)
	}
	if s.rules.MaxAdvance > 0 && start.After(now.Add(s.rules.MaxAdvance)) {
		return booking.NewValidationError("bookings cannot start more than %s from now", s.rules.MaxAdvance)
	}
	return nil
}
