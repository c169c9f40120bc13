// Package reminders scans for upcoming bookings and publishes reminder
// events for downstream notifiers.
package reminders

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Somprasong001/simple-booking-app/internal/booking"
	"github.com/Somprasong001/simple-booking-app/internal/database"
	"github.com/Somprasong001/simple-booking-app/internal/events"
	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// BookingSource lists bookings for the reminder scan.
type BookingSource interface {
	ListBookings(ctx context.Context, filter database.BookingFilter) ([]models.Booking, error)
}

// EventPublisher publishes reminder events.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Reminder is the payload published for each upcoming booking.
type Reminder struct {
	BookingID int64     `json:"booking_id"`
	Reference string    `json:"reference"`
	ServiceID int64     `json:"service_id"`
	StartTime time.Time `json:"start_time"`
	Email     string    `json:"email"`
}

// Scheduler periodically looks ahead a fixed window and publishes one
// reminder per booking that starts inside it.
type Scheduler struct {
	source BookingSource
	bus    EventPublisher
	clock  booking.Clock
	lead   time.Duration
	every  time.Duration
	logger zerolog.Logger

	sent map[int64]struct{}
}

// NewScheduler builds a scheduler that reminds lead ahead of start time,
// scanning every interval. Zero durations fall back to 24h lead and hourly
// scans.
func NewScheduler(source BookingSource, bus EventPublisher, clock booking.Clock, lead, every time.Duration, logger *zerolog.Logger) *Scheduler {
	if clock == nil {
		clock = booking.SystemClock()
	}
	if lead <= 0 {
		lead = 24 * time.Hour
	}
	if every <= 0 {
		every = time.Hour
	}
	return &Scheduler{
		source: source,
		bus:    bus,
		clock:  clock,
		lead:   lead,
		every:  every,
		logger: logger.With().Str("component", "reminders").Logger(),
		sent:   make(map[int64]struct{}),
	}
}

// Start scans until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info().Dur("lead", s.lead).Dur("every", s.every).Msg("reminder scheduler started")

	ticker := time.NewTicker(s.every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("reminder scan failed")
			}
		}
	}
}

// RunOnce performs a single scan and returns how many reminders were
// published. Each booking is reminded at most once per process lifetime.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	now := s.clock.Now()
	upcoming, err := s.source.ListBookings(ctx, database.BookingFilter{
		From: now,
		To:   now.Add(s.lead),
	})
	if err != nil {
		return 0, err
	}

	published := 0
	for _, b := range upcoming {
		if !b.Status.Blocking() {
			continue
		}
		if _, done := s.sent[b.ID]; done {
			continue
		}

		err := s.bus.PublishJSON(events.TypeBookingReminder, Reminder{
			BookingID: b.ID,
			Reference: b.Reference,
			ServiceID: b.ServiceID,
			StartTime: b.StartTime,
			Email:     b.Customer.Email,
		})
		if err != nil {
			s.logger.Error().Err(err).Int64("booking_id", b.ID).Msg("publish reminder")
			continue
		}

		s.sent[b.ID] = struct{}{}
		published++
		s.logger.Debug().
			Int64("booking_id", b.ID).
			Time("start", b.StartTime).
			Msg("reminder published")
	}
	return published, nil
}
