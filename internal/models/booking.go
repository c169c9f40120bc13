package models

import (
	"fmt"
	"time"
)

// Status represents the lifecycle status of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// IsTerminal reports whether no further transition away from the status is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Blocking reports whether a booking in this status occupies its time slot
// for conflict purposes. Cancelling frees the interval; a completed booking
// keeps its historical slot occupied.
func (s Status) Blocking() bool {
	return s != StatusCancelled
}

// Interval is a half-open time range [Start, End) during which a service
// is occupied.
type Interval struct {
	Start time.Time `json:"start_time"`
	End   time.Time `json:"end_time"`
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps checks two half-open intervals for overlap.
// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1, so a booking ending
// at 10:00 does not conflict with one starting at 10:00.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Customer holds contact details supplied with a booking. The reservation
// core treats it as opaque beyond validation.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Booking represents one reservation of a service for a time interval.
type Booking struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"` // external UUID handed to clients
	ServiceID int64     `json:"service_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Customer  Customer  `json:"customer"`
	Status    Status    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Interval returns the booked time range.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// OverlapsWith checks if this booking overlaps another in time.
// Half-open [start, end) semantics; the end boundary is exclusive.
func (b *Booking) OverlapsWith(other *Booking) bool {
	return b.Interval().Overlaps(other.Interval())
}
