// Package booking implements the reservation core: interval validation,
// conflict detection, the atomic commit path and the booking status machine.
package booking

import (
	"regexp"
	"strings"
	"time"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// Clock supplies the current time. Injected so validation of past-dated
// requests is testable.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns wall-clock time.
func SystemClock() Clock { return ClockFunc(time.Now) }

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{9,10}$`)
)

// Candidate is a booking request before validation.
type Candidate struct {
	ServiceID int64
	StartTime time.Time
	EndTime   time.Time // zero value means "derive from service duration"
	Customer  models.Customer
	Notes     string
}

// Validator checks the structural validity of booking candidates.
// It is a pure function of its inputs plus the injected clock.
type Validator struct {
	clock Clock
}

// NewValidator creates a validator using the given clock.
func NewValidator(clock Clock) *Validator {
	if clock == nil {
		clock = SystemClock()
	}
	return &Validator{clock: clock}
}

// Validate applies the interval rules in order, short-circuiting on the
// first failure, and returns the effective interval. The service supplies
// the fixed duration used to derive a missing end time; when the candidate
// carries an explicit end time it must match start + duration.
//
// The past-date check uses the clock at request-processing time, never a
// client-submitted timestamp.
func (v *Validator) Validate(c Candidate, svc *models.Service) (models.Interval, error) {
	if c.StartTime.IsZero() {
		return models.Interval{}, NewValidationError("start time is required")
	}

	end := c.EndTime
	if end.IsZero() {
		if svc == nil || svc.Duration <= 0 {
			return models.Interval{}, NewValidationError("end time is required")
		}
		end = c.StartTime.Add(svc.DurationSpan())
	}

	if !c.StartTime.Before(end) {
		return models.Interval{}, NewValidationError("end time must be after start time")
	}

	if c.StartTime.Before(v.clock.Now()) {
		return models.Interval{}, NewValidationError("cannot book in the past")
	}

	if svc != nil && svc.Duration > 0 && !end.Equal(c.StartTime.Add(svc.DurationSpan())) {
		return models.Interval{}, NewValidationError(
			"end time must equal start time plus service duration (%d min)", svc.Duration)
	}

	// Intervals are compared and stored in UTC so bookings submitted with
	// different zone offsets land on one timeline.
	return models.Interval{Start: c.StartTime.UTC(), End: end.UTC()}, nil
}

// ValidateCustomer checks the contact details the same way the catalog
// schema does: name and notes are bounded, email and phone must match the
// accepted formats.
func (v *Validator) ValidateCustomer(c models.Customer, notes string) error {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return NewValidationError("customer name is required")
	}
	if len(name) > models.MaxServiceNameLen {
		return NewValidationError("customer name must not exceed %d characters", models.MaxServiceNameLen)
	}
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if !emailRe.MatchString(email) {
		return NewValidationError("invalid email format")
	}
	if !phoneRe.MatchString(strings.TrimSpace(c.Phone)) {
		return NewValidationError("phone must be 9-10 digits")
	}
	if len(notes) > models.MaxDescriptionLen {
		return NewValidationError("notes must not exceed %d characters", models.MaxDescriptionLen)
	}
	return nil
}

// NormalizeCustomer trims whitespace and lowercases the email, matching the
// stored form.
func NormalizeCustomer(c models.Customer) models.Customer {
	return models.Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Phone: strings.TrimSpace(c.Phone),
	}
}
