package booking

import (
	"errors"
	"fmt"
)

// ErrorKind is a stable classification for booking failures. Every kind maps
// to exactly one caller policy: validation and invalid-transition errors are
// client-fixable, conflict errors require re-querying availability, busy
// errors are transient and safe to retry with backoff.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindConflict          ErrorKind = "conflict"
	KindNotFound          ErrorKind = "not_found"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindBusy              ErrorKind = "busy"
)

// Sentinel errors for errors.Is checks.
var (
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("time slot already booked")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrBusy              = errors.New("resource busy, retry later")
)

// Error carries a kind plus human-readable detail. It wraps the matching
// sentinel so callers may use either errors.Is or KindOf.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	switch e.Kind {
	case KindValidation:
		return ErrValidation
	case KindConflict:
		return ErrConflict
	case KindNotFound:
		return ErrNotFound
	case KindInvalidTransition:
		return ErrInvalidTransition
	case KindBusy:
		return ErrBusy
	}
	return nil
}

// NewValidationError reports a malformed or illegal request.
func NewValidationError(format string, args ...any) error {
	return &Error{Kind: KindValidation, Detail: fmt.Sprintf(format, args...)}
}

// NewConflictError reports that the requested interval is unavailable.
func NewConflictError(format string, args ...any) error {
	return &Error{Kind: KindConflict, Detail: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports an unknown service or booking id.
func NewNotFoundError(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Detail: fmt.Sprintf(format, args...)}
}

// NewInvalidTransitionError reports a status change not permitted from the
// booking's current state.
func NewInvalidTransitionError(format string, args ...any) error {
	return &Error{Kind: KindInvalidTransition, Detail: fmt.Sprintf(format, args...)}
}

// NewBusyError reports that the per-service critical section could not be
// acquired within the configured bound.
func NewBusyError(format string, args ...any) error {
	return &Error{Kind: KindBusy, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, or "" for unclassified errors.
func KindOf(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrBusy):
		return KindBusy
	}
	return ""
}
