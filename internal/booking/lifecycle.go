package booking

import (
	"context"
	"time"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// LifecycleRepository is the store surface the status machine needs.
type LifecycleRepository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status models.Status, updatedAt time.Time) error
}

// Lifecycle enforces the booking status machine. Transitions are held in a
// table keyed by current status so the graph stays configurable; the default
// table is the strict one. Re-applying the current status is a no-op success.
type Lifecycle struct {
	repo        LifecycleRepository
	clock       Clock
	transitions map[models.Status][]models.Status
}

// DefaultTransitions returns the strict transition table: cancelled and
// completed are terminal, everything else may be cancelled explicitly.
func DefaultTransitions() map[models.Status][]models.Status {
	return map[models.Status][]models.Status{
		models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted},
		models.StatusConfirmed: {models.StatusCancelled, models.StatusCompleted},
		models.StatusCancelled: {},
		models.StatusCompleted: {},
	}
}

// LenientTransitions mirrors the legacy behavior where a status update
// accepted any of the four values regardless of current state.
func LenientTransitions() map[models.Status][]models.Status {
	all := []models.Status{
		models.StatusPending, models.StatusConfirmed,
		models.StatusCancelled, models.StatusCompleted,
	}
	return map[models.Status][]models.Status{
		models.StatusPending:   all,
		models.StatusConfirmed: all,
		models.StatusCancelled: all,
		models.StatusCompleted: all,
	}
}

// LifecycleOption customizes the status machine.
type LifecycleOption func(*Lifecycle)

// WithTransitions replaces the transition table.
func WithTransitions(t map[models.Status][]models.Status) LifecycleOption {
	return func(l *Lifecycle) { l.transitions = t }
}

// WithLifecycleClock replaces the clock used for updated_at stamps.
func WithLifecycleClock(c Clock) LifecycleOption {
	return func(l *Lifecycle) { l.clock = c }
}

// NewLifecycle creates the status machine over the given repository.
func NewLifecycle(repo LifecycleRepository, opts ...LifecycleOption) *Lifecycle {
	l := &Lifecycle{
		repo:        repo,
		clock:       SystemClock(),
		transitions: DefaultTransitions(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CanTransition checks the table without touching the store.
func (l *Lifecycle) CanTransition(from, to models.Status) bool {
	for _, s := range l.transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the booking to the requested status and stamps
// updated_at. It never re-runs conflict detection: a cancellation cannot
// conflict, and a confirmation of a non-overlapping pending booking needs
// no re-check under the non-overlap invariant.
//
// changed is false when the request re-applied the current status; the
// store is untouched then and callers should not report a transition.
func (l *Lifecycle) Transition(ctx context.Context, id int64, requested models.Status) (b *models.Booking, changed bool, err error) {
	b, err = l.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if b == nil {
		return nil, false, NewNotFoundError("booking %d not found", id)
	}

	// Idempotent re-application of the current status.
	if b.Status == requested {
		return b, false, nil
	}

	if !l.CanTransition(b.Status, requested) {
		return nil, false, NewInvalidTransitionError("cannot change booking %d from %s to %s", id, b.Status, requested)
	}

	now := l.clock.Now()
	if err := l.repo.UpdateBookingStatus(ctx, id, requested, now); err != nil {
		return nil, false, err
	}

	b.Status = requested
	b.UpdatedAt = now
	return b, true, nil
}

// Cancel is shorthand for a transition to cancelled.
func (l *Lifecycle) Cancel(ctx context.Context, id int64) (*models.Booking, bool, error) {
	return l.Transition(ctx, id, models.StatusCancelled)
}
