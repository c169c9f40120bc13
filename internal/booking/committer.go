package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// CommitRepository is the conditional-write surface of the store. The
// implementation must run the overlap re-check and the insert as one
// atomic operation (a transaction on SQL stores).
type CommitRepository interface {
	// CreateBookingIfFree inserts b only if no conflicting non-cancelled
	// booking exists for the same service at write time. On conflict it
	// returns the blocking booking and a KindConflict error.
	CreateBookingIfFree(ctx context.Context, b *models.Booking) (*models.Booking, error)
}

// Committer performs the atomic check-and-insert. Two overlapping requests
// for the same service racing through Commit yield exactly one winner; the
// loser gets a conflict error even if an earlier advisory check reported the
// slot free.
type Committer struct {
	repo   CommitRepository
	locks  *LockTable
	clock  Clock
	logger zerolog.Logger
}

// NewCommitter creates a committer using the given per-service lock table.
func NewCommitter(repo CommitRepository, locks *LockTable, clock Clock, logger zerolog.Logger) *Committer {
	if locks == nil {
		locks = NewLockTable(DefaultLockWait)
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Committer{
		repo:   repo,
		locks:  locks,
		clock:  clock,
		logger: logger.With().Str("component", "committer").Logger(),
	}
}

// Commit persists a new pending booking for the interval, contingent on the
// absence of conflict. The check and the insert execute inside the service's
// critical section so no other writer's check-and-insert can interleave.
// Returns KindBusy when the critical section cannot be acquired within the
// lock table's bound.
func (c *Committer) Commit(ctx context.Context, serviceID int64, iv models.Interval, customer models.Customer, notes string) (*models.Booking, error) {
	release, err := c.locks.Acquire(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := c.clock.Now()
	b := &models.Booking{
		Reference: uuid.NewString(),
		ServiceID: serviceID,
		StartTime: iv.Start,
		EndTime:   iv.End,
		Customer:  NormalizeCustomer(customer),
		Status:    models.StatusPending,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := c.repo.CreateBookingIfFree(ctx, b)
	if err != nil {
		if KindOf(err) == KindConflict {
			c.logger.Debug().
				Int64("service_id", serviceID).
				Time("start", iv.Start).
				Time("end", iv.End).
				Msg("commit rejected, slot taken")
		}
		return nil, err
	}

	c.logger.Info().
		Int64("booking_id", created.ID).
		Int64("service_id", serviceID).
		Time("start", iv.Start).
		Dur("length", iv.Duration()).
		Msg("booking committed")
	return created, nil
}
