package booking

import (
	"context"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// ConflictRepository answers overlap queries for a single service.
// The query must be scoped by service id and exclude only cancelled
// bookings; completed bookings still occupy their historical slot.
type ConflictRepository interface {
	FindOverlapping(ctx context.Context, serviceID int64, iv models.Interval) (*models.Booking, error)
}

// Detector answers "would this interval conflict right now". The answer is
// advisory: two callers can both see no conflict before either commits, so
// the committer re-checks under its critical section and its verdict is the
// authoritative one.
type Detector struct {
	repo ConflictRepository
}

// NewDetector creates a conflict detector over the repository.
func NewDetector(repo ConflictRepository) *Detector {
	return &Detector{repo: repo}
}

// FindOverlap returns the first non-cancelled booking for serviceID whose
// interval overlaps iv, or nil when the slot is free.
func (d *Detector) FindOverlap(ctx context.Context, serviceID int64, iv models.Interval) (*models.Booking, error) {
	return d.repo.FindOverlapping(ctx, serviceID, iv)
}
