package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

type mockLifecycleRepo struct {
	mock.Mock
}

func (m *mockLifecycleRepo) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *mockLifecycleRepo) UpdateBookingStatus(ctx context.Context, id int64, status models.Status, updatedAt time.Time) error {
	return m.Called(ctx, id, status, updatedAt).Error(0)
}

func TestLifecycle_Transition(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		from     models.Status
		to       models.Status
		allowed  bool
	}{
		{name: "pending to confirmed", from: models.StatusPending, to: models.StatusConfirmed, allowed: true},
		{name: "pending to cancelled", from: models.StatusPending, to: models.StatusCancelled, allowed: true},
		{name: "pending to completed", from: models.StatusPending, to: models.StatusCompleted, allowed: true},
		{name: "confirmed to cancelled", from: models.StatusConfirmed, to: models.StatusCancelled, allowed: true},
		{name: "confirmed to completed", from: models.StatusConfirmed, to: models.StatusCompleted, allowed: true},
		{name: "confirmed to pending", from: models.StatusConfirmed, to: models.StatusPending, allowed: false},
		{name: "cancelled to confirmed", from: models.StatusCancelled, to: models.StatusConfirmed, allowed: false},
		{name: "cancelled to pending", from: models.StatusCancelled, to: models.StatusPending, allowed: false},
		{name: "completed to cancelled", from: models.StatusCompleted, to: models.StatusCancelled, allowed: false},
		{name: "completed to confirmed", from: models.StatusCompleted, to: models.StatusConfirmed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockLifecycleRepo)
			lc := NewLifecycle(repo, WithLifecycleClock(fixedClock()))

			repo.On("GetBooking", ctx, int64(7)).Return(&models.Booking{ID: 7, Status: tt.from}, nil).Once()
			if tt.allowed {
				repo.On("UpdateBookingStatus", ctx, int64(7), tt.to, testNow).Return(nil).Once()
			}

			b, changed, err := lc.Transition(ctx, 7, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				assert.True(t, changed)
				assert.Equal(t, tt.to, b.Status)
				assert.Equal(t, testNow, b.UpdatedAt)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestLifecycle_IdempotentSameStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLifecycleRepo)
	lc := NewLifecycle(repo)

	// Re-applying the current status never writes.
	existing := &models.Booking{ID: 3, Status: models.StatusCancelled}
	repo.On("GetBooking", ctx, int64(3)).Return(existing, nil).Once()

	b, changed, err := lc.Cancel(ctx, 3)
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.StatusCancelled, b.Status)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "UpdateBookingStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLifecycle_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLifecycleRepo)
	lc := NewLifecycle(repo)

	repo.On("GetBooking", ctx, int64(99)).Return(nil, nil).Once()

	_, _, err := lc.Transition(ctx, 99, models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLifecycle_LenientTransitions(t *testing.T) {
	ctx := context.Background()
	repo := new(mockLifecycleRepo)
	lc := NewLifecycle(repo, WithTransitions(LenientTransitions()), WithLifecycleClock(fixedClock()))

	// The legacy graph accepts any status from any state.
	repo.On("GetBooking", ctx, int64(5)).Return(&models.Booking{ID: 5, Status: models.StatusCancelled}, nil).Once()
	repo.On("UpdateBookingStatus", ctx, int64(5), models.StatusConfirmed, testNow).Return(nil).Once()

	b, changed, err := lc.Transition(ctx, 5, models.StatusConfirmed)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.StatusConfirmed, b.Status)
	repo.AssertExpectations(t)
}

func TestLifecycle_CanTransition(t *testing.T) {
	lc := NewLifecycle(nil)
	assert.True(t, lc.CanTransition(models.StatusPending, models.StatusConfirmed))
	assert.False(t, lc.CanTransition(models.StatusCancelled, models.StatusCompleted))
	assert.False(t, lc.CanTransition("unknown", models.StatusPending))
}
