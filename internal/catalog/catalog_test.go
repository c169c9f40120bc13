package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Somprasong001/simple-booking-app/internal/booking"
	"github.com/Somprasong001/simple-booking-app/internal/models"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) CreateService(ctx context.Context, s *models.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockRepo) GetService(ctx context.Context, id int64) (*models.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Service), args.Error(1)
}

func (m *mockRepo) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]models.Service), args.Error(1)
}

func (m *mockRepo) UpdateService(ctx context.Context, s *models.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *mockRepo) DeactivateService(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestCatalog_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo := new(mockRepo)
		cat := New(repo)
		repo.On("GetService", ctx, int64(1)).Return(&models.Service{ID: 1, Duration: 30}, nil).Once()

		got, err := cat.Get(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		repo.AssertExpectations(t)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := new(mockRepo)
		cat := New(repo)
		repo.On("GetService", ctx, int64(2)).Return(nil, nil).Once()

		_, err := cat.Get(ctx, 2)
		assert.ErrorIs(t, err, booking.ErrNotFound)
	})
}

func TestCatalog_GetBookable(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	cat := New(repo)

	repo.On("GetService", ctx, int64(1)).Return(&models.Service{ID: 1, IsActive: false}, nil).Once()

	_, err := cat.GetBookable(ctx, 1)
	assert.ErrorIs(t, err, booking.ErrNotFound)
	assert.Contains(t, err.Error(), "no longer offered")
}

func TestCatalog_CreateValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		svc     models.Service
		wantErr string
	}{
		{name: "missing name", svc: models.Service{Duration: 30}, wantErr: "name is required"},
		{name: "negative price", svc: models.Service{Name: "X", Price: -1, Duration: 30}, wantErr: "price"},
		{name: "duration too short", svc: models.Service{Name: "X", Duration: 10}, wantErr: "duration"},
		{name: "duration too long", svc: models.Service{Name: "X", Duration: 500}, wantErr: "duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			cat := New(repo)
			err := cat.Create(ctx, &tt.svc)
			assert.ErrorIs(t, err, booking.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
			repo.AssertNotCalled(t, "CreateService", mock.Anything, mock.Anything)
		})
	}

	t.Run("valid service is stored active", func(t *testing.T) {
		repo := new(mockRepo)
		cat := New(repo)
		svc := &models.Service{Name: " Massage ", Duration: 60}
		repo.On("CreateService", ctx, svc).Return(nil).Once()

		assert.NoError(t, cat.Create(ctx, svc))
		assert.Equal(t, "Massage", svc.Name)
		assert.True(t, svc.IsActive)
		repo.AssertExpectations(t)
	})
}

func TestCatalog_UpdateUnknown(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	cat := New(repo)

	repo.On("GetService", ctx, int64(9)).Return(nil, nil).Once()

	err := cat.Update(ctx, &models.Service{ID: 9, Name: "X", Duration: 30})
	assert.ErrorIs(t, err, booking.ErrNotFound)
	repo.AssertNotCalled(t, "UpdateService", mock.Anything, mock.Anything)
}

func TestCatalog_Deactivate(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	cat := New(repo)

	repo.On("GetService", ctx, int64(3)).Return(&models.Service{ID: 3, IsActive: true}, nil).Once()
	repo.On("DeactivateService", ctx, int64(3)).Return(nil).Once()

	assert.NoError(t, cat.Deactivate(ctx, 3))
	repo.AssertExpectations(t)
}
