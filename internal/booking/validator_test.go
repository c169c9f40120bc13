package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

var testNow = time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)

func fixedClock() Clock {
	return ClockFunc(func() time.Time { return testNow })
}

func validCustomer() models.Customer {
	return models.Customer{Name: "Somchai", Email: "somchai@example.com", Phone: "0812345678"}
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(fixedClock())
	svc := &models.Service{ID: 1, Duration: 30, IsActive: true}

	tests := []struct {
		name    string
		c       Candidate
		svc     *models.Service
		wantErr string
		wantEnd time.Time
	}{
		{
			name:    "valid with explicit end",
			c:       Candidate{StartTime: testNow.Add(time.Hour), EndTime: testNow.Add(time.Hour + 30*time.Minute)},
			svc:     svc,
			wantEnd: testNow.Add(time.Hour + 30*time.Minute),
		},
		{
			name:    "end derived from service duration",
			c:       Candidate{StartTime: testNow.Add(time.Hour)},
			svc:     svc,
			wantEnd: testNow.Add(time.Hour + 30*time.Minute),
		},
		{
			name:    "missing start",
			c:       Candidate{},
			svc:     svc,
			wantErr: "start time is required",
		},
		{
			name:    "inverted range",
			c:       Candidate{StartTime: testNow.Add(2 * time.Hour), EndTime: testNow.Add(time.Hour)},
			svc:     svc,
			wantErr: "end time must be after start time",
		},
		{
			name:    "zero-length range",
			c:       Candidate{StartTime: testNow.Add(time.Hour), EndTime: testNow.Add(time.Hour)},
			svc:     svc,
			wantErr: "end time must be after start time",
		},
		{
			name:    "past-dated start",
			c:       Candidate{StartTime: testNow.Add(-time.Minute), EndTime: testNow.Add(29 * time.Minute)},
			svc:     svc,
			wantErr: "cannot book in the past",
		},
		{
			name:    "end does not match service duration",
			c:       Candidate{StartTime: testNow.Add(time.Hour), EndTime: testNow.Add(time.Hour + 45*time.Minute)},
			svc:     svc,
			wantErr: "service duration",
		},
		{
			name:    "no end and no duration to derive from",
			c:       Candidate{StartTime: testNow.Add(time.Hour)},
			svc:     nil,
			wantErr: "end time is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv, err := v.Validate(tt.c, tt.svc)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.c.StartTime, iv.Start)
			assert.Equal(t, tt.wantEnd, iv.End)
		})
	}
}

func TestValidator_NormalizesToUTC(t *testing.T) {
	v := NewValidator(fixedClock())
	svc := &models.Service{ID: 1, Duration: 30, IsActive: true}

	bangkok := time.FixedZone("ICT", 7*3600)
	start := testNow.Add(time.Hour).In(bangkok)

	iv, err := v.Validate(Candidate{StartTime: start}, svc)
	assert.NoError(t, err)
	assert.Equal(t, time.UTC, iv.Start.Location())
	assert.Equal(t, time.UTC, iv.End.Location())
	assert.True(t, iv.Start.Equal(start))
}

func TestValidator_PastCheckUsesClock(t *testing.T) {
	// Same candidate, different clocks: the verdict follows processing time,
	// not anything the client submitted.
	start := testNow.Add(30 * time.Minute)
	c := Candidate{StartTime: start, EndTime: start.Add(30 * time.Minute)}
	svc := &models.Service{Duration: 30}

	early := NewValidator(fixedClock())
	_, err := early.Validate(c, svc)
	assert.NoError(t, err)

	late := NewValidator(ClockFunc(func() time.Time { return testNow.Add(time.Hour) }))
	_, err = late.Validate(c, svc)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidator_ValidateCustomer(t *testing.T) {
	v := NewValidator(fixedClock())

	tests := []struct {
		name     string
		customer models.Customer
		notes    string
		wantErr  string
	}{
		{name: "valid", customer: validCustomer()},
		{name: "valid 9 digit phone", customer: models.Customer{Name: "A", Email: "a@b.co", Phone: "812345678"}},
		{name: "missing name", customer: models.Customer{Email: "a@b.co", Phone: "0812345678"}, wantErr: "name is required"},
		{name: "bad email", customer: models.Customer{Name: "A", Email: "not-an-email", Phone: "0812345678"}, wantErr: "email"},
		{name: "short phone", customer: models.Customer{Name: "A", Email: "a@b.co", Phone: "12345"}, wantErr: "phone"},
		{name: "alpha phone", customer: models.Customer{Name: "A", Email: "a@b.co", Phone: "08123456ab"}, wantErr: "phone"},
		{
			name:     "oversized notes",
			customer: validCustomer(),
			notes:    string(make([]byte, models.MaxDescriptionLen+1)),
			wantErr:  "notes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCustomer(tt.customer, tt.notes)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNormalizeCustomer(t *testing.T) {
	got := NormalizeCustomer(models.Customer{
		Name:  "  Somchai  ",
		Email: " Somchai@Example.COM ",
		Phone: " 0812345678 ",
	})
	assert.Equal(t, "Somchai", got.Name)
	assert.Equal(t, "somchai@example.com", got.Email)
	assert.Equal(t, "0812345678", got.Phone)
}
