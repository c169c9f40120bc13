package models

import "time"

// Limits from the service catalog schema.
const (
	MaxServiceNameLen = 100
	MaxDescriptionLen = 500
	MinDurationMin    = 15
	MaxDurationMin    = 480
)

// Service is a bookable offering with a fixed duration in minutes.
// The reservation core reads it as reference data only.
type Service struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Duration    int       `json:"duration"` // minutes
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DurationSpan returns the declared duration as a time.Duration.
func (s *Service) DurationSpan() time.Duration {
	return time.Duration(s.Duration) * time.Minute
}
