// Package catalog is the service catalog read/write surface. The reservation
// core consumes it as read-only reference data: one lookup per request to
// derive end times and to reject bookings on inactive services.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Somprasong001/simple-booking-app/internal/booking"
	"github.com/Somprasong001/simple-booking-app/internal/models"
)

// Repository is the persistence surface for services.
type Repository interface {
	CreateService(ctx context.Context, s *models.Service) error
	GetService(ctx context.Context, id int64) (*models.Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	UpdateService(ctx context.Context, s *models.Service) error
	DeactivateService(ctx context.Context, id int64) error
}

// Catalog wraps the repository with validation and an optional Redis cache
// for single-service reads.
type Catalog struct {
	repo     Repository
	redis    *redis.Client
	cacheTTL time.Duration
}

// New creates a catalog without caching.
func New(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// UseRedisCache configures optional Redis caching for service lookups.
func (c *Catalog) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// Get returns the service by id. Inactive services are returned as-is;
// callers decide whether inactivity matters.
func (c *Catalog) Get(ctx context.Context, id int64) (*models.Service, error) {
	cacheKey := fmt.Sprintf("service:%d", id)
	var cached models.Service
	if c.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	s, err := c.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, booking.NewNotFoundError("service %d not found", id)
	}
	c.writeCache(ctx, cacheKey, s)
	return s, nil
}

// GetBookable returns the service only when it is active.
func (c *Catalog) GetBookable(ctx context.Context, id int64) (*models.Service, error) {
	s, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.IsActive {
		return nil, booking.NewNotFoundError("service %d is no longer offered", id)
	}
	return s, nil
}

// List returns services, optionally only active ones.
func (c *Catalog) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	return c.repo.ListServices(ctx, activeOnly)
}

// Create validates and stores a new service.
func (c *Catalog) Create(ctx context.Context, s *models.Service) error {
	if err := validateService(s); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(s.Name)
	s.IsActive = true
	return c.repo.CreateService(ctx, s)
}

// Update validates and writes mutable fields, then drops the cache entry.
func (c *Catalog) Update(ctx context.Context, s *models.Service) error {
	if err := validateService(s); err != nil {
		return err
	}
	existing, err := c.repo.GetService(ctx, s.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return booking.NewNotFoundError("service %d not found", s.ID)
	}
	if err := c.repo.UpdateService(ctx, s); err != nil {
		return err
	}
	c.dropCache(ctx, s.ID)
	return nil
}

// Deactivate soft-deletes a service and drops its cache entry.
func (c *Catalog) Deactivate(ctx context.Context, id int64) error {
	existing, err := c.repo.GetService(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return booking.NewNotFoundError("service %d not found", id)
	}
	if err := c.repo.DeactivateService(ctx, id); err != nil {
		return err
	}
	c.dropCache(ctx, id)
	return nil
}

func validateService(s *models.Service) error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return booking.NewValidationError("service name is required")
	}
	if len(name) > models.MaxServiceNameLen {
		return booking.NewValidationError("service name must not exceed %d characters", models.MaxServiceNameLen)
	}
	if len(s.Description) > models.MaxDescriptionLen {
		return booking.NewValidationError("description must not exceed %d characters", models.MaxDescriptionLen)
	}
	if s.Price < 0 {
		return booking.NewValidationError("price must be non-negative")
	}
	if s.Duration < models.MinDurationMin || s.Duration > models.MaxDurationMin {
		return booking.NewValidationError("duration must be between %d and %d minutes",
			models.MinDurationMin, models.MaxDurationMin)
	}
	return nil
}

func (c *Catalog) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Catalog) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Catalog) dropCache(ctx context.Context, id int64) {
	if c.redis == nil {
		return
	}
	_ = c.redis.Del(ctx, fmt.Sprintf("service:%d", id)).Err()
}
