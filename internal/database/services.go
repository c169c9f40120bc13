package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

const serviceColumns = `id, name, description, price, duration, is_active, created_at, updated_at`

func scanService(row rowScanner) (*models.Service, error) {
	var s models.Service
	err := row.Scan(
		&s.ID, &s.Name, &s.Description, &s.Price, &s.Duration,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateService inserts a new service and fills in its id.
func (db *DB) CreateService(ctx context.Context, s *models.Service) error {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO services (name, description, price, duration, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Description, s.Price, s.Duration, s.IsActive, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

// GetService returns a service by id, or nil when unknown.
func (db *DB) GetService(ctx context.Context, id int64) (*models.Service, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	s, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get service %d: %w", id, err)
	}
	return s, nil
}

// ListServices returns services, newest first, optionally only active ones.
func (db *DB) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

// UpdateService writes mutable fields of a service.
func (db *DB) UpdateService(ctx context.Context, s *models.Service) error {
	res, err := db.ExecContext(ctx, `
		UPDATE services
		SET name = ?, description = ?, price = ?, duration = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Description, s.Price, s.Duration, s.IsActive, time.Now(), s.ID,
	)
	if err != nil {
		return fmt.Errorf("update service %d: %w", s.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeactivateService soft-deletes a service. Existing bookings keep their
// history; new bookings on the service are rejected at the catalog layer.
func (db *DB) DeactivateService(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx,
		`UPDATE services SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("deactivate service %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
