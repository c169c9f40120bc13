package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Somprasong001/simple-booking-app/internal/booking"
	"github.com/Somprasong001/simple-booking-app/internal/models"
)

const bookingColumns = `id, reference, service_id, start_time, end_time,
	customer_name, customer_email, customer_phone, status, notes, created_at, updated_at`

// Overlap condition for half-open [start, end) intervals, scoped by service.
// Cancelled bookings free their slot; completed ones keep occupying history.
// Bound timestamps must be UTC: the driver stores time.Time as text with its
// offset, so comparing mixed offsets lexicographically would miss overlaps.
const overlapWhere = `service_id = ?
	AND start_time < ? AND end_time > ?
	AND status != 'cancelled'`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var status string
	err := row.Scan(
		&b.ID, &b.Reference, &b.ServiceID, &b.StartTime, &b.EndTime,
		&b.Customer.Name, &b.Customer.Email, &b.Customer.Phone,
		&status, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Status = models.Status(status)
	return &b, nil
}

// FindOverlapping returns the first non-cancelled booking for serviceID
// whose interval overlaps iv, ordered by start time.
func (db *DB) FindOverlapping(ctx context.Context, serviceID int64, iv models.Interval) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE `+overlapWhere+`
		ORDER BY start_time
		LIMIT 1`,
		serviceID, iv.End.UTC(), iv.Start.UTC(),
	)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find overlapping: %w", err)
	}
	return b, nil
}

// CreateBookingIfFree inserts b only if no conflicting booking exists at the
// moment of the write. The overlap re-check and the insert run in one
// transaction; callers additionally hold the per-service lock so no other
// writer's check-and-insert can interleave.
func (db *DB) CreateBookingIfFree(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	b.StartTime = b.StartTime.UTC()
	b.EndTime = b.EndTime.UTC()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE `+overlapWhere+`
		LIMIT 1`,
		b.ServiceID, b.EndTime, b.StartTime,
	)
	blocking, err := scanBooking(row)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("overlap re-check: %w", err)
	}
	if blocking != nil {
		return nil, booking.NewConflictError(
			"interval [%s, %s) on service %d is taken by booking %d",
			b.StartTime.Format(time.RFC3339), b.EndTime.Format(time.RFC3339),
			b.ServiceID, blocking.ID,
		)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (
			reference, service_id, start_time, end_time,
			customer_name, customer_email, customer_phone,
			status, notes, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, b.ServiceID, b.StartTime, b.EndTime,
		b.Customer.Name, b.Customer.Email, b.Customer.Phone,
		string(b.Status), b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	b.ID = id
	return b, nil
}

// GetBooking returns a booking by id, or nil when unknown.
func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

// UpdateBookingStatus writes a new status and updated_at for a booking.
func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.Status, updatedAt time.Time) error {
	res, err := db.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), updatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("update booking %d status: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.NewNotFoundError("booking %d not found", id)
	}
	return nil
}

// BookingFilter narrows ListBookings. Zero values mean "no filter".
type BookingFilter struct {
	ServiceID int64
	Status    models.Status
	From      time.Time // inclusive lower bound on start_time
	To        time.Time // exclusive upper bound on start_time
	Limit     int
	Offset    int
}

// ListBookings returns bookings matching the filter, ordered by start time.
func (db *DB) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	var args []any

	if filter.ServiceID > 0 {
		query += ` AND service_id = ?`
		args = append(args, filter.ServiceID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if !filter.From.IsZero() {
		query += ` AND start_time >= ?`
		args = append(args, filter.From.UTC())
	}
	if !filter.To.IsZero() {
		query += ` AND start_time < ?`
		args = append(args, filter.To.UTC())
	}
	query += ` ORDER BY start_time`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
