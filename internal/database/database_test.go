package database

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Somprasong001/simple-booking-app/internal/models"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory database. Shared cache keeps the pool's
// connections on the same store; a single connection avoids SQLite's
// table-lock errors under test concurrency.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared&_busy_timeout=5000", testDBSeq.Add(1))
	db, err := NewDB(dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedService(t *testing.T, db *DB, duration int) *models.Service {
	t.Helper()
	s := &models.Service{
		Name:        "Massage",
		Description: "Traditional massage",
		Price:       500,
		Duration:    duration,
		IsActive:    true,
	}
	require.NoError(t, db.CreateService(context.Background(), s))
	return s
}

func testBooking(serviceID int64, start, end time.Time) *models.Booking {
	now := time.Now().UTC()
	return &models.Booking{
		Reference: fmt.Sprintf("ref-%d", testDBSeq.Add(1)),
		ServiceID: serviceID,
		StartTime: start,
		EndTime:   end,
		Customer:  models.Customer{Name: "Somchai", Email: "somchai@example.com", Phone: "0812345678"},
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
