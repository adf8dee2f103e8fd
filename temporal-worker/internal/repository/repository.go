package repository

import (
	"context"
	"fmt"

	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/persistence"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS confirmed_bookings (
	confirmation_code TEXT PRIMARY KEY,
	session_id        TEXT NOT NULL,
	destination       TEXT NOT NULL,
	start_date        DATE,
	number_of_days    INTEGER NOT NULL,
	board_type        TEXT NOT NULL,
	grand_total       NUMERIC(12, 2) NOT NULL,
	average_per_day   NUMERIC(12, 2) NOT NULL,
	booking           JSONB NOT NULL,
	confirmed_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_confirmed_bookings_session ON confirmed_bookings (session_id);
`

// Repository handles database operations for the worker
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the confirmed bookings table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveConfirmedBooking inserts a confirmed booking. A code that is already
// stored is left untouched so activity retries stay idempotent.
func (r *Repository) SaveConfirmedBooking(ctx context.Context, record models.ConfirmedBooking) error {
	payload, err := persistence.Encode(record.Booking)
	if err != nil {
		return fmt.Errorf("failed to encode booking: %w", err)
	}

	var startDate interface{}
	if record.Booking.StartDate != nil {
		startDate = models.CalendarDate(*record.Booking.StartDate)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO confirmed_bookings (
			confirmation_code, session_id, destination, start_date, number_of_days,
			board_type, grand_total, average_per_day, booking, confirmed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (confirmation_code) DO NOTHING
	`,
		record.ConfirmationCode,
		record.SessionID,
		record.Booking.DestinationName(),
		startDate,
		record.Booking.NumberOfDays,
		string(record.Booking.Board()),
		record.GrandTotal,
		record.AveragePerDay,
		payload,
		record.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save confirmed booking: %w", err)
	}
	return nil
}
