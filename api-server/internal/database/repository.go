package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("not found")
)

// Repository reads confirmed bookings recorded by the worker
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Connect opens and checks a connection pool
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// GetConfirmedBooking returns a confirmed booking by its confirmation code
func (r *Repository) GetConfirmedBooking(ctx context.Context, code string) (*models.ConfirmedBooking, error) {
	query := `
		SELECT confirmation_code, session_id, grand_total, average_per_day, booking, confirmed_at
		FROM confirmed_bookings
		WHERE confirmation_code = $1
	`

	var (
		record  models.ConfirmedBooking
		payload []byte
	)
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&record.ConfirmationCode, &record.SessionID, &record.GrandTotal,
		&record.AveragePerDay, &payload, &record.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get confirmed booking: %w", err)
	}

	record.Booking, err = persistence.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode confirmed booking: %w", err)
	}
	return &record, nil
}
