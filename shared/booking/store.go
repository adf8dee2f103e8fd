package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/akbar-farajov/booking-system/shared/models"
)

var (
	ErrDayOutOfRange = errors.New("day index out of range")
)

// Persister receives the full booking after every mutation
type Persister interface {
	Persist(ctx context.Context, booking models.BookingConfiguration) error
}

// PersisterFunc adapts a function to Persister
type PersisterFunc func(ctx context.Context, booking models.BookingConfiguration) error

func (f PersisterFunc) Persist(ctx context.Context, booking models.BookingConfiguration) error {
	return f(ctx, booking)
}

type nopPersister struct{}

func (nopPersister) Persist(context.Context, models.BookingConfiguration) error { return nil }

// Store owns the booking of one session. It merges updates and holds no
// opinion on board type or catalog references.
type Store struct {
	mu        sync.RWMutex
	booking   models.BookingConfiguration
	persister Persister
	logger    *slog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithPersister sets the persistence collaborator
func WithPersister(p Persister) Option {
	return func(s *Store) {
		if p != nil {
			s.persister = p
		}
	}
}

// WithLogger sets the store logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a store holding the empty initial booking
func NewStore(opts ...Option) *Store {
	s := &Store{
		booking:   models.NewBookingConfiguration(),
		persister: nopPersister{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Booking returns a copy of the current booking
func (s *Store) Booking() models.BookingConfiguration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.booking.Clone()
}

// Hydrate replaces the booking with a restored one without persisting it
func (s *Store) Hydrate(booking models.BookingConfiguration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.booking = booking.Clone()
	if s.booking.DailySelections == nil {
		s.booking.DailySelections = []models.DaySelection{}
	}
}

// UpdateConfiguration merges the patch into the top level of the booking.
// Callers own the consistency of DailySelections.
func (s *Store) UpdateConfiguration(ctx context.Context, patch models.ConfigurationPatch) {
	s.mu.Lock()
	b := s.booking
	b.Citizenship = patch.Citizenship.Apply(b.Citizenship)
	b.StartDate = patch.StartDate.Apply(b.StartDate)
	b.Destination = patch.Destination.Apply(b.Destination)
	b.BoardType = patch.BoardType.Apply(b.BoardType)
	if patch.NumberOfDays != nil {
		b.NumberOfDays = *patch.NumberOfDays
	}
	if patch.DailySelections != nil {
		days := make([]models.DaySelection, len(*patch.DailySelections))
		for i, d := range *patch.DailySelections {
			days[i] = d.Clone()
		}
		b.DailySelections = days
	}
	s.booking = b
	snapshot := b.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
}

// UpdateDay merges the patch into the day at dayIndex
func (s *Store) UpdateDay(ctx context.Context, dayIndex int, patch models.DayPatch) error {
	s.mu.Lock()
	if dayIndex < 0 || dayIndex >= len(s.booking.DailySelections) {
		count := len(s.booking.DailySelections)
		s.mu.Unlock()
		s.logger.Error("Day update outside of daily selections", "dayIndex", dayIndex, "days", count)
		return fmt.Errorf("%w: %d not in [0, %d)", ErrDayOutOfRange, dayIndex, count)
	}

	days := make([]models.DaySelection, len(s.booking.DailySelections))
	copy(days, s.booking.DailySelections)

	day := days[dayIndex].Clone()
	day.HotelID = patch.HotelID.Apply(day.HotelID)
	day.LunchID = patch.LunchID.Apply(day.LunchID)
	day.DinnerID = patch.DinnerID.Apply(day.DinnerID)
	days[dayIndex] = day

	s.booking.DailySelections = days
	snapshot := s.booking.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	return nil
}

// Reset restores the empty initial booking
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.booking = models.NewBookingConfiguration()
	snapshot := s.booking.Clone()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
}

func (s *Store) persist(ctx context.Context, snapshot models.BookingConfiguration) {
	if err := s.persister.Persist(ctx, snapshot); err != nil {
		s.logger.Warn("Failed to persist booking", "error", err)
	}
}

// GenerateDays builds n empty day selections starting at start
func GenerateDays(start time.Time, n int) []models.DaySelection {
	if n < 0 {
		n = 0
	}
	first := models.CalendarDate(start)

	days := make([]models.DaySelection, n)
	for i := range days {
		days[i] = models.DaySelection{
			DayNumber: i + 1,
			Date:      first.AddDate(0, 0, i),
		}
	}
	return days
}
