package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/akbar-farajov/booking-system/shared/booking"
	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/persistence"
	"github.com/akbar-farajov/booking-system/shared/wizard"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound         = errors.New("session not found")
	ErrDestinationNotFound     = errors.New("destination not found")
	ErrConfirmationUnavailable = errors.New("confirmation tracking not available")
)

// SessionService defines the booking wizard service interface
type SessionService interface {
	Countries(ctx context.Context) []models.Country
	BoardTypes(ctx context.Context) []models.BoardTypeInfo
	Hotels(ctx context.Context, destination string) ([]models.Hotel, error)
	Meals(ctx context.Context, destination string) (*models.MealMenu, error)

	CreateSession(ctx context.Context) (*models.Snapshot, error)
	GetSession(ctx context.Context, sessionID string, step *models.Step) (*models.Snapshot, error)
	DeleteSession(ctx context.Context, sessionID string) error
	SubmitConfiguration(ctx context.Context, sessionID string, input models.ConfigurationInput) (*models.Snapshot, error)
	UpdateDay(ctx context.Context, sessionID string, dayIndex int, patch models.DayPatch) (*models.Snapshot, error)
	Continue(ctx context.Context, sessionID string) (*models.Snapshot, error)
	Back(ctx context.Context, sessionID string) (*models.Snapshot, error)
	Confirm(ctx context.Context, sessionID string) (*models.Confirmation, error)
	Reset(ctx context.Context, sessionID string) (*models.Snapshot, error)

	ConfirmationState(ctx context.Context, sessionID string) (*models.ConfirmationState, error)
	ConfirmedBooking(ctx context.Context, code string) (*models.ConfirmedBooking, error)
}

// Broadcaster receives session updates for connected watchers
type Broadcaster interface {
	BroadcastSnapshot(snapshot models.Snapshot)
	BroadcastConfirmed(confirmation models.Confirmation)
	BroadcastSessionReset(sessionID string)
}

// StateTracker is implemented by confirmers that can report progress
type StateTracker interface {
	State(ctx context.Context, sessionID string) (*models.ConfirmationState, error)
}

// BookingLookup reads confirmed bookings back from durable storage
type BookingLookup interface {
	GetConfirmedBooking(ctx context.Context, code string) (*models.ConfirmedBooking, error)
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastSnapshot(models.Snapshot) {}
func (nopBroadcaster) BroadcastConfirmed(models.Confirmation) {}
func (nopBroadcaster) BroadcastSessionReset(string) {}

// Option configures the session service
type Option func(*sessionServiceImpl)

// WithDelays overrides the wizard latencies
func WithDelays(d wizard.Delays) Option {
	return func(s *sessionServiceImpl) { s.delays = d }
}

// WithBroadcaster publishes every session change
func WithBroadcaster(b Broadcaster) Option {
	return func(s *sessionServiceImpl) {
		if b != nil {
			s.broadcaster = b
		}
	}
}

// WithBookingLookup enables confirmed booking lookups
func WithBookingLookup(l BookingLookup) Option {
	return func(s *sessionServiceImpl) { s.lookup = l }
}

// WithLogger sets the service logger
func WithLogger(l *slog.Logger) Option {
	return func(s *sessionServiceImpl) {
		if l != nil {
			s.logger = l
		}
	}
}

// sessionServiceImpl implements SessionService
type sessionServiceImpl struct {
	mu          sync.Mutex
	sessions    map[string]*wizard.Controller
	catalog     catalog.Catalog
	storage     persistence.Storage
	confirmer   wizard.Confirmer
	delays      wizard.Delays
	broadcaster Broadcaster
	lookup      BookingLookup
	logger      *slog.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(cat catalog.Catalog, storage persistence.Storage, confirmer wizard.Confirmer, opts ...Option) SessionService {
	s := &sessionServiceImpl{
		sessions:  make(map[string]*wizard.Controller),
		catalog:   cat,
		storage:   storage,
		confirmer: confirmer,
		delays: wizard.Delays{
			Submit:   wizard.DefaultSubmitDelay,
			Continue: wizard.DefaultContinueDelay,
		},
		broadcaster: nopBroadcaster{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionServiceImpl) Countries(ctx context.Context) []models.Country {
	return s.catalog.Countries()
}

func (s *sessionServiceImpl) BoardTypes(ctx context.Context) []models.BoardTypeInfo {
	return s.catalog.BoardTypes()
}

func (s *sessionServiceImpl) Hotels(ctx context.Context, destination string) ([]models.Hotel, error) {
	if !s.catalog.HasDestination(destination) {
		return nil, fmt.Errorf("%w: %s", ErrDestinationNotFound, destination)
	}
	return s.catalog.HotelsFor(destination), nil
}

func (s *sessionServiceImpl) Meals(ctx context.Context, destination string) (*models.MealMenu, error) {
	menu, ok := s.catalog.MealsFor(destination)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDestinationNotFound, destination)
	}
	return &menu, nil
}

func (s *sessionServiceImpl) CreateSession(ctx context.Context) (*models.Snapshot, error) {
	sessionID := uuid.New().String()

	initial := models.NewBookingConfiguration()
	if err := s.storage.Persist(ctx, sessionID, initial); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	ctrl := s.newController(sessionID, nil)
	s.mu.Lock()
	s.sessions[sessionID] = ctrl
	s.mu.Unlock()

	s.logger.Info("Session created", "sessionId", sessionID)
	snapshot := ctrl.Snapshot()
	return &snapshot, nil
}

// GetSession returns the session snapshot. A non-nil step resumes the wizard
// at that step as far as the booking allows.
func (s *sessionServiceImpl) GetSession(ctx context.Context, sessionID string, step *models.Step) (*models.Snapshot, error) {
	ctrl, err := s.controller(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if step != nil {
		ctrl.Resume(*step)
	}
	snapshot := ctrl.Snapshot()
	return &snapshot, nil
}

func (s *sessionServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.controller(ctx, sessionID); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if err := s.storage.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.broadcaster.BroadcastSessionReset(sessionID)
	s.logger.Info("Session deleted", "sessionId", sessionID)
	return nil
}

func (s *sessionServiceImpl) SubmitConfiguration(ctx context.Context, sessionID string, input models.ConfigurationInput) (*models.Snapshot, error) {
	return s.apply(ctx, sessionID, func(c *wizard.Controller) error {
		return c.SubmitConfiguration(ctx, input)
	})
}

func (s *sessionServiceImpl) UpdateDay(ctx context.Context, sessionID string, dayIndex int, patch models.DayPatch) (*models.Snapshot, error) {
	return s.apply(ctx, sessionID, func(c *wizard.Controller) error {
		return c.UpdateDay(ctx, dayIndex, patch)
	})
}

func (s *sessionServiceImpl) Continue(ctx context.Context, sessionID string) (*models.Snapshot, error) {
	return s.apply(ctx, sessionID, func(c *wizard.Controller) error {
		return c.Continue(ctx)
	})
}

func (s *sessionServiceImpl) Back(ctx context.Context, sessionID string) (*models.Snapshot, error) {
	return s.apply(ctx, sessionID, func(c *wizard.Controller) error {
		return c.Back()
	})
}

func (s *sessionServiceImpl) Reset(ctx context.Context, sessionID string) (*models.Snapshot, error) {
	return s.apply(ctx, sessionID, func(c *wizard.Controller) error {
		return c.Reset(ctx)
	})
}

func (s *sessionServiceImpl) Confirm(ctx context.Context, sessionID string) (*models.Confirmation, error) {
	ctrl, err := s.controller(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	confirmation, err := ctrl.Confirm(ctx)
	if err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastConfirmed(*confirmation)
	return confirmation, nil
}

func (s *sessionServiceImpl) ConfirmationState(ctx context.Context, sessionID string) (*models.ConfirmationState, error) {
	if _, err := s.controller(ctx, sessionID); err != nil {
		return nil, err
	}
	tracker, ok := s.confirmer.(StateTracker)
	if !ok {
		return nil, ErrConfirmationUnavailable
	}
	return tracker.State(ctx, sessionID)
}

func (s *sessionServiceImpl) ConfirmedBooking(ctx context.Context, code string) (*models.ConfirmedBooking, error) {
	if s.lookup == nil {
		return nil, ErrConfirmationUnavailable
	}
	return s.lookup.GetConfirmedBooking(ctx, code)
}

func (s *sessionServiceImpl) apply(ctx context.Context, sessionID string, fn func(*wizard.Controller) error) (*models.Snapshot, error) {
	ctrl, err := s.controller(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(ctrl); err != nil {
		return nil, err
	}
	snapshot := ctrl.Snapshot()
	return &snapshot, nil
}

// controller returns the live controller of a session, rehydrating it from
// storage when the process has not seen it yet.
func (s *sessionServiceImpl) controller(ctx context.Context, sessionID string) (*wizard.Controller, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	s.mu.Lock()
	ctrl, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if ok {
		return ctrl, nil
	}

	saved, err := s.storage.Load(ctx, sessionID)
	if errors.Is(err, persistence.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	restored, repaired := wizard.RestoreBooking(s.catalog, saved)
	if repaired {
		s.logger.Warn("Stored booking was inconsistent, daily selections repaired", "sessionId", sessionID)
		if err := s.storage.Persist(ctx, sessionID, restored); err != nil {
			s.logger.Warn("Failed to persist repaired booking", "sessionId", sessionID, "error", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another request may have restored the session meanwhile
	if ctrl, ok := s.sessions[sessionID]; ok {
		return ctrl, nil
	}
	ctrl = s.newController(sessionID, &restored)
	s.sessions[sessionID] = ctrl
	s.logger.Info("Session restored", "sessionId", sessionID)
	return ctrl, nil
}

func (s *sessionServiceImpl) newController(sessionID string, saved *models.BookingConfiguration) *wizard.Controller {
	logger := s.logger.With("component", "wizard")
	store := booking.NewStore(
		booking.WithPersister(persistence.ForSession(s.storage, sessionID)),
		booking.WithLogger(logger.With("sessionId", sessionID)),
	)
	if saved != nil {
		store.Hydrate(*saved)
	}

	return wizard.NewController(store, s.catalog, s.confirmer,
		wizard.WithSessionID(sessionID),
		wizard.WithDelays(s.delays),
		wizard.WithObserver(s.broadcaster.BroadcastSnapshot),
		wizard.WithLogger(logger),
	)
}
