package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/akbar-farajov/booking-system/shared/booking"
	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/pricing"
	"github.com/akbar-farajov/booking-system/shared/validation"
)

var (
	ErrWrongStep         = errors.New("operation not available at current step")
	ErrInvalidTransition = errors.New("transition not allowed from current step")
	ErrBookingIncomplete = errors.New("every day needs a hotel before continuing")
	ErrOperationPending  = errors.New("another operation is in progress")
	ErrNoConfirmation    = errors.New("confirmer returned no confirmation")
)

const (
	// DefaultSubmitDelay is the simulated latency of the configuration submit
	DefaultSubmitDelay = time.Second
	// DefaultContinueDelay is the simulated latency of the daily-selection continue
	DefaultContinueDelay = 800 * time.Millisecond
)

type operation string

const (
	opSubmit   operation = "submit"
	opContinue operation = "continue"
	opConfirm  operation = "confirm"
)

// Confirmer finalizes a booking. Implementations may block for as long as
// the confirmation takes.
type Confirmer interface {
	Confirm(ctx context.Context, req models.ConfirmationRequest) (*models.Confirmation, error)
}

// Delays holds the simulated latencies of the step-advancing operations
type Delays struct {
	Submit   time.Duration
	Continue time.Duration
}

// Controller drives one wizard session through its steps. It is the only
// writer of the session's booking store.
type Controller struct {
	mu        sync.Mutex
	sessionID string
	store     *booking.Store
	catalog   catalog.Catalog
	confirmer Confirmer
	step      models.Step
	pending   operation
	revision  uint64
	delays    Delays
	sleep     func(time.Duration)
	observer  func(models.Snapshot)
	notifyMu  sync.Mutex
	logger    *slog.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithSessionID tags confirmations and snapshots with the session id
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// WithDelays overrides the simulated latencies
func WithDelays(d Delays) Option {
	return func(c *Controller) { c.delays = d }
}

// WithSleep replaces the function used to wait out latencies
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Controller) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithObserver registers a callback receiving a snapshot after every change
func WithObserver(fn func(models.Snapshot)) Option {
	return func(c *Controller) { c.observer = fn }
}

// WithLogger sets the controller logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a controller at the configuration step
func NewController(store *booking.Store, cat catalog.Catalog, confirmer Confirmer, opts ...Option) *Controller {
	c := &Controller{
		store:     store,
		catalog:   cat,
		confirmer: confirmer,
		step:      models.StepConfiguration,
		delays: Delays{
			Submit:   DefaultSubmitDelay,
			Continue: DefaultContinueDelay,
		},
		sleep:  time.Sleep,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("sessionId", c.sessionID)
	return c
}

// Step returns the current step
func (c *Controller) Step() models.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Pending reports whether a step-advancing operation is in flight
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != ""
}

// SubmitConfiguration validates the configuration form and moves to the
// daily selection step. Days are regenerated when the duration, start date
// or destination changed; otherwise the existing selections are kept.
func (c *Controller) SubmitConfiguration(ctx context.Context, input models.ConfigurationInput) error {
	err := c.begin(opSubmit, func() error {
		if c.step != models.StepConfiguration {
			return ErrWrongStep
		}
		return validation.ValidateConfiguration(input, c.catalog)
	})
	if err != nil {
		return err
	}

	c.sleep(c.delays.Submit)

	c.finish(func() {
		c.applyConfiguration(context.WithoutCancel(ctx), input)
		c.step = models.StepDailySelection
		c.logger.Info("Configuration submitted", "destination", input.Destination, "days", input.NumberOfDays)
	})
	return nil
}

func (c *Controller) applyConfiguration(ctx context.Context, input models.ConfigurationInput) {
	current := c.store.Booking()
	start := models.CalendarDate(*input.StartDate)

	regenerate := len(current.DailySelections) == 0 ||
		len(current.DailySelections) != input.NumberOfDays ||
		current.StartDate == nil || !current.StartDate.Equal(start) ||
		current.DestinationName() != input.Destination

	var days []models.DaySelection
	if regenerate {
		days = booking.GenerateDays(start, input.NumberOfDays)
	} else {
		days = validation.NormalizeMeals(input.BoardType, current.DailySelections)
	}

	c.store.UpdateConfiguration(ctx, models.ConfigurationPatch{
		Citizenship:     models.Set(*input.Citizenship),
		StartDate:       models.Set(start),
		NumberOfDays:    models.Ref(input.NumberOfDays),
		Destination:     models.Set(input.Destination),
		BoardType:       models.Set(input.BoardType),
		DailySelections: &days,
	})
}

// UpdateDay applies the board policy to a day patch and stores it
func (c *Controller) UpdateDay(ctx context.Context, dayIndex int, patch models.DayPatch) error {
	c.mu.Lock()
	err := c.updateDayLocked(ctx, dayIndex, patch)
	if err == nil {
		c.revision++
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.notify()
	return nil
}

func (c *Controller) updateDayLocked(ctx context.Context, dayIndex int, patch models.DayPatch) error {
	if c.pending != "" {
		return ErrOperationPending
	}
	if c.step != models.StepDailySelection {
		return ErrWrongStep
	}

	current := c.store.Booking()
	patch, err := validation.ApplyBoardPolicy(current.Board(), patch)
	if err != nil {
		return err
	}
	if err := validation.ValidateDayReferences(c.catalog, current.DestinationName(), patch); err != nil {
		return err
	}
	return c.store.UpdateDay(ctx, dayIndex, patch)
}

// SelectHotel sets the hotel of a day
func (c *Controller) SelectHotel(ctx context.Context, dayIndex, hotelID int) error {
	return c.UpdateDay(ctx, dayIndex, models.DayPatch{HotelID: models.Set(hotelID)})
}

// SelectLunch sets the lunch of a day; nil removes it
func (c *Controller) SelectLunch(ctx context.Context, dayIndex int, mealID *int) error {
	return c.UpdateDay(ctx, dayIndex, models.DayPatch{LunchID: mealField(mealID)})
}

// SelectDinner sets the dinner of a day; nil removes it
func (c *Controller) SelectDinner(ctx context.Context, dayIndex int, mealID *int) error {
	return c.UpdateDay(ctx, dayIndex, models.DayPatch{DinnerID: mealField(mealID)})
}

func mealField(id *int) models.Field[int] {
	if id == nil {
		return models.Clear[int]()
	}
	return models.Set(*id)
}

// Continue moves from the daily selection step to the summary once every
// day has a hotel.
func (c *Controller) Continue(ctx context.Context) error {
	err := c.begin(opContinue, func() error {
		if c.step != models.StepDailySelection {
			return ErrWrongStep
		}
		if !validation.IsBookingReady(c.store.Booking()) {
			return ErrBookingIncomplete
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.sleep(c.delays.Continue)

	c.finish(func() {
		c.step = models.StepSummary
	})
	return nil
}

// Back returns to the previous step keeping all selections
func (c *Controller) Back() error {
	c.mu.Lock()
	if c.pending != "" {
		c.mu.Unlock()
		return ErrOperationPending
	}
	switch c.step {
	case models.StepDailySelection:
		c.step = models.StepConfiguration
	case models.StepSummary:
		c.step = models.StepDailySelection
	default:
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.revision++
	c.mu.Unlock()

	c.notify()
	return nil
}

// Confirm finalizes the booking from the summary step. The wizard stays on
// the summary step afterwards.
func (c *Controller) Confirm(ctx context.Context) (*models.Confirmation, error) {
	var req models.ConfirmationRequest
	err := c.begin(opConfirm, func() error {
		if c.step != models.StepSummary {
			return ErrWrongStep
		}
		b := c.store.Booking()
		req = models.ConfirmationRequest{
			SessionID:  c.sessionID,
			Booking:    b,
			GrandTotal: pricing.GrandTotal(c.catalog, b),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	confirmation, err := c.confirmer.Confirm(context.WithoutCancel(ctx), req)

	c.finish(func() {})

	if err == nil && confirmation == nil {
		err = ErrNoConfirmation
	}
	if err != nil {
		c.logger.Error("Booking confirmation failed", "error", err)
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	c.logger.Info("Booking confirmed", "confirmationCode", confirmation.ConfirmationCode, "total", confirmation.GrandTotal)
	return confirmation, nil
}

// Reset wipes the booking and returns to the configuration step
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.pending != "" {
		c.mu.Unlock()
		return ErrOperationPending
	}
	c.store.Reset(ctx)
	c.step = models.StepConfiguration
	c.revision++
	c.mu.Unlock()

	c.logger.Info("Booking reset")
	c.notify()
	return nil
}

// Resume moves to the requested step as far as the booking allows and
// returns the step reached. It is used when a session is reopened from a
// shared step link.
func (c *Controller) Resume(requested models.Step) models.Step {
	c.mu.Lock()
	if c.pending != "" {
		step := c.step
		c.mu.Unlock()
		return step
	}

	b := c.store.Booking()
	target := requested
	if target != models.StepConfiguration && !c.isConfigured(b) {
		target = models.StepConfiguration
	}
	if target == models.StepSummary && !validation.IsBookingReady(b) {
		target = models.StepDailySelection
	}
	c.step = target
	c.revision++
	c.mu.Unlock()

	c.notify()
	return target
}

func (c *Controller) isConfigured(b models.BookingConfiguration) bool {
	if len(b.DailySelections) == 0 || validation.CheckDays(c.catalog, b) != nil {
		return false
	}
	input := models.ConfigurationInput{
		Citizenship:  b.Citizenship,
		StartDate:    b.StartDate,
		NumberOfDays: b.NumberOfDays,
		Destination:  b.DestinationName(),
		BoardType:    b.Board(),
	}
	return validation.ValidateConfiguration(input, c.catalog) == nil
}

// RestoreBooking repairs a booking read back from storage. Meals the board
// type does not allow are cleared first; selections that still do not belong
// to the trip are regenerated empty. It reports whether anything changed.
func RestoreBooking(cat catalog.Catalog, b models.BookingConfiguration) (models.BookingConfiguration, bool) {
	b = b.Clone()
	if len(b.DailySelections) == 0 || validation.CheckDays(cat, b) == nil {
		return b, false
	}

	b.DailySelections = validation.NormalizeMeals(b.Board(), b.DailySelections)
	if validation.CheckDays(cat, b) != nil {
		b.DailySelections = nil
		if b.StartDate != nil && b.NumberOfDays >= models.MinDays && b.NumberOfDays <= models.MaxDays {
			b.DailySelections = booking.GenerateDays(*b.StartDate, b.NumberOfDays)
		}
	}
	return b, true
}

// Snapshot returns the current read model of the session
func (c *Controller) Snapshot() models.Snapshot {
	c.mu.Lock()
	b := c.store.Booking()
	step := c.step
	pending := c.pending != ""
	revision := c.revision
	c.mu.Unlock()

	progress := validation.Progress(b)
	return models.Snapshot{
		SessionID: c.sessionID,
		Revision:  revision,
		Step:      step,
		Pending:   pending,
		Booking:   b,
		Trip:      c.tripInfo(b),
		Pricing:   pricing.Summarize(c.catalog, b),
		Progress:  progress,
		Controls: models.Controls{
			CanSubmit:   !pending && step == models.StepConfiguration,
			CanEditDays: !pending && step == models.StepDailySelection,
			CanContinue: !pending && step == models.StepDailySelection && progress.Ready,
			CanBack:     !pending && step != models.StepConfiguration,
			CanConfirm:  !pending && step == models.StepSummary,
			CanReset:    !pending,
		},
	}
}

func (c *Controller) tripInfo(b models.BookingConfiguration) models.TripInfo {
	var info models.TripInfo
	if b.Citizenship != nil {
		if country, ok := c.catalog.Country(*b.Citizenship); ok {
			info.CitizenshipName = country.Name
		}
	}
	info.BoardTypeName = b.Board().Name()
	if b.StartDate != nil && b.NumberOfDays > 0 {
		end := b.StartDate.AddDate(0, 0, b.NumberOfDays-1)
		info.EndDate = &end
	}
	return info
}

// begin marks op as in flight once check passes. check runs under the lock.
func (c *Controller) begin(op operation, check func() error) error {
	c.mu.Lock()
	if c.pending != "" {
		c.mu.Unlock()
		return ErrOperationPending
	}
	if err := check(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.pending = op
	c.revision++
	c.mu.Unlock()

	c.logger.Debug("Operation started", "operation", op)
	c.notify()
	return nil
}

// finish applies the outcome of the in-flight operation and clears it
func (c *Controller) finish(apply func()) {
	c.mu.Lock()
	op := c.pending
	apply()
	c.pending = ""
	c.revision++
	c.mu.Unlock()

	c.logger.Debug("Operation finished", "operation", op)
	c.notify()
}

// notify publishes the current snapshot. Publishes are serialized and each
// reads the state at publish time, so the last one delivered is the latest.
func (c *Controller) notify() {
	if c.observer == nil {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	c.observer(c.Snapshot())
}
