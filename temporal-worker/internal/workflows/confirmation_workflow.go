package workflows

import (
	"fmt"
	"math"
	"time"

	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/wizard"
	"github.com/akbar-farajov/booking-system/temporal-worker/internal/activities"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// PriceTolerance is the largest accepted gap between the quoted and re-priced total
	PriceTolerance = 0.005
	// NotificationTimeout bounds the confirmation notification
	NotificationTimeout = 10 * time.Second
)

// ErrTypePriceMismatch marks a quote that no longer matches the catalog
const ErrTypePriceMismatch = "PriceMismatch"

// TripConfirmationWorkflow prices, records and confirms a trip booking
func TripConfirmationWorkflow(ctx workflow.Context, req models.ConfirmationRequest) (*models.Confirmation, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Trip confirmation workflow started", "sessionId", req.SessionID)

	state := models.ConfirmationState{
		SessionID:   req.SessionID,
		Status:      models.ConfirmationStatusPending,
		GrandTotal:  req.GrandTotal,
		LastUpdated: workflow.Now(ctx),
	}
	err := workflow.SetQueryHandler(ctx, models.QueryGetState, func() (models.ConfirmationState, error) {
		return state, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register query handler: %w", err)
	}

	setStatus := func(status models.ConfirmationStatus) {
		state.Status = status
		state.LastUpdated = workflow.Now(ctx)
	}
	fail := func(err error) (*models.Confirmation, error) {
		state.FailureReason = err.Error()
		setStatus(models.ConfirmationStatusFailed)
		logger.Error("Trip confirmation failed", "sessionId", req.SessionID, "error", err)
		return nil, err
	}

	// Activity options
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	// Notification is best effort
	notifyCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: NotificationTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	// Re-price against the catalog
	var priced activities.PriceBookingResult
	if err := workflow.ExecuteActivity(ctx, activities.ActivityPriceBooking, req).Get(ctx, &priced); err != nil {
		return fail(fmt.Errorf("failed to price booking: %w", err))
	}
	if math.Abs(priced.GrandTotal-req.GrandTotal) > PriceTolerance {
		return fail(temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("quoted total %.2f does not match catalog total %.2f", req.GrandTotal, priced.GrandTotal),
			ErrTypePriceMismatch, nil))
	}
	state.GrandTotal = priced.GrandTotal
	setStatus(models.ConfirmationStatusPriced)

	var code string
	encoded := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
		return wizard.NewConfirmationCode()
	})
	if err := encoded.Get(&code); err != nil {
		return fail(fmt.Errorf("failed to generate confirmation code: %w", err))
	}

	record := models.ConfirmedBooking{
		ConfirmationCode: code,
		SessionID:        req.SessionID,
		Booking:          req.Booking,
		GrandTotal:       priced.GrandTotal,
		AveragePerDay:    priced.AveragePerDay,
		ConfirmedAt:      workflow.Now(ctx).UTC(),
	}
	if err := workflow.ExecuteActivity(ctx, activities.ActivityRecordBooking, record).Get(ctx, nil); err != nil {
		return fail(err)
	}
	setStatus(models.ConfirmationStatusRecorded)

	confirmation := models.Confirmation{
		ConfirmationCode: record.ConfirmationCode,
		SessionID:        record.SessionID,
		GrandTotal:       record.GrandTotal,
		AveragePerDay:    record.AveragePerDay,
		ConfirmedAt:      record.ConfirmedAt,
	}
	if err := workflow.ExecuteActivity(notifyCtx, activities.ActivitySendConfirmation, confirmation).Get(ctx, nil); err != nil {
		logger.Warn("Failed to send confirmation", "sessionId", req.SessionID, "error", err)
	}

	setStatus(models.ConfirmationStatusConfirmed)
	logger.Info("Trip confirmed", "sessionId", req.SessionID, "confirmationCode", code)
	return &confirmation, nil
}
