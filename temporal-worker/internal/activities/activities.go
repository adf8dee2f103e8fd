package activities

import (
	"context"
	"fmt"

	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/pricing"
	"github.com/akbar-farajov/booking-system/shared/validation"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// Activity names registered on the worker
const (
	ActivityPriceBooking     = "PriceBooking"
	ActivityRecordBooking    = "RecordBooking"
	ActivitySendConfirmation = "SendConfirmation"
)

// ErrTypeIncompleteBooking marks a booking that cannot be priced
const ErrTypeIncompleteBooking = "IncompleteBooking"

// BookingRecorder stores confirmed bookings
type BookingRecorder interface {
	SaveConfirmedBooking(ctx context.Context, record models.ConfirmedBooking) error
}

// PriceBookingResult is the authoritative price of a booking
type PriceBookingResult struct {
	GrandTotal    float64 `json:"grandTotal"`
	AveragePerDay float64 `json:"averagePerDay"`
	Days          int     `json:"days"`
}

// Activities holds the dependencies of the confirmation activities
type Activities struct {
	catalog  catalog.Catalog
	recorder BookingRecorder
}

// NewActivities creates the activity set
func NewActivities(cat catalog.Catalog, recorder BookingRecorder) *Activities {
	return &Activities{catalog: cat, recorder: recorder}
}

// PriceBooking re-prices the booking against the worker's catalog
func (a *Activities) PriceBooking(ctx context.Context, req models.ConfirmationRequest) (*PriceBookingResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Pricing booking", "sessionId", req.SessionID, "days", len(req.Booking.DailySelections))

	if len(req.Booking.DailySelections) == 0 || !validation.IsBookingReady(req.Booking) {
		return nil, temporal.NewNonRetryableApplicationError(
			fmt.Sprintf("booking for session %s is incomplete", req.SessionID),
			ErrTypeIncompleteBooking, nil)
	}

	summary := pricing.Summarize(a.catalog, req.Booking)
	logger.Info("Booking priced", "sessionId", req.SessionID, "total", summary.GrandTotal)
	return &PriceBookingResult{
		GrandTotal:    summary.GrandTotal,
		AveragePerDay: summary.AveragePerDay,
		Days:          len(summary.Days),
	}, nil
}

// RecordBooking stores the confirmed booking. Recording the same
// confirmation code twice is a no-op.
func (a *Activities) RecordBooking(ctx context.Context, record models.ConfirmedBooking) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Recording booking", "sessionId", record.SessionID, "confirmationCode", record.ConfirmationCode)

	if err := a.recorder.SaveConfirmedBooking(ctx, record); err != nil {
		return fmt.Errorf("failed to record booking: %w", err)
	}
	return nil
}

// SendConfirmation notifies the traveller
func (a *Activities) SendConfirmation(ctx context.Context, confirmation models.Confirmation) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Sending booking confirmation",
		"sessionId", confirmation.SessionID,
		"confirmationCode", confirmation.ConfirmationCode,
		"total", confirmation.GrandTotal,
	)
	return nil
}
