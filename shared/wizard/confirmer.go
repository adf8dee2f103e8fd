package wizard

import (
	"context"
	"strings"
	"time"

	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/pricing"
	"github.com/google/uuid"
)

// DefaultConfirmDelay is the simulated latency of a confirmation
const DefaultConfirmDelay = 2 * time.Second

// SimulatedConfirmer confirms bookings locally after a fixed delay. It
// stands in for a real booking backend and never fails.
type SimulatedConfirmer struct {
	Delay time.Duration
	Sleep func(time.Duration)
	Now   func() time.Time
}

// NewSimulatedConfirmer creates a SimulatedConfirmer with the given delay
func NewSimulatedConfirmer(delay time.Duration) *SimulatedConfirmer {
	return &SimulatedConfirmer{Delay: delay}
}

func (s *SimulatedConfirmer) Confirm(ctx context.Context, req models.ConfirmationRequest) (*models.Confirmation, error) {
	sleep := s.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}

	sleep(s.Delay)

	return &models.Confirmation{
		ConfirmationCode: NewConfirmationCode(),
		SessionID:        req.SessionID,
		GrandTotal:       req.GrandTotal,
		AveragePerDay:    pricing.Average(req.GrandTotal, req.Booking.NumberOfDays),
		ConfirmedAt:      now().UTC(),
	}, nil
}

// NewConfirmationCode returns a short human-readable booking reference
func NewConfirmationCode() string {
	return "TRIP-" + strings.ToUpper(uuid.New().String()[:8])
}
