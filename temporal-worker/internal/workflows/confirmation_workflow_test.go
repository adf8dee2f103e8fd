package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/akbar-farajov/booking-system/shared/booking"
	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/temporal-worker/internal/activities"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/testsuite"
)

type memoryRecorder struct {
	records []models.ConfirmedBooking
}

func (m *memoryRecorder) SaveConfirmedBooking(_ context.Context, record models.ConfirmedBooking) error {
	m.records = append(m.records, record)
	return nil
}

type TripConfirmationWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env      *testsuite.TestWorkflowEnvironment
	recorder *memoryRecorder
}

func (s *TripConfirmationWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.recorder = &memoryRecorder{}
	s.env.RegisterActivity(activities.NewActivities(catalog.Default(), s.recorder))
}

func (s *TripConfirmationWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func TestTripConfirmationWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(TripConfirmationWorkflowTestSuite))
}

// Two days in Paris on full board: hotel 100 + lunch 20, then hotel 80.
func confirmationRequest(total float64) models.ConfirmationRequest {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	days := booking.GenerateDays(start, 2)
	days[0].HotelID = models.Ref(1)
	days[0].LunchID = models.Ref(1)
	days[1].HotelID = models.Ref(3)
	return models.ConfirmationRequest{
		SessionID: "session-1",
		Booking: models.BookingConfiguration{
			Citizenship:     models.Ref(1),
			StartDate:       &start,
			NumberOfDays:    2,
			Destination:     models.Ref("France"),
			BoardType:       models.Ref(models.BoardTypeFull),
			DailySelections: days,
		},
		GrandTotal: total,
	}
}

func (s *TripConfirmationWorkflowTestSuite) queryState() models.ConfirmationState {
	val, err := s.env.QueryWorkflow(models.QueryGetState)
	s.Require().NoError(err)
	var state models.ConfirmationState
	s.Require().NoError(val.Get(&state))
	return state
}

func (s *TripConfirmationWorkflowTestSuite) TestConfirmsBooking() {
	s.env.ExecuteWorkflow(TripConfirmationWorkflow, confirmationRequest(200))

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result models.Confirmation
	s.NoError(s.env.GetWorkflowResult(&result))
	s.True(strings.HasPrefix(result.ConfirmationCode, "TRIP-"))
	s.Equal("session-1", result.SessionID)
	s.Equal(200.0, result.GrandTotal)
	s.Equal(100.0, result.AveragePerDay)

	s.Require().Len(s.recorder.records, 1)
	s.Equal(result.ConfirmationCode, s.recorder.records[0].ConfirmationCode)
	s.Equal("France", s.recorder.records[0].Booking.DestinationName())

	state := s.queryState()
	s.Equal(models.ConfirmationStatusConfirmed, state.Status)
	s.Empty(state.FailureReason)
}

func (s *TripConfirmationWorkflowTestSuite) TestPriceMismatch() {
	s.env.ExecuteWorkflow(TripConfirmationWorkflow, confirmationRequest(150))

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.Contains(err.Error(), "does not match")
	s.Empty(s.recorder.records)

	state := s.queryState()
	s.Equal(models.ConfirmationStatusFailed, state.Status)
	s.NotEmpty(state.FailureReason)
}

func (s *TripConfirmationWorkflowTestSuite) TestIncompleteBooking() {
	req := confirmationRequest(200)
	req.Booking.DailySelections[1].HotelID = nil

	s.env.ExecuteWorkflow(TripConfirmationWorkflow, req)

	s.True(s.env.IsWorkflowCompleted())
	s.Error(s.env.GetWorkflowError())
	s.Empty(s.recorder.records)
	s.Equal(models.ConfirmationStatusFailed, s.queryState().Status)
}

func (s *TripConfirmationWorkflowTestSuite) TestRecordFailure() {
	s.env.OnActivity(activities.ActivityRecordBooking, mock.Anything, mock.Anything).
		Return(errors.New("database unavailable"))

	s.env.ExecuteWorkflow(TripConfirmationWorkflow, confirmationRequest(200))

	s.True(s.env.IsWorkflowCompleted())
	err := s.env.GetWorkflowError()
	s.Error(err)
	s.Contains(err.Error(), "database unavailable")
	s.Equal(models.ConfirmationStatusFailed, s.queryState().Status)
}

func (s *TripConfirmationWorkflowTestSuite) TestNotificationFailureStillConfirms() {
	s.env.OnActivity(activities.ActivitySendConfirmation, mock.Anything, mock.Anything).
		Return(errors.New("mail server down")).Once()

	s.env.ExecuteWorkflow(TripConfirmationWorkflow, confirmationRequest(200))

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
	s.Len(s.recorder.records, 1)
	s.Equal(models.ConfirmationStatusConfirmed, s.queryState().Status)
}
