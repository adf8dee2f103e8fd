package mocks

import (
	"context"

	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/stretchr/testify/mock"
)

// MockSessionService is a mock implementation of SessionService
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Countries(ctx context.Context) []models.Country {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Country)
}

func (m *MockSessionService) BoardTypes(ctx context.Context) []models.BoardTypeInfo {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.BoardTypeInfo)
}

func (m *MockSessionService) Hotels(ctx context.Context, destination string) ([]models.Hotel, error) {
	args := m.Called(ctx, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Hotel), args.Error(1)
}

func (m *MockSessionService) Meals(ctx context.Context, destination string) (*models.MealMenu, error) {
	args := m.Called(ctx, destination)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MealMenu), args.Error(1)
}

func (m *MockSessionService) CreateSession(ctx context.Context) (*models.Snapshot, error) {
	args := m.Called(ctx)
	return snapshot(args)
}

func (m *MockSessionService) GetSession(ctx context.Context, sessionID string, step *models.Step) (*models.Snapshot, error) {
	args := m.Called(ctx, sessionID, step)
	return snapshot(args)
}

func (m *MockSessionService) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionService) SubmitConfiguration(ctx context.Context, sessionID string, input models.ConfigurationInput) (*models.Snapshot, error) {
	args := m.Called(ctx, sessionID, input)
	return snapshot(args)
}

func (m *MockSessionService) UpdateDay(ctx context.Context, sessionID string, dayIndex int, patch models.DayPatch) (*models.Snapshot, error) {
	args := m.Called(ctx, sessionID, dayIndex, patch)
	return snapshot(args)
}

func (m *MockSessionService) Continue(ctx context.Context, sessionID string) (*models.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	return snapshot(args)
}

func (m *MockSessionService) Back(ctx context.Context, sessionID string) (*models.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	return snapshot(args)
}

func (m *MockSessionService) Confirm(ctx context.Context, sessionID string) (*models.Confirmation, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Confirmation), args.Error(1)
}

func (m *MockSessionService) Reset(ctx context.Context, sessionID string) (*models.Snapshot, error) {
	args := m.Called(ctx, sessionID)
	return snapshot(args)
}

func (m *MockSessionService) ConfirmationState(ctx context.Context, sessionID string) (*models.ConfirmationState, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConfirmationState), args.Error(1)
}

func (m *MockSessionService) ConfirmedBooking(ctx context.Context, code string) (*models.ConfirmedBooking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConfirmedBooking), args.Error(1)
}

func snapshot(args mock.Arguments) (*models.Snapshot, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Snapshot), args.Error(1)
}
