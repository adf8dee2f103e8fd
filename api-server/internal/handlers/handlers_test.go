package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akbar-farajov/booking-system/api-server/internal/database"
	"github.com/akbar-farajov/booking-system/api-server/internal/service"
	"github.com/akbar-farajov/booking-system/api-server/internal/service/mocks"
	"github.com/akbar-farajov/booking-system/shared/booking"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/akbar-farajov/booking-system/shared/validation"
	"github.com/akbar-farajov/booking-system/shared/wizard"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sessionID = "7d0f4f5e-3c1a-4a55-9d4c-2f7b7f6d9a10"

type stubStreamer struct {
	served []models.Snapshot
}

func (s *stubStreamer) Serve(w http.ResponseWriter, r *http.Request, initial models.Snapshot) error {
	s.served = append(s.served, initial)
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/catalog/countries", h.GetCountries).Methods(http.MethodGet)
	api.HandleFunc("/catalog/board-types", h.GetBoardTypes).Methods(http.MethodGet)
	api.HandleFunc("/catalog/destinations/{destination}/hotels", h.GetHotels).Methods(http.MethodGet)
	api.HandleFunc("/catalog/destinations/{destination}/meals", h.GetMeals).Methods(http.MethodGet)
	api.HandleFunc("/sessions", h.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.DeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/configuration", h.SubmitConfiguration).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/days/{index}", h.UpdateDay).Methods(http.MethodPatch)
	api.HandleFunc("/sessions/{id}/continue", h.Continue).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/back", h.Back).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/confirm", h.Confirm).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", h.Reset).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/confirmation", h.GetConfirmationState).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/ws", h.StreamSession).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{code}", h.GetConfirmedBooking).Methods(http.MethodGet)
	return r
}

func newTestHandler() (*mocks.MockSessionService, *stubStreamer, *mux.Router) {
	mockService := new(mocks.MockSessionService)
	streamer := &stubStreamer{}
	return mockService, streamer, setupTestRouter(NewHandler(mockService, streamer, nil))
}

func TestHandler_GetCountries(t *testing.T) {
	mockService, _, router := newTestHandler()
	mockService.On("Countries", mock.Anything).Return([]models.Country{{ID: 2, Name: "France"}})

	req := httptest.NewRequest(http.MethodGet, "/api/catalog/countries", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []models.Country
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "France", response[0].Name)
	mockService.AssertExpectations(t)
}

func TestHandler_GetHotels(t *testing.T) {
	tests := []struct {
		name           string
		destination    string
		mockReturn     []models.Hotel
		mockError      error
		expectedStatus int
	}{
		{
			name:           "destination found",
			destination:    "France",
			mockReturn:     []models.Hotel{{ID: 1, Name: "Le Marais", Price: 100}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "destination not found",
			destination:    "Atlantis",
			mockError:      service.ErrDestinationNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, _, router := newTestHandler()
			mockService.On("Hotels", mock.Anything, tt.destination).Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/catalog/destinations/"+tt.destination+"/hotels", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_GetMeals(t *testing.T) {
	mockService, _, router := newTestHandler()
	menu := &models.MealMenu{Lunch: []models.Meal{{ID: 1, Name: "Croque Monsieur", Price: 20}}}
	mockService.On("Meals", mock.Anything, "France").Return(menu, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/catalog/destinations/France/meals", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Croque Monsieur")
}

func TestHandler_CreateSession(t *testing.T) {
	mockService, _, router := newTestHandler()
	mockService.On("CreateSession", mock.Anything).Return(&models.Snapshot{SessionID: sessionID, Step: models.StepConfiguration}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var response models.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, sessionID, response.SessionID)
}

func TestHandler_GetSession_Step(t *testing.T) {
	daily := models.StepDailySelection
	config := models.StepConfiguration

	tests := []struct {
		name  string
		query string
		step  *models.Step
	}{
		{name: "no step", query: "", step: nil},
		{name: "daily", query: "?step=daily", step: &daily},
		{name: "unknown falls back", query: "?step=payment", step: &config},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, _, router := newTestHandler()
			mockService.On("GetSession", mock.Anything, sessionID, tt.step).Return(&models.Snapshot{SessionID: sessionID}, nil)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sessionID+tt.query, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_SubmitConfiguration(t *testing.T) {
	mockService, _, router := newTestHandler()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	expected := models.ConfigurationInput{
		Citizenship:  models.Ref(1),
		StartDate:    &start,
		NumberOfDays: 3,
		Destination:  "France",
		BoardType:    models.BoardTypeFull,
	}
	mockService.On("SubmitConfiguration", mock.Anything, sessionID, expected).
		Return(&models.Snapshot{SessionID: sessionID, Step: models.StepDailySelection}, nil)

	body := `{"citizenship":1,"startDate":"2025-06-01","numberOfDays":3,"destination":"France","boardType":"FB"}`
	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+sessionID+"/configuration", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_SubmitConfiguration_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed body", body: `{`},
		{name: "unparseable date", body: `{"startDate":"June first"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService, _, router := newTestHandler()

			req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+sessionID+"/configuration", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			mockService.AssertNotCalled(t, "SubmitConfiguration", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_SubmitConfiguration_FieldErrors(t *testing.T) {
	mockService, _, router := newTestHandler()
	fieldErrs := validation.FieldErrors{"destination": "Please select a destination"}
	mockService.On("SubmitConfiguration", mock.Anything, sessionID, mock.Anything).Return(nil, fieldErrs)

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+sessionID+"/configuration", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var response struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "Please select a destination", response.Fields["destination"])
}

func TestHandler_UpdateDay(t *testing.T) {
	mockService, _, router := newTestHandler()
	expected := models.DayPatch{HotelID: models.Set(3), LunchID: models.Clear[int]()}
	mockService.On("UpdateDay", mock.Anything, sessionID, 1, expected).Return(&models.Snapshot{SessionID: sessionID}, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/sessions/"+sessionID+"/days/1", bytes.NewBufferString(`{"hotelId":3,"lunchId":null}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_UpdateDay_BadIndex(t *testing.T) {
	_, _, router := newTestHandler()

	req := httptest.NewRequest(http.MethodPatch, "/api/sessions/"+sessionID+"/days/first", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		err            error
		expectedStatus int
	}{
		{err: service.ErrSessionNotFound, expectedStatus: http.StatusNotFound},
		{err: wizard.ErrWrongStep, expectedStatus: http.StatusConflict},
		{err: wizard.ErrOperationPending, expectedStatus: http.StatusConflict},
		{err: wizard.ErrBookingIncomplete, expectedStatus: http.StatusConflict},
		{err: fmt.Errorf("%w: lunch", validation.ErrMealsNotIncluded), expectedStatus: http.StatusUnprocessableEntity},
		{err: validation.ErrMealConflict, expectedStatus: http.StatusUnprocessableEntity},
		{err: fmt.Errorf("%w: 9", booking.ErrDayOutOfRange), expectedStatus: http.StatusUnprocessableEntity},
		{err: errors.New("storage offline"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			mockService, _, router := newTestHandler()
			mockService.On("Continue", mock.Anything, sessionID).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+sessionID+"/continue", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestHandler_Transitions(t *testing.T) {
	for _, method := range []string{"Continue", "Back", "Reset"} {
		t.Run(method, func(t *testing.T) {
			mockService, _, router := newTestHandler()
			mockService.On(method, mock.Anything, sessionID).Return(&models.Snapshot{SessionID: sessionID}, nil)

			path := map[string]string{"Continue": "continue", "Back": "back", "Reset": "reset"}[method]
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+sessionID+"/"+path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestHandler_Confirm(t *testing.T) {
	mockService, _, router := newTestHandler()
	mockService.On("Confirm", mock.Anything, sessionID).Return(&models.Confirmation{ConfirmationCode: "TRIP-12345678", GrandTotal: 120}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sessions/"+sessionID+"/confirm", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var response models.Confirmation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "TRIP-12345678", response.ConfirmationCode)
}

func TestHandler_ConfirmationState(t *testing.T) {
	mockService, _, router := newTestHandler()
	mockService.On("ConfirmationState", mock.Anything, sessionID).Return(nil, service.ErrConfirmationUnavailable)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sessionID+"/confirmation", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetConfirmedBooking(t *testing.T) {
	mockService, _, router := newTestHandler()
	mockService.On("ConfirmedBooking", mock.Anything, "TRIP-12345678").
		Return(&models.ConfirmedBooking{ConfirmationCode: "TRIP-12345678", SessionID: sessionID}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/TRIP-12345678", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), sessionID)
}

func TestHandler_GetConfirmedBooking_NotFound(t *testing.T) {
	mockService, _, router := newTestHandler()
	mockService.On("ConfirmedBooking", mock.Anything, "TRIP-00000000").Return(nil, database.ErrNotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bookings/TRIP-00000000", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_DeleteSession(t *testing.T) {
	mockService, _, router := newTestHandler()
	mockService.On("DeleteSession", mock.Anything, sessionID).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+sessionID, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_StreamSession(t *testing.T) {
	mockService, streamer, router := newTestHandler()
	mockService.On("GetSession", mock.Anything, sessionID, (*models.Step)(nil)).Return(&models.Snapshot{SessionID: sessionID}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sessionID+"/ws", nil))

	assert.Equal(t, http.StatusSwitchingProtocols, rec.Code)
	require.Len(t, streamer.served, 1)
	assert.Equal(t, sessionID, streamer.served[0].SessionID)
}

func TestHandler_StreamSession_UnknownSession(t *testing.T) {
	mockService, streamer, router := newTestHandler()
	mockService.On("GetSession", mock.Anything, sessionID, (*models.Step)(nil)).Return(nil, service.ErrSessionNotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sessions/"+sessionID+"/ws", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, streamer.served)
}
