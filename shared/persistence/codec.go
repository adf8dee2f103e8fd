package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akbar-farajov/booking-system/shared/models"
)

// Version is the snapshot format written by Encode
const Version = 1

const dateLayout = "2006-01-02"

var (
	ErrCorruptSnapshot    = errors.New("corrupt booking snapshot")
	ErrUnsupportedVersion = errors.New("unsupported booking snapshot version")
)

type envelope struct {
	State   state `json:"state"`
	Version int   `json:"version"`
}

type state struct {
	Booking bookingRecord `json:"booking"`
}

type bookingRecord struct {
	Citizenship     *int              `json:"citizenship"`
	StartDate       *string           `json:"startDate"`
	NumberOfDays    int               `json:"numberOfDays"`
	Destination     *string           `json:"destination"`
	BoardType       *models.BoardType `json:"boardType"`
	DailySelections []dayRecord       `json:"dailySelections"`
}

type dayRecord struct {
	Day      int    `json:"day"`
	Date     string `json:"date"`
	HotelID  *int   `json:"hotelId"`
	LunchID  *int   `json:"lunchId"`
	DinnerID *int   `json:"dinnerId"`
}

// Encode serializes a booking into the persisted envelope. Dates are written
// as calendar dates without a time of day.
func Encode(b models.BookingConfiguration) ([]byte, error) {
	rec := bookingRecord{
		Citizenship:     b.Citizenship,
		NumberOfDays:    b.NumberOfDays,
		Destination:     b.Destination,
		BoardType:       b.BoardType,
		DailySelections: make([]dayRecord, len(b.DailySelections)),
	}
	if b.StartDate != nil {
		s := b.StartDate.Format(dateLayout)
		rec.StartDate = &s
	}
	for i, d := range b.DailySelections {
		rec.DailySelections[i] = dayRecord{
			Day:      d.DayNumber,
			Date:     d.Date.Format(dateLayout),
			HotelID:  d.HotelID,
			LunchID:  d.LunchID,
			DinnerID: d.DinnerID,
		}
	}

	data, err := json.Marshal(envelope{State: state{Booking: rec}, Version: Version})
	if err != nil {
		return nil, fmt.Errorf("failed to encode booking: %w", err)
	}
	return data, nil
}

// Decode rebuilds a booking from its persisted envelope
func Decode(data []byte) (models.BookingConfiguration, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return models.BookingConfiguration{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if env.Version != Version {
		return models.BookingConfiguration{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}

	rec := env.State.Booking
	b := models.BookingConfiguration{
		Citizenship:     rec.Citizenship,
		NumberOfDays:    rec.NumberOfDays,
		Destination:     rec.Destination,
		BoardType:       rec.BoardType,
		DailySelections: make([]models.DaySelection, len(rec.DailySelections)),
	}
	if b.NumberOfDays == 0 {
		b.NumberOfDays = models.MinDays
	}
	if rec.StartDate != nil {
		start, err := parseDate(*rec.StartDate)
		if err != nil {
			return models.BookingConfiguration{}, err
		}
		b.StartDate = &start
	}
	for i, d := range rec.DailySelections {
		date, err := parseDate(d.Date)
		if err != nil {
			return models.BookingConfiguration{}, err
		}
		b.DailySelections[i] = models.DaySelection{
			DayNumber: d.Day,
			Date:      date,
			HotelID:   d.HotelID,
			LunchID:   d.LunchID,
			DinnerID:  d.DinnerID,
		}
	}
	return b, nil
}

// parseDate accepts the calendar form Encode writes and full timestamps
// written by older clients.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", ErrCorruptSnapshot, value)
	}
	return models.CalendarDate(t), nil
}
