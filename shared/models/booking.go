package models

import (
	"encoding/json"
	"time"
)

const (
	// MinDays is the shortest trip that can be configured
	MinDays = 1
	// MaxDays is the longest trip that can be configured
	MaxDays = 30
)

// DaySelection is the hotel and meal choice for one day of the trip
type DaySelection struct {
	DayNumber int       `json:"day"`
	Date      time.Time `json:"date"`
	HotelID   *int      `json:"hotelId"`
	LunchID   *int      `json:"lunchId"`
	DinnerID  *int      `json:"dinnerId"`
}

// BookingConfiguration is the in-progress booking of a session
type BookingConfiguration struct {
	Citizenship     *int           `json:"citizenship"`
	StartDate       *time.Time     `json:"startDate"`
	NumberOfDays    int            `json:"numberOfDays"`
	Destination     *string        `json:"destination"`
	BoardType       *BoardType     `json:"boardType"`
	DailySelections []DaySelection `json:"dailySelections"`
}

// NewBookingConfiguration returns the empty initial booking
func NewBookingConfiguration() BookingConfiguration {
	return BookingConfiguration{
		NumberOfDays:    MinDays,
		DailySelections: []DaySelection{},
	}
}

// Clone returns a deep copy of the day selection
func (d DaySelection) Clone() DaySelection {
	d.HotelID = cloneRef(d.HotelID)
	d.LunchID = cloneRef(d.LunchID)
	d.DinnerID = cloneRef(d.DinnerID)
	return d
}

// Clone returns a deep copy of the booking
func (b BookingConfiguration) Clone() BookingConfiguration {
	b.Citizenship = cloneRef(b.Citizenship)
	b.StartDate = cloneRef(b.StartDate)
	b.Destination = cloneRef(b.Destination)
	b.BoardType = cloneRef(b.BoardType)

	days := make([]DaySelection, len(b.DailySelections))
	for i, d := range b.DailySelections {
		days[i] = d.Clone()
	}
	b.DailySelections = days
	return b
}

// DestinationName returns the destination or "" when unset
func (b BookingConfiguration) DestinationName() string {
	if b.Destination == nil {
		return ""
	}
	return *b.Destination
}

// Board returns the board type or "" when unset
func (b BookingConfiguration) Board() BoardType {
	if b.BoardType == nil {
		return ""
	}
	return *b.BoardType
}

// CalendarDate normalizes t to midnight UTC of its calendar day
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Ref returns a pointer to a copy of v
func Ref[T any](v T) *T {
	return &v
}

func cloneRef[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Field is one slot of a partial update. A zero Field leaves the target
// untouched; a present Field with a nil Value clears it.
type Field[T any] struct {
	Present bool
	Value   *T
}

// Set returns a Field that sets the target to v
func Set[T any](v T) Field[T] {
	return Field[T]{Present: true, Value: &v}
}

// Clear returns a Field that unsets the target
func Clear[T any]() Field[T] {
	return Field[T]{Present: true}
}

// IsSet reports whether the field assigns a value
func (f Field[T]) IsSet() bool {
	return f.Present && f.Value != nil
}

// Apply returns the merged value of the target
func (f Field[T]) Apply(current *T) *T {
	if !f.Present {
		return current
	}
	return cloneRef(f.Value)
}

// UnmarshalJSON marks the field present; a JSON null clears the target
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Present = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// ConfigurationPatch is a shallow, top-level update of a booking
type ConfigurationPatch struct {
	Citizenship     Field[int]
	StartDate       Field[time.Time]
	NumberOfDays    *int
	Destination     Field[string]
	BoardType       Field[BoardType]
	DailySelections *[]DaySelection
}

// DayPatch is a partial update of one day
type DayPatch struct {
	HotelID  Field[int] `json:"hotelId"`
	LunchID  Field[int] `json:"lunchId"`
	DinnerID Field[int] `json:"dinnerId"`
}

// TouchesMeals reports whether the patch changes lunch or dinner
func (p DayPatch) TouchesMeals() bool {
	return p.LunchID.Present || p.DinnerID.Present
}

// ConfigurationInput is the configuration step form
type ConfigurationInput struct {
	Citizenship  *int       `json:"citizenship" validate:"required"`
	StartDate    *time.Time `json:"startDate" validate:"required"`
	NumberOfDays int        `json:"numberOfDays" validate:"min=1,max=30"`
	Destination  string     `json:"destination" validate:"required"`
	BoardType    BoardType  `json:"boardType" validate:"required,oneof=FB HB NB"`
}
