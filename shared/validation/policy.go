package validation

import (
	"errors"
	"fmt"

	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/models"
)

var (
	ErrMealsNotIncluded = errors.New("meals are not included in the board type")
	ErrMealConflict     = errors.New("half board allows either lunch or dinner")
	ErrDaySequence      = errors.New("daily selections do not follow the trip dates")
)

// MealPolicy is the meal-inclusion rule of a board type
type MealPolicy int

const (
	// MealPolicyNone forbids any meal
	MealPolicyNone MealPolicy = iota
	// MealPolicyOneOf allows lunch or dinner, never both
	MealPolicyOneOf
	// MealPolicyIndependent allows lunch and dinner freely
	MealPolicyIndependent
)

// PolicyFor returns the meal policy of a board type. Unset or unknown
// board types allow no meals.
func PolicyFor(board models.BoardType) MealPolicy {
	switch board {
	case models.BoardTypeFull:
		return MealPolicyIndependent
	case models.BoardTypeHalf:
		return MealPolicyOneOf
	}
	return MealPolicyNone
}

// ApplyBoardPolicy rewrites a day patch so that it honours the board type.
// Under half board, setting one meal clears the other in the same patch.
func ApplyBoardPolicy(board models.BoardType, patch models.DayPatch) (models.DayPatch, error) {
	switch PolicyFor(board) {
	case MealPolicyNone:
		if patch.LunchID.IsSet() || patch.DinnerID.IsSet() {
			return patch, ErrMealsNotIncluded
		}
	case MealPolicyOneOf:
		lunch, dinner := patch.LunchID.IsSet(), patch.DinnerID.IsSet()
		switch {
		case lunch && dinner:
			return patch, ErrMealConflict
		case lunch:
			patch.DinnerID = models.Clear[int]()
		case dinner:
			patch.LunchID = models.Clear[int]()
		}
	}
	return patch, nil
}

// NormalizeMeals clears meal choices that a (new) board type no longer allows
func NormalizeMeals(board models.BoardType, days []models.DaySelection) []models.DaySelection {
	out := make([]models.DaySelection, len(days))
	for i, d := range days {
		d = d.Clone()
		switch PolicyFor(board) {
		case MealPolicyNone:
			d.LunchID, d.DinnerID = nil, nil
		case MealPolicyOneOf:
			if d.LunchID != nil && d.DinnerID != nil {
				d.LunchID, d.DinnerID = nil, nil
			}
		}
		out[i] = d
	}
	return out
}

// CheckDays verifies that the daily selections belong to the trip: one entry
// per day numbered from 1, dated from the start date, honouring the board
// type and naming only hotels and meals the destination offers.
func CheckDays(cat catalog.Catalog, booking models.BookingConfiguration) error {
	days := booking.DailySelections
	if len(days) != booking.NumberOfDays {
		return fmt.Errorf("%w: %d selections for %d days", ErrDaySequence, len(days), booking.NumberOfDays)
	}
	if len(days) > 0 && booking.StartDate == nil {
		return fmt.Errorf("%w: no start date", ErrDaySequence)
	}

	destination := booking.DestinationName()
	board := booking.Board()
	for i, day := range days {
		if day.DayNumber != i+1 {
			return fmt.Errorf("%w: day %d at position %d", ErrDaySequence, day.DayNumber, i+1)
		}
		want := models.CalendarDate(*booking.StartDate).AddDate(0, 0, i)
		if !models.CalendarDate(day.Date).Equal(want) {
			return fmt.Errorf("%w: day %d dated %s", ErrDaySequence, day.DayNumber, day.Date.Format("2006-01-02"))
		}
		if err := checkMeals(board, day); err != nil {
			return fmt.Errorf("day %d: %w", day.DayNumber, err)
		}
		if err := ValidateDayReferences(cat, destination, selectionPatch(day)); err != nil {
			return fmt.Errorf("day %d: %w", day.DayNumber, err)
		}
	}
	return nil
}

func checkMeals(board models.BoardType, day models.DaySelection) error {
	switch PolicyFor(board) {
	case MealPolicyNone:
		if day.LunchID != nil || day.DinnerID != nil {
			return ErrMealsNotIncluded
		}
	case MealPolicyOneOf:
		if day.LunchID != nil && day.DinnerID != nil {
			return ErrMealConflict
		}
	}
	return nil
}

// selectionPatch turns the ids held by a day into a patch setting them
func selectionPatch(day models.DaySelection) models.DayPatch {
	var patch models.DayPatch
	if day.HotelID != nil {
		patch.HotelID = models.Set(*day.HotelID)
	}
	if day.LunchID != nil {
		patch.LunchID = models.Set(*day.LunchID)
	}
	if day.DinnerID != nil {
		patch.DinnerID = models.Set(*day.DinnerID)
	}
	return patch
}

// IsDayComplete reports whether a hotel has been chosen for the day
func IsDayComplete(day models.DaySelection) bool {
	return day.HotelID != nil
}

// IsBookingReady reports whether every day is complete
func IsBookingReady(booking models.BookingConfiguration) bool {
	for _, day := range booking.DailySelections {
		if !IsDayComplete(day) {
			return false
		}
	}
	return true
}

// SelectedDaysCount returns the number of complete days
func SelectedDaysCount(booking models.BookingConfiguration) int {
	count := 0
	for _, day := range booking.DailySelections {
		if IsDayComplete(day) {
			count++
		}
	}
	return count
}

// CompletionPercentage returns the share of complete days, 0 to 100
func CompletionPercentage(booking models.BookingConfiguration) float64 {
	if len(booking.DailySelections) == 0 {
		return 0
	}
	return float64(SelectedDaysCount(booking)) / float64(len(booking.DailySelections)) * 100
}

// IncompleteDays returns the day numbers still lacking a hotel
func IncompleteDays(booking models.BookingConfiguration) []int {
	days := []int{}
	for _, day := range booking.DailySelections {
		if !IsDayComplete(day) {
			days = append(days, day.DayNumber)
		}
	}
	return days
}

// Progress derives the daily-selection progress of a booking
func Progress(booking models.BookingConfiguration) models.ProgressStatus {
	return models.ProgressStatus{
		Ready:                IsBookingReady(booking),
		SelectedDays:         SelectedDaysCount(booking),
		TotalDays:            len(booking.DailySelections),
		CompletionPercentage: CompletionPercentage(booking),
		IncompleteDays:       IncompleteDays(booking),
	}
}
