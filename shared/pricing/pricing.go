package pricing

import (
	"math"

	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/models"
)

// DayCost prices one day of the booking. Unset or unknown references
// contribute nothing, and meals are not priced under No Board.
func DayCost(cat catalog.Catalog, booking models.BookingConfiguration, day models.DaySelection) models.DayCost {
	dest := booking.DestinationName()
	cost := models.DayCost{
		DayNumber: day.DayNumber,
		Date:      day.Date,
	}

	if day.HotelID != nil {
		if hotel, ok := cat.Hotel(dest, *day.HotelID); ok {
			cost.Hotel = &hotel
			cost.Total += hotel.Price
		}
	}

	if booking.Board() == models.BoardTypeNone {
		return cost
	}

	if day.LunchID != nil {
		if lunch, ok := cat.Lunch(dest, *day.LunchID); ok {
			cost.Lunch = &lunch
			cost.Total += lunch.Price
		}
	}
	if day.DinnerID != nil {
		if dinner, ok := cat.Dinner(dest, *day.DinnerID); ok {
			cost.Dinner = &dinner
			cost.Total += dinner.Price
		}
	}

	return cost
}

// DayTotal returns the cost of one day
func DayTotal(cat catalog.Catalog, booking models.BookingConfiguration, day models.DaySelection) float64 {
	return DayCost(cat, booking, day).Total
}

// GrandTotal returns the cost of every day of the booking
func GrandTotal(cat catalog.Catalog, booking models.BookingConfiguration) float64 {
	var total float64
	for _, day := range booking.DailySelections {
		total += DayTotal(cat, booking, day)
	}
	return total
}

// AveragePerDay returns the unrounded grand total per configured day
func AveragePerDay(cat catalog.Catalog, booking models.BookingConfiguration) float64 {
	return Average(GrandTotal(cat, booking), booking.NumberOfDays)
}

// Summarize prices the whole booking in one pass
func Summarize(cat catalog.Catalog, booking models.BookingConfiguration) models.PriceSummary {
	summary := models.PriceSummary{
		Days: make([]models.DayCost, 0, len(booking.DailySelections)),
	}
	for _, day := range booking.DailySelections {
		cost := DayCost(cat, booking, day)
		summary.Days = append(summary.Days, cost)
		summary.GrandTotal += cost.Total
	}
	summary.AveragePerDay = Average(summary.GrandTotal, booking.NumberOfDays)
	return summary
}

// Round2 rounds an amount to cents for display
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Average spreads a total over days, returning 0 for no days
func Average(total float64, days int) float64 {
	if days <= 0 {
		return 0
	}
	return total / float64(days)
}
