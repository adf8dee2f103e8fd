package catalog

import (
	"github.com/akbar-farajov/booking-system/shared/models"
)

// Catalog is the read-only reference data of the wizard.
// Unknown keys degrade to empty results and never fail.
type Catalog interface {
	Countries() []models.Country
	BoardTypes() []models.BoardTypeInfo
	HotelsFor(destination string) []models.Hotel
	MealsFor(destination string) (models.MealMenu, bool)

	Country(id int) (models.Country, bool)
	HasDestination(destination string) bool
	Hotel(destination string, id int) (models.Hotel, bool)
	Lunch(destination string, id int) (models.Meal, bool)
	Dinner(destination string, id int) (models.Meal, bool)
}

// Data is the raw content of a static catalog
type Data struct {
	Countries []models.Country
	Hotels    map[string][]models.Hotel
	Meals     map[string]models.MealMenu
}

// Static is a Catalog backed by in-memory data
type Static struct {
	countries []models.Country
	hotels    map[string][]models.Hotel
	meals     map[string]models.MealMenu
}

var boardTypes = []models.BoardTypeInfo{
	{Code: models.BoardTypeFull, Name: models.BoardTypeFull.Name()},
	{Code: models.BoardTypeHalf, Name: models.BoardTypeHalf.Name()},
	{Code: models.BoardTypeNone, Name: models.BoardTypeNone.Name()},
}

// New creates a Static catalog from data
func New(data Data) *Static {
	s := &Static{
		countries: append([]models.Country(nil), data.Countries...),
		hotels:    make(map[string][]models.Hotel, len(data.Hotels)),
		meals:     make(map[string]models.MealMenu, len(data.Meals)),
	}
	for dest, hotels := range data.Hotels {
		s.hotels[dest] = append([]models.Hotel(nil), hotels...)
	}
	for dest, menu := range data.Meals {
		s.meals[dest] = models.MealMenu{
			Lunch:  append([]models.Meal(nil), menu.Lunch...),
			Dinner: append([]models.Meal(nil), menu.Dinner...),
		}
	}
	return s
}

// Countries returns all citizenship countries
func (s *Static) Countries() []models.Country {
	return append([]models.Country(nil), s.countries...)
}

// BoardTypes returns the board types in display order
func (s *Static) BoardTypes() []models.BoardTypeInfo {
	return append([]models.BoardTypeInfo(nil), boardTypes...)
}

// HotelsFor returns the hotels of a destination, empty when unknown
func (s *Static) HotelsFor(destination string) []models.Hotel {
	return append([]models.Hotel{}, s.hotels[destination]...)
}

// MealsFor returns the lunch and dinner menu of a destination
func (s *Static) MealsFor(destination string) (models.MealMenu, bool) {
	menu, ok := s.meals[destination]
	if !ok {
		return models.MealMenu{}, false
	}
	return models.MealMenu{
		Lunch:  append([]models.Meal{}, menu.Lunch...),
		Dinner: append([]models.Meal{}, menu.Dinner...),
	}, true
}

// Country returns the country with the given id
func (s *Static) Country(id int) (models.Country, bool) {
	for _, c := range s.countries {
		if c.ID == id {
			return c, true
		}
	}
	return models.Country{}, false
}

// HasDestination reports whether hotels or meals are listed for destination
func (s *Static) HasDestination(destination string) bool {
	_, hotels := s.hotels[destination]
	_, meals := s.meals[destination]
	return hotels || meals
}

// Hotel returns a hotel offered at the destination
func (s *Static) Hotel(destination string, id int) (models.Hotel, bool) {
	for _, h := range s.hotels[destination] {
		if h.ID == id {
			return h, true
		}
	}
	return models.Hotel{}, false
}

// Lunch returns a lunch option offered at the destination
func (s *Static) Lunch(destination string, id int) (models.Meal, bool) {
	return findMeal(s.meals[destination].Lunch, id)
}

// Dinner returns a dinner option offered at the destination
func (s *Static) Dinner(destination string, id int) (models.Meal, bool) {
	return findMeal(s.meals[destination].Dinner, id)
}

func findMeal(meals []models.Meal, id int) (models.Meal, bool) {
	for _, m := range meals {
		if m.ID == id {
			return m, true
		}
	}
	return models.Meal{}, false
}
