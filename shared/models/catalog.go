package models

// Country represents a selectable citizenship or destination country
type Country struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Hotel represents a hotel available at a destination
type Hotel struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Meal represents a lunch or dinner option at a destination
type Meal struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// MealMenu holds the meals offered at a destination, per meal period
type MealMenu struct {
	Lunch  []Meal `json:"lunch"`
	Dinner []Meal `json:"dinner"`
}

// BoardType is the meal plan tier of a booking
type BoardType string

const (
	BoardTypeFull BoardType = "FB"
	BoardTypeHalf BoardType = "HB"
	BoardTypeNone BoardType = "NB"
)

// Name returns the display name of the board type
func (b BoardType) Name() string {
	switch b {
	case BoardTypeFull:
		return "Full Board"
	case BoardTypeHalf:
		return "Half Board"
	case BoardTypeNone:
		return "No Board"
	}
	return ""
}

// Valid reports whether b is one of the known board types
func (b BoardType) Valid() bool {
	return b.Name() != ""
}

// BoardTypeInfo is the catalog entry for a board type
type BoardTypeInfo struct {
	Code BoardType `json:"code"`
	Name string    `json:"name"`
}
