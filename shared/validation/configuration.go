package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/akbar-farajov/booking-system/shared/catalog"
	"github.com/akbar-farajov/booking-system/shared/models"
	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownReference = errors.New("reference not offered at destination")
)

// FieldErrors maps configuration fields to user-facing messages
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

var messages = map[string]map[string]string{
	"citizenship":  {"required": "Please select your citizenship"},
	"startDate":    {"required": "Please select a start date"},
	"numberOfDays": {"min": "Minimum 1 day", "max": "Maximum 30 days"},
	"destination":  {"required": "Please select a destination"},
	"boardType":    {"required": "Please select a board type", "oneof": "Please select a board type"},
}

// ValidateConfiguration checks the configuration step form. It returns
// FieldErrors when any field is missing, out of range or not in the catalog.
func ValidateConfiguration(input models.ConfigurationInput, cat catalog.Catalog) error {
	errs := FieldErrors{}

	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate configuration: %w", err)
		}
		for _, fe := range verrs {
			errs[fe.Field()] = messageFor(fe.Field(), fe.Tag())
		}
	}

	if _, failed := errs["citizenship"]; !failed && input.Citizenship != nil {
		if _, ok := cat.Country(*input.Citizenship); !ok {
			errs["citizenship"] = messages["citizenship"]["required"]
		}
	}
	if _, failed := errs["destination"]; !failed && !cat.HasDestination(input.Destination) {
		errs["destination"] = messages["destination"]["required"]
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func messageFor(field, tag string) string {
	if msg, ok := messages[field][tag]; ok {
		return msg
	}
	return fmt.Sprintf("failed on %s", tag)
}

// ValidateDayReferences rejects hotel or meal ids that the destination does
// not offer. Clearing a field is always accepted.
func ValidateDayReferences(cat catalog.Catalog, destination string, patch models.DayPatch) error {
	if patch.HotelID.IsSet() {
		if _, ok := cat.Hotel(destination, *patch.HotelID.Value); !ok {
			return fmt.Errorf("%w: hotel %d", ErrUnknownReference, *patch.HotelID.Value)
		}
	}
	if patch.LunchID.IsSet() {
		if _, ok := cat.Lunch(destination, *patch.LunchID.Value); !ok {
			return fmt.Errorf("%w: lunch %d", ErrUnknownReference, *patch.LunchID.Value)
		}
	}
	if patch.DinnerID.IsSet() {
		if _, ok := cat.Dinner(destination, *patch.DinnerID.Value); !ok {
			return fmt.Errorf("%w: dinner %d", ErrUnknownReference, *patch.DinnerID.Value)
		}
	}
	return nil
}
