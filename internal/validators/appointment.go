package validators

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	domain "github.com/BruksfildServices01/barber-dashboard/internal/domain/appointment"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator with the dashboard's custom tags
// registered.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("clocktime", isClockTime)
		_ = validate.RegisterValidation("workhours", isWorkingHour)
	})
	return validate
}

// Struct validates v and flattens field errors into one readable error.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		parts = append(parts, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid fields: %s", strings.Join(parts, ", "))
}

// IsDate reports whether v is a YYYY-MM-DD calendar date.
func IsDate(v string) bool {
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

// isClockTime accepts HH:MM and HH:MM:SS.
func isClockTime(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

// isWorkingHour accepts start times inside the shop's operating window.
func isWorkingHour(fl validator.FieldLevel) bool {
	return domain.WithinOperatingWindow(fl.Field().String())
}
