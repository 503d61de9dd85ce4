package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/OldStager01/sales-forecaster/pkg/models"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// Order dates come from a date control: YYYY-MM-DD
	orderDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters except newline and tab
	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}

	return builder.String()
}

// ValidateOrderDate checks the shape and the calendar validity of a date.
func ValidateOrderDate(date string) error {
	date = SanitizeString(date)

	if date == "" {
		return errors.New("order date cannot be empty")
	}

	if !orderDateRegex.MatchString(date) {
		return errors.New("order date must be formatted as YYYY-MM-DD")
	}

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("order date %q is not a calendar date", date)
	}

	return nil
}

// ValidateModel checks a model selector against the accepted set.
func ValidateModel(model string, allowed []string) error {
	model = SanitizeString(model)

	if model == "" {
		return errors.New("model cannot be empty")
	}

	for _, a := range allowed {
		if a == model {
			return nil
		}
	}
	return fmt.Errorf("unsupported model %q", model)
}

// ValidateFieldsRequest checks a field-based prediction request before it is
// sent. Every field must be set, the date well formed and the model known.
func ValidateFieldsRequest(req models.FieldsPredictionRequest, allowedModels []string) error {
	if missing := req.MissingFields(); len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	if err := ValidateOrderDate(req.OrderDate); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := ValidateModel(req.Model, allowedModels); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}
