package form

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mossy-p/form-builder/internal/models"
)

const (
	msgInvalidNumber = "Please enter a valid number"
)

// Validate checks every field against its value. Each field gets at most
// one message; the first failing rule wins.
func Validate(fields []models.FieldDefinition, values models.Values) models.Errors {
	errs := make(models.Errors)
	for _, field := range fields {
		if msg, ok := checkField(field, values[field.Name]); !ok {
			errs[field.Name] = msg
		}
	}
	return errs
}

func checkField(field models.FieldDefinition, value models.Value) (string, bool) {
	if field.Required && value.IsBlank() {
		return fmt.Sprintf("%s is required", orDefault(field.Placeholder, "Field")), false
	}
	if field.Kind == models.KindNumber && !value.IsEmpty() && !isNumber(value.Text) {
		return msgInvalidNumber, false
	}
	if (field.Kind == models.KindDropdown || field.Kind == models.KindRadio) && field.Required && value.IsEmpty() {
		return fmt.Sprintf("Please select a %s", orDefault(field.Placeholder, "value")), false
	}
	return "", true
}

var (
	decimalNumber   = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	prefixedInteger = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[bB][01]+|[oO][0-7]+)$`)
)

// isNumber accepts what a browser's Number() conversion accepts: surrounding
// whitespace is ignored, decimal and exponent forms, unsigned 0x/0b/0o
// integers and a signed Infinity. Digit separators, "inf" and NaN are not
// numbers.
func isNumber(raw string) bool {
	s := strings.TrimSpace(raw)
	switch s {
	case "":
		return true
	case "Infinity", "+Infinity", "-Infinity":
		return true
	}
	return decimalNumber.MatchString(s) || prefixedInteger.MatchString(s)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
