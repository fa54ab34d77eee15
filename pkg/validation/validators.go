package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Allow letters, spaces, and common name punctuation: . ' -
	nameRegex = regexp.MustCompile(`^[\p{L} .'-]+$`)

	// E164-like phone: optional +, digits 7-15 length
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
}

// ValidName validates that a string contains only valid name characters
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return nameRegex.MatchString(val)
}

// ValidPhone validates a phone number structure
func ValidPhone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}
