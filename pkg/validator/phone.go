package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates the phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates the phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrInvalidLength indicates the phone number has too few or too many digits
	ErrInvalidLength = errors.New("phone number must have between 9 and 15 digits")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator validates passenger phone numbers. Bookings come from
// many countries, so the check is shape-based: an optional + prefix and
// 9 to 15 digits, with common separators tolerated.
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate checks a phone number and returns the sanitized form
// (digits, with the leading + preserved when present).
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	digits := strings.TrimPrefix(sanitized, "+")
	if !digitsRegex.MatchString(digits) {
		return "", ErrInvalidFormat
	}
	if len(digits) < 9 || len(digits) > 15 {
		return "", ErrInvalidLength
	}
	return sanitized, nil
}

// Sanitize strips spaces, dashes, dots and parentheses from a phone number
func (v *PhoneValidator) Sanitize(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
	return replacer.Replace(strings.TrimSpace(phone))
}
