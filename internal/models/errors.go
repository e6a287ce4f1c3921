package models

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repositories and services. Handlers map
// these onto HTTP status codes; everything else surfaces as a 500.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")

	// Seat-ledger conflicts. Both wrap ErrConflict so callers can match
	// either the specific or the general class.
	ErrSeatTaken = fmt.Errorf("%w: seat already taken", ErrConflict)
	ErrTripFull  = fmt.Errorf("%w: trip is sold out", ErrConflict)
)

// ValidationError reports missing or malformed input fields.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
