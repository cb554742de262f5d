// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped in a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidUpdate is returned when an update names a field outside its allow-list.
	ErrInvalidUpdate = errors.New("invalid update")
)

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field. If err is nil the
// error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports ErrValidation for every ValidationError so callers can test a
// single sentinel regardless of the more specific cause.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidationError reports whether err is a validation failure of any kind.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
