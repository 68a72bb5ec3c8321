// Package apperr defines the error kinds shared by every domain package.
// Domain sentinels wrap one of the kinds so callers can branch on the kind
// with errors.Is without knowing the concrete entity.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a referenced project, client or employee is absent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates an ownership or role check failed.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation indicates a missing or malformed input field.
	ErrValidation = errors.New("validation failed")
	// ErrConsistencyRisk indicates a dependent write failed after the primary
	// write committed.
	ErrConsistencyRisk = errors.New("consistency risk")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a ValidationError for field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Kind reports which taxonomy kind err belongs to, or nil.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrForbidden, ErrValidation, ErrConsistencyRisk} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
