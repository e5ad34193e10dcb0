// Package apperror holds the error kinds surfaced by the services.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for a missing post, group or user.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the actor may not mutate the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrSelfFollow is returned when a user tries to follow themself.
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrInvalidCredentials is returned by login for a bad username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a single invalid form field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a *ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
