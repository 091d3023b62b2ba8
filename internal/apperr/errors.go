// Package apperr defines the error taxonomy shared by the vault client and the tool layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrAuthentication = errors.New("authentication failed")
	ErrNotFound       = errors.New("not found")
	ErrRemote         = errors.New("remote error")
	ErrTransport      = errors.New("transport error")
)

// Error describes a failed call to the vault REST API.
// Kind is one of ErrAuthentication, ErrNotFound, ErrRemote or ErrTransport.
type Error struct {
	Kind    error
	Status  int
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ErrTransport:
		return fmt.Sprintf("Request failed: %v", e.Err)
	case e.Code != 0:
		return fmt.Sprintf("Error %d: %s", e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("Error %d: %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("Error %d: %s", e.Status, e.Kind)
	}
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ValidationError is returned when tool input is rejected before any network call.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidation builds a ValidationError for field.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
