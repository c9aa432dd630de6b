package services

import (
	"errors"
)

// Service errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrTempStorage        = errors.New("temporary storage unavailable")
	ErrUnknownSuggestions = errors.New("unknown suggestion type")
)

// ValidationError rejects a request whose content failed validation.
// Details carries the per-item messages.
type ValidationError struct {
	Message string
	Details map[string]any
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches ErrInvalidInput
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
