package allocation

import (
	"errors"
	"fmt"
)

// ErrAllocationInput is matched by every *InputError.
var ErrAllocationInput = errors.New("invalid allocation input")

// InputError reports allocation input that cannot be computed.
type InputError struct {
	Field   string
	Message string
}

// NewInputError creates an input error for field.
func NewInputError(field, message string) *InputError {
	return &InputError{Field: field, Message: message}
}

// Error implements the error interface
func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is matches ErrAllocationInput
func (e *InputError) Is(target error) bool {
	return target == ErrAllocationInput
}
