package domain

import "fmt"

// FieldError validation failure bound to one input field.
// Err is the sentinel of the layer that produced it, so errors.Is keeps working.
type FieldError struct {
	Err     error
	Field   string
	Message string
}

// NewFieldError creates a validation error for field
func NewFieldError(err error, field, message string) *FieldError {
	return &FieldError{Err: err, Field: field, Message: message}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
