package scheduling

import (
	"errors"
	"fmt"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// ValidationError reports a missing or malformed field on create input.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s is required", e.Field)
}
