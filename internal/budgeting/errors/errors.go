package errors

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed or out-of-range input. Handlers surface it
// as a 400 with the field-level message; everything else stays opaque.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}
