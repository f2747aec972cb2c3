package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks lookups of entities or images that don't exist; handlers
// map it to 404 instead of a validation failure.
var ErrNotFound = errors.New("not found")

// ValidationError carries a user-facing reason for rejecting input. It always
// halts the operation that produced it.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
