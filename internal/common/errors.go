// Package common holds the error taxonomy and logging helpers shared by every layer.
package common

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no transaction exists for the requested id.
var ErrNotFound = errors.New("transaction not found")

// FieldError describes one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ValidationError is returned for malformed, missing or out-of-range input.
type ValidationError struct {
	Message string
	Details []FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with an optional list of field details.
func NewValidationError(message string, details ...FieldError) error {
	return &ValidationError{Message: message, Details: details}
}

// StorageError wraps an unexpected persistence failure. The in-flight database
// transaction has already been rolled back when one of these is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a StorageError for operation op.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
