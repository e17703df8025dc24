package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// Pipeline errors.
	ErrMissingTable     = errors.New("required table not found")
	ErrSourceRejected   = errors.New("source page rejected")
	ErrIdentityMismatch = errors.New("identity mismatch")
)

// MissingTableError reports a required table or section that could not be
// located in a fetched document. It aborts a sync run before any write.
type MissingTableError struct {
	Page  string
	Table string
}

func (e *MissingTableError) Error() string {
	return fmt.Sprintf("page %q: table %q not found", e.Page, e.Table)
}

func (e *MissingTableError) Unwrap() error { return ErrMissingTable }

// NewMissingTableError creates a MissingTableError.
func NewMissingTableError(page, table string) *MissingTableError {
	return &MissingTableError{Page: page, Table: table}
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
