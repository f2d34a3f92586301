package domain

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedID is returned when an id is not a well-formed UUID.
	ErrMalformedID = errors.New("malformatted id")

	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenMissing is returned by protected operations when no usable identity was supplied.
	ErrTokenMissing = errors.New("token missing or invalid")

	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotFound is reported as a bare 404.
	ErrNotFound = errors.New("not found")
)

// FieldViolation describes one failed rule on one field of a record.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned by the persistence layer when a record cannot be
// written because of a missing, short or duplicate field.
type ValidationError struct {
	Model  string
	Fields []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return e.Model + " validation failed: " + strings.Join(parts, ", ")
}

// Add records a violation and returns the receiver so checks can be chained.
func (e *ValidationError) Add(field, rule, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldViolation{Field: field, Rule: rule, Message: message})
	return e
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Err returns nil when no violation was recorded, which keeps call sites from
// returning a typed nil inside an error interface.
func (e *ValidationError) Err() error {
	if e == nil || !e.HasErrors() {
		return nil
	}
	return e
}

func NewValidationError(model string) *ValidationError {
	return &ValidationError{Model: model}
}

// UniqueMessage renders the duplicate-value message for a field.
func UniqueMessage(field, value string) string {
	return "Error, expected `" + field + "` to be unique. Value: `" + value + "`"
}
