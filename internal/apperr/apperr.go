// Package apperr defines the error taxonomy shared by every service.
//
// Callers match with errors.As; the HTTP layer maps each type to a
// status code. None of these errors is retried.
package apperr

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed, missing or out-of-range input.
type ValidationError struct {
	Fields []FieldError
	// Msg replaces the field summary when the body could not be decoded
	// at all.
	Msg string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, ", ")
}

// Malformed reports a request body that is not decodable JSON.
func (e *ValidationError) Malformed() bool {
	return len(e.Fields) == 0
}

// NewMalformed returns a ValidationError for an undecodable body.
func NewMalformed(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown or malformed id, or a lookup whose
// first read did not resolve.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError reports a duplicate value in a unique field.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Field, e.Value)
}

// AuthError reports a failed login. The external shape is the same for
// both reasons; only the message differs.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }

// Login failure reasons.
const (
	ReasonEmailNotFound     = "Email not found"
	ReasonIncorrectPassword = "Incorrect password"
)
