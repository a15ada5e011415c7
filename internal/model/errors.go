package model

import (
	"errors"
	"net/http"
	"strings"
)

// ErrorCode is the closed set of machine-readable failure codes. An
// empty code marks an unclassified internal failure.
type ErrorCode string

const (
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeConflict     ErrorCode = "CONFLICT"
)

// ErrDuplicate is returned by the storage layer when a uniqueness
// constraint is violated. The operation wrapper classifies it as a
// Conflict before it crosses the service boundary.
var ErrDuplicate = errors.New("duplicate document")

// Error is the structured failure carried by every failed Result. It is
// created once at the failure site and never mutated afterwards.
type Error struct {
	Message    string    `json:"message"`
	StatusCode int       `json:"statusCode"`
	Code       ErrorCode `json:"code,omitempty"`
	Details    any       `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an unclassified failure. A zero status defaults to 500.
func NewError(message string, statusCode int) *Error {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	return &Error{Message: message, StatusCode: statusCode}
}

// NewUnauthorized marks a missing or invalid credential.
func NewUnauthorized(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized}
}

// NewNotFound marks a lookup that yielded no document.
func NewNotFound(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusNotFound, Code: CodeNotFound}
}

// NewConflict marks a uniqueness or state-precondition violation.
func NewConflict(message string) *Error {
	return &Error{Message: message, StatusCode: http.StatusConflict, Code: CodeConflict}
}

// Violation is one field-level failure reported by a validator: a
// dotted field path and a human-readable message.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// NewValidationError aggregates field-level violations into a single
// Validation failure: Details maps each field path to its messages in
// input order, and the top-level message joins every message with ". ".
func NewValidationError(violations []Violation) *Error {
	details := make(map[string][]string, len(violations))
	messages := make([]string, 0, len(violations))
	for _, v := range violations {
		details[v.Path] = append(details[v.Path], v.Message)
		messages = append(messages, v.Message)
	}
	return &Error{
		Message:    strings.Join(messages, ". "),
		StatusCode: http.StatusBadRequest,
		Code:       CodeValidation,
		Details:    details,
	}
}
