// Package apperrors defines the error taxonomy shared by the exchange core.
// Every failure is per-operation and recoverable by the caller; there is no
// fatal process-level category.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates error categories for transport mapping.
type Kind string

// Error kinds
const (
	KindNotFound          Kind = "NOT_FOUND"
	KindIneligible        Kind = "INELIGIBLE"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindValidation        Kind = "VALIDATION_ERROR"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindForbidden         Kind = "FORBIDDEN"
	KindConflict          Kind = "CONFLICT"
	KindInternal          Kind = "INTERNAL_ERROR"
)

// Error is a structured domain error.
type Error struct {
	Kind    Kind   `json:"code"`
	Message string `json:"message"`
	err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// HTTPStatus maps the error kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindIneligible, KindInvalidTransition, KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// NotFound reports a missing item, request, swap, or user.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Ineligible reports an eligibility gate failure with a human-readable reason.
func Ineligible(format string, args ...interface{}) *Error {
	return &Error{Kind: KindIneligible, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a state change attempted from a terminal state.
func InvalidTransition(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed input, rejected before any persistence write.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden reports an action the authenticated user may not perform.
func Forbidden(message string) *Error {
	if message == "" {
		message = "access denied"
	}
	return &Error{Kind: KindForbidden, Message: message}
}

// Conflict reports a uniqueness or duplicate-state violation.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected failure from a collaborator.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "an unexpected error occurred", err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
