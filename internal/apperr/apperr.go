package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError covers bad request shape, unsupported file types,
// unparseable dates or booleans, and spreadsheet schema/row failures.
// Details carries the per-field or per-row messages shown to the caller.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %d issue(s)", e.Message, len(e.Details))
}

func Validation(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

// ConflictError reports a duplicate (product, date) pair written
// without the overwrite option.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflictf(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError is reserved for lookup endpoints; the ingestion core
// never returns it.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// Status maps an error to its HTTP status code. Anything outside the
// taxonomy is an internal error.
func Status(err error) int {
	var v *ValidationError
	var c *ConflictError
	var n *NotFoundError
	switch {
	case errors.As(err, &v):
		return http.StatusBadRequest
	case errors.As(err, &c):
		return http.StatusConflict
	case errors.As(err, &n):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the caller-facing message for errors in the taxonomy.
func Message(err error) string {
	var v *ValidationError
	var c *ConflictError
	var n *NotFoundError
	switch {
	case errors.As(err, &v):
		return v.Message
	case errors.As(err, &c):
		return c.Message
	case errors.As(err, &n):
		return n.Message
	default:
		return "internal server error"
	}
}

// Details returns the detail list for validation errors, nil otherwise.
func Details(err error) []string {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Details
	}
	return nil
}
