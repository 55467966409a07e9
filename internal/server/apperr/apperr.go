// Package apperr describes errors that reach the HTTP boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API error carrying the HTTP status and the client-facing message.
// Err keeps the original cause for logging and is never serialized.
type Error struct {
	Err     error
	Message string
	Errors  []string
	Status  int
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches a cause to the error and returns it.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// WithDetails appends field-level messages.
func (e *Error) WithDetails(details ...string) *Error {
	e.Errors = append(e.Errors, details...)
	return e
}

// New creates an Error with the given status and message.
func New(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func TooLarge(message string) *Error {
	return New(http.StatusRequestEntityTooLarge, message)
}

// Internal creates a 500 error keeping err as the cause.
func Internal(message string, err error) *Error {
	if message == "" {
		message = "internal server error"
	}
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// From converts any error into *Error. Unknown errors become 500 and keep
// the original error only as the cause.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	return Internal("", err)
}
