package utils

import (
	"errors"
	"net/http"
)

// AppError is an error with an HTTP status and a message safe to show to
// the client. Kind is an optional machine readable reason.
type AppError struct {
	StatusCode int
	Message    string
	Kind       string
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithKind sets the machine readable reason and returns e.
func (e *AppError) WithKind(kind string) *AppError {
	e.Kind = kind
	return e
}

// WithCause records the underlying error and returns e.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func NewBadRequestError(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

func NewPayloadTooLargeError(message string) *AppError {
	return &AppError{StatusCode: http.StatusRequestEntityTooLarge, Message: message}
}

func NewUnprocessableError(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnprocessableEntity, Message: message}
}

func NewInternalError(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}

// AsAppError unwraps err to an *AppError if there is one in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
