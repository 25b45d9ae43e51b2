package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// ClientError standardizes failures surfaced by the portal. Errors coming
// back from the external ticketing API keep its HTTP status and message;
// locally detected failures (validation, gating) are built with the
// constructors below.
type ClientError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError constructs a ClientError.
func NewClientError(code, message string, status int, details map[string]any) *ClientError {
	return &ClientError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewClientError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string) error {
	return &ClientError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewUnauthorized(message string) error {
	return NewClientError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewClientError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewUnavailable(message string, err error) error {
	return &ClientError{
		Code:       "UPSTREAM_UNAVAILABLE",
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &ClientError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// FromAPI wraps an error body returned by the external API, preserving its
// HTTP status so callers can branch on authentication and gating failures.
func FromAPI(status int, message string) *ClientError {
	code := "API_ERROR"
	switch status {
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusForbidden:
		code = "FORBIDDEN"
	case http.StatusNotFound:
		code = "NOT_FOUND"
	case http.StatusBadRequest:
		code = "VALIDATION_FAILED"
	}
	if message == "" {
		message = http.StatusText(status)
	}
	return &ClientError{Code: code, Message: message, HTTPStatus: status}
}

// ToClientError converts generic errors to ClientError.
func ToClientError(err error) *ClientError {
	if err == nil {
		return nil
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}
	return &ClientError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsStatus reports whether err is a ClientError carrying the given HTTP status.
func IsStatus(err error, status int) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.HTTPStatus == status
	}
	return false
}

// IsUnauthorized reports whether err represents an authentication failure.
func IsUnauthorized(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}
