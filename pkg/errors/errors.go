package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error code to an HTTP status. Consumed by the error
// middleware and the handler respond helper.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	case ErrAccessExpired:
		return http.StatusPaymentRequired
	case ErrExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrUnauthorized
	ErrForbidden
	ErrConflict
	ErrExternal
	ErrAccessExpired
	ErrInternal
)

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

// Validation reports malformed input. Field names the offending input field
// when known.
func Validation(field, message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Forbidden is intentionally opaque: it never says whether the underlying
// row exists.
func Forbidden() *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: "access denied",
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

// External wraps a failed call to the payment provider or the media store.
// The caller-visible message stays generic.
func External(service string, err error) *AppError {
	return &AppError{
		Code:    ErrExternal,
		Message: fmt.Sprintf("%s service unavailable", service),
		Err:     err,
	}
}

func AccessExpired() *AppError {
	return &AppError{
		Code:    ErrAccessExpired,
		Message: "access pass expired",
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrValidation)
}

func hasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
