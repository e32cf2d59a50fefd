package utils

import (
	"fmt"
	"net/http"
)

// ErrorKind names a category of failure reported to clients.
type ErrorKind string

const (
	KindValidation      ErrorKind = "ValidationError"
	KindDuplicateEmail  ErrorKind = "DuplicateEmail"
	KindUnauthenticated ErrorKind = "Unauthenticated"
	KindForbidden       ErrorKind = "Forbidden"
	KindAdminRequired   ErrorKind = "AdminRequired"
	KindUnauthorized    ErrorKind = "Unauthorized"
	KindNotFound        ErrorKind = "NotFound"
	KindRateLimited     ErrorKind = "RateLimited"
	KindInternal        ErrorKind = "InternalError"
)

// Status maps the kind onto its HTTP status code.
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation, KindDuplicateEmail:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden, KindAdminRequired, KindUnauthorized:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthenticated
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}

// AppError is an error with everything needed to render the error envelope.
// Code is a 5-digit application code whose first three digits are the HTTP status.
type AppError struct {
	Kind    ErrorKind
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Status is the HTTP status for the error.
func (e *AppError) Status() int { return e.Kind.Status() }

func NewAppError(kind ErrorKind, code int, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

func Validation(code int, message string) *AppError {
	return NewAppError(KindValidation, code, message)
}

func NotFound(code int, message string) *AppError {
	return NewAppError(KindNotFound, code, message)
}

func Unauthorized(code int, message string) *AppError {
	return NewAppError(KindUnauthorized, code, message)
}

// Internal wraps an unexpected failure. The client only sees a generic message.
func Internal(code int, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: code, Message: "internal server error", Err: err}
}
