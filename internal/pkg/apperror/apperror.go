package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for handler-level mapping.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindExternal   Kind = "external"
	KindInternal   Kind = "internal"
)

// AppError carries an HTTP status alongside a client-safe message. Internal
// causes stay in Err and are logged, never serialized.
type AppError struct {
	StatusCode int
	Kind       Kind
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidation(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Kind: KindValidation, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Kind: KindConflict, Message: message}
}

func NewAuth(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Kind: KindAuth, Message: message}
}

// NewOTP covers invalid/expired OTP submissions; the route contract answers
// these with 400, not 401.
func NewOTP(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Kind: KindAuth, Message: message}
}

func NewExternal(message string, err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Kind: KindExternal, Message: message, Err: err}
}

func NewInternal(err error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error", Err: err}
}

// From extracts an *AppError, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}
