package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	// InternalServiceError is the error code for internal service errors
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	// ValidationError is the error code for validation errors on caller input
	ValidationError ErrorCode = "VALIDATION_ERROR"
	// NotFound is the error code for missing entities
	NotFound ErrorCode = "NOT_FOUND"
	// Forbidden is the error code for callers lacking the required role
	Forbidden ErrorCode = "FORBIDDEN"
	// SystemPaused is the error code returned while the pool is paused
	SystemPaused ErrorCode = "SYSTEM_PAUSED"
	// Conflict is the error code for operations rejected by current state
	// (already-processed withdrawal, time gates not yet elapsed, busy engine)
	Conflict ErrorCode = "CONFLICT"
)

// Error wraps an underlying error with an HTTP status code and a machine
// readable error code so API handlers can map rejections uniformly.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	return &Error{
		Err:        err,
		StatusCode: statusCode,
		ErrorCode:  errorCode,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewValidationError(err error) *Error {
	return NewError(http.StatusBadRequest, ValidationError, err)
}

func NewInternalServiceError(err error) *Error {
	return NewError(http.StatusInternalServerError, InternalServiceError, err)
}
