package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrValidation        = errors.New("input validation failed")
	ErrAlreadyExists     = errors.New("entry already exists")
	ErrTransaction       = errors.New("transaction failed")
	ErrInternal          = errors.New("internal server error")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Machine readable error codes returned in the error envelope.
const (
	CodeRecordNotFound     = 1003
	CodeAlreadyExists      = 1009
	CodeAuthRequired       = 1011
	CodeAuthFailed         = 1012
	CodeValidationFailed   = 1013
	CodeTemporarilyBlocked = 1016
	CodeTransactionFailed  = 1020
	CodeInternal           = 9999
)

// AppError carries a user facing message and optional field details on top of
// one of the sentinel errors above.
type AppError struct {
	Message string
	Details map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(err error, message string) *AppError {
	return &AppError{
		Message: message,
		Err:     err,
	}
}

// Validation is shorthand for a validation error with per-field details.
func Validation(message string, details map[string]string) *AppError {
	return &AppError{
		Message: message,
		Details: details,
		Err:     ErrValidation,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrAuthFailed):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// MapErrorToCode maps common errors to the stable error codes of the API.
func MapErrorToCode(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return CodeRecordNotFound
	case errors.Is(err, ErrUnauthorized):
		return CodeAuthRequired
	case errors.Is(err, ErrAuthFailed):
		return CodeAuthFailed
	case errors.Is(err, ErrValidation):
		return CodeValidationFailed
	case errors.Is(err, ErrAlreadyExists):
		return CodeAlreadyExists
	case errors.Is(err, ErrRateLimitExceeded):
		return CodeTemporarilyBlocked
	case errors.Is(err, ErrTransaction):
		return CodeTransactionFailed
	}
	return CodeInternal
}
