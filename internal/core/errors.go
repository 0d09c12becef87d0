// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidState  = errors.New("invalid state")
	ErrInternalError = errors.New("internal error")
)

// AppError carries everything the envelope writer needs. Message is
// always safe to show the caller.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
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

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// ValidationError is a field-level input failure. Its message is
// surfaced verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func ValidationMessage(err error) (string, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message, true
	}
	return "", false
}

// IsDomainError reports whether err is an expected outcome of bad input,
// missing resources or failed credentials rather than a system fault.
func IsDomainError(err error) bool {
	for _, target := range []error{
		ErrNotFound,
		ErrDuplicateKey,
		ErrInvalidInput,
		ErrUnauthorized,
		ErrInvalidState,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "VALIDATION_ERROR")
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func InvalidCredentialsError(message string) *AppError {
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "INVALID_CREDENTIALS")
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrNotFound, resource+" not found", http.StatusNotFound, "NOT_FOUND")
}

func ConflictError(message string) *AppError {
	return NewAppError(ErrDuplicateKey, message, http.StatusConflict, "CONFLICT")
}

func InvalidStateError(message string) *AppError {
	return NewAppError(ErrInvalidState, message, http.StatusConflict, "INVALID_STATE")
}

func RateLimitedError(message string) *AppError {
	return NewAppError(nil, message, http.StatusTooManyRequests, "RATE_LIMITED")
}

func InternalError() *AppError {
	return NewAppError(
		ErrInternalError,
		"Something went wrong. Please try again.",
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
	)
}
