package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrCredentials = errors.New("invalid credentials")
	ErrAuth        = errors.New("not authorized")
	ErrNotFound    = errors.New("not found")
	ErrStorage     = errors.New("storage error")
	ErrInternal    = errors.New("internal error")
)

type AppError struct {
	Err     error  // taxonomy sentinel
	Message string // human-readable message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error kind to an HTTP status code.
func (e *AppError) Status() int {
	switch {
	case errors.Is(e.Err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(e.Err, ErrConflict):
		return http.StatusConflict
	case errors.Is(e.Err, ErrCredentials):
		return http.StatusUnauthorized
	case errors.Is(e.Err, ErrAuth):
		return http.StatusForbidden
	case errors.Is(e.Err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func Validation(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidCredentials reports a failed credential check on login.
// HTTP handlers map this to 401 Unauthorized.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrCredentials,
		Message: "Invalid credentials",
	}
}

// Auth returns an AppError indicating the caller is not authorized.
// HTTP handlers map this to 403 Forbidden.
func Auth(message string) *AppError {
	return &AppError{
		Err:     ErrAuth,
		Message: message,
	}
}

func NotFound(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func Storage(op string, err error) *AppError {
	return &AppError{
		Err:     ErrStorage,
		Message: fmt.Sprintf("%s: %v", op, err),
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: err.Error(),
	}
}
