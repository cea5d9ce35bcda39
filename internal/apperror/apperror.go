// Package apperror defines the error kinds shared by stores, services and
// the HTTP boundary, and how each kind maps to a status code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

var (
	ErrValidation         = errors.New("validation")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
)

// ValidationError carries per-field problems. It matches ErrValidation.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Validation(message string, details ...string) error {
	return &ValidationError{Message: message, Details: details}
}

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func Conflict(what string) error {
	return fmt.Errorf("%s: %w", what, ErrConflict)
}

// Details accumulates validation problems in the order they are found.
type Details []string

func (d *Details) Add(format string, args ...any) {
	*d = append(*d, fmt.Sprintf(format, args...))
}

func (d Details) Err(message string) error {
	if len(d) == 0 {
		return nil
	}
	return &ValidationError{Message: message, Details: d}
}

type Body struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// HTTPStatus maps err to a status and response body. Unknown errors become
// a generic 500 so driver messages do not leak to clients.
func HTTPStatus(err error) (int, Body) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, Body{Message: ve.Message, Details: ve.Details}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, Body{Message: msg}
	}

	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, Body{Message: err.Error()}
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest, Body{Message: ErrInvalidCredentials.Error()}
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, Body{Message: err.Error()}
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, Body{Message: err.Error()}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, Body{Message: err.Error()}
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, Body{Message: err.Error()}
	default:
		return http.StatusInternalServerError, Body{Message: "internal server error"}
	}
}

// Kind names the category of err for logs.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "duplicate_key"
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return "http"
	}
	return "unknown"
}
