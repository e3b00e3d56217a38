package apperr

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalid is returned when the input fails domain validation.
var ErrInvalid = errors.New("invalid input")

// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
var ErrConflict = errors.New("conflict")

// ErrNotFound indicates that the requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized indicates a missing, expired or revoked session.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates a session whose role may not perform the operation.
var ErrForbidden = errors.New("forbidden")

// ValidationError carries field-indexed messages produced before any backend call.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError wraps a field map; an empty map yields nil.
func NewValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Message returns the message of the alphabetically first field, for forms that
// show a single error line.
func (e *ValidationError) Message() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	return e.Fields[keys[0]]
}

// Unwrap lets errors.Is(err, ErrInvalid) match validation failures.
func (e *ValidationError) Unwrap() error { return ErrInvalid }

// AuthError is an identity-provider failure translated to a user-facing message.
type AuthError struct {
	Code    string
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// AsValidation extracts a ValidationError from err.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsAuth extracts an AuthError from err.
func AsAuth(err error) (*AuthError, bool) {
	var ae *AuthError
	ok := errors.As(err, &ae)
	return ae, ok
}
