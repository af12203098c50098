package models

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrConstraintViolation  = errors.New("constraint violation")
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrUnsupportedMediaType = errors.New("file type not allowed")
	ErrUploadFailed         = errors.New("upload failed")
	ErrExternalNotFound     = errors.New("external resource not found")
	ErrExternalUnavailable  = errors.New("external service unavailable")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Error is a failure of a given Kind (one of the sentinels above) carrying a
// message that is safe to return to clients. Cause keeps the underlying error
// reachable through errors.Is and errors.As.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}
