// Package apperr defines the error categories the HTTP API exposes.
//
// Every failure that reaches a handler is either one of these categories or
// an internal error. Use errors.Is with a sentinel to test the category and
// errors.As with *Error to read the client-facing detail.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not_found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation_error")
)

// Error is a categorised failure with a message that is safe to show to clients.
type Error struct {
	Kind   error
	Detail string
	// Err is the underlying cause. It is never rendered.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// Code returns the stable category name of the error.
func (e *Error) Code() string { return e.Kind.Error() }

func NotFound(detail string) error { return &Error{Kind: ErrNotFound, Detail: detail} }

func Conflict(detail string, cause error) error {
	return &Error{Kind: ErrConflict, Detail: detail, Err: cause}
}

func Unauthorized(detail string) error { return &Error{Kind: ErrUnauthorized, Detail: detail} }

func Forbidden(detail string) error { return &Error{Kind: ErrForbidden, Detail: detail} }

func Validation(detail string) error { return &Error{Kind: ErrValidation, Detail: detail} }

func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Detail: fmt.Sprintf(format, args...)}
}

// As extracts the *Error from err, if there is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
