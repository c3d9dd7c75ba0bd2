// Package apperr defines the error taxonomy shared by every domain package.
//
// Handlers never inspect error strings: they classify with errors.As / errors.Is
// and map the class to a transport status (see internal/httpx).
package apperr

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated is returned when no valid credential accompanies a call.
var ErrUnauthenticated = errors.New("authentication required")

// UnauthenticatedError carries the reason a credential was refused. It
// matches ErrUnauthenticated under errors.Is.
type UnauthenticatedError struct{ Msg string }

func (e *UnauthenticatedError) Error() string { return e.Msg }

func (e *UnauthenticatedError) Is(target error) bool { return target == ErrUnauthenticated }

// Unauthenticated builds an UnauthenticatedError.
func Unauthenticated(msg string) error { return &UnauthenticatedError{Msg: msg} }

// ValidationError wraps a user-facing validation message.
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ForbiddenError is returned when the caller is authenticated but lacks the
// role or ownership required by the operation.
type ForbiddenError struct{ Msg string }

func (e *ForbiddenError) Error() string { return e.Msg }

// Forbidden builds a ForbiddenError.
func Forbidden(msg string) error { return &ForbiddenError{Msg: msg} }

// NotFoundError reports a missing (or not owned) resource.
type NotFoundError struct{ Resource string }

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// NotFound builds a NotFoundError for the named resource.
func NotFound(resource string) error { return &NotFoundError{Resource: resource} }

// ConflictError reports a uniqueness violation, e.g. a duplicate request.
type ConflictError struct{ Msg string }

func (e *ConflictError) Error() string { return e.Msg }

// Conflict builds a ConflictError.
func Conflict(msg string) error { return &ConflictError{Msg: msg} }

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err (or anything it wraps) is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
