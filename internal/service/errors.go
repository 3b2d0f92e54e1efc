package service

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
)

// Error is a classified failure safe to show to the caller. Kind is one of the
// sentinels above, Fields carries per-field validation messages.
type Error struct {
	Kind    error
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Unauthenticated(msg string) error { return newError(ErrUnauthenticated, msg) }

func Conflict(msg string) error { return newError(ErrConflict, msg) }

func NotFound(msg string) error { return newError(ErrNotFound, msg) }

// Validation converts an ozzo-validation result into an ErrValidation error.
// A nil err stays nil.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	out := &Error{Kind: ErrValidation, Message: "Invalid request"}

	var fields validation.Errors
	if errors.As(err, &fields) {
		out.Fields = make(map[string]string, len(fields))
		for name, ferr := range fields {
			if ferr != nil {
				out.Fields[name] = ferr.Error()
			}
		}
		return out
	}

	var internal validation.InternalError
	if errors.As(err, &internal) {
		return internal
	}

	out.Message = err.Error()
	return out
}
