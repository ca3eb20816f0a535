package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// PermissionDeniedError carries the user-facing denial message for an
// operation the caller is not allowed to perform. The message is part of the
// response contract and must be returned verbatim.
type PermissionDeniedError struct {
	Msg string
}

func NewPermissionDeniedError(msg string) error {
	return &PermissionDeniedError{Msg: msg}
}

func (err PermissionDeniedError) Error() string {
	return err.Msg
}

func IsPermissionDenied(err error) bool {
	_, ok := errors.Cause(err).(*PermissionDeniedError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
