package core

import "github.com/pkg/errors"

// FieldError ties a message to the struct field it concerns; the API layer
// renders a map of these as the 400 response body.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries either a plain message or per-field messages.
// Handlers let it bubble up; the HTTP error handler knows how to render both
// shapes.
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

// shutdownError signals that the process is in an unrecoverable state and the
// server loop should stop rather than keep serving.
type shutdownError struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdownError{message: msg}
}

func (s shutdownError) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdownError)
	return ok
}
