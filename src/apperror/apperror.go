package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// Error is an intentionally raised application error. It separates the
// developer message (persisted, internal) from the display message
// (returned to API consumers). Instances are one-shot values tied to a
// single failure; they are not mutated after construction.
type Error struct {
	kind        Kind
	devMessage  string
	display     string
	cause       error
	logOverride *bool
}

// New builds an Error of the given kind. An empty or whitespace display
// message falls back to the developer message.
func New(kind Kind, devMessage, displayMessage string) *Error {
	return &Error{
		kind:       kind,
		devMessage: devMessage,
		display:    displayMessage,
	}
}

// Newf is New with a formatted developer message and no display message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...), "")
}

// Wrap builds an Error that carries an inner cause.
func Wrap(kind Kind, devMessage string, cause error) *Error {
	return &Error{
		kind:       kind,
		devMessage: devMessage,
		cause:      cause,
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.devMessage + ": " + e.cause.Error()
	}
	return e.devMessage
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) DevMessage() string { return e.devMessage }

// DisplayMessage returns the user-facing message, defaulting to the
// developer message when none was set.
func (e *Error) DisplayMessage() string {
	if strings.TrimSpace(e.display) == "" {
		return e.devMessage
	}
	return e.display
}

// Loggable reports whether this error should be persisted, following the
// kind's default unless overridden via WithLoggable.
func (e *Error) Loggable() bool {
	if e.logOverride != nil {
		return *e.logOverride
	}
	return e.kind.Loggable()
}

// WithLoggable returns a copy of the error with the persistence decision
// forced to v. The receiver is left untouched.
func (e *Error) WithLoggable(v bool) *Error {
	clone := *e
	clone.logOverride = &v
	return &clone
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
