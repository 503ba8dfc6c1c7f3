// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	"context"
	stderrs "errors"
	"fmt"
)

// Error carries a machine code next to the human message. field names the
// offending input path (e.g. "hints[2]") and op the stage that failed
type Error struct {
	code  ErrorCode
	msg   string
	field string
	op    string
	orig  error
}

// Wire is the JSON-serializable form returned by the API
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig == nil:
		return e.msg
	default:
		return e.msg + ": " + e.orig.Error()
	}
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input path, if any
func (e *Error) Field() string { return e.field }

// Op returns the stage label, if set
func (e *Error) Op() string { return e.op }

// New returns an *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf is New with a formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap attaches code and message to orig; a nil orig still yields an error
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf is Wrap with a formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus returns the mapped HTTP status for any error
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WireFrom converts any error into its payload; foreign errors keep their text
// under ErrorCodeUnknown and nil yields the zero Wire
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return Wire{Code: e.code, Message: e.msg, Field: e.field}
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// WithField returns a copy of our error carrying field; foreign errors pass through
func WithField(err error, field string) error {
	return with(err, func(c *Error) { c.field = field })
}

// WithOp returns a copy of our error carrying op; foreign errors pass through
func WithOp(err error, op string) error {
	return with(err, func(c *Error) { c.op = op })
}

func with(err error, set func(*Error)) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	c := *e
	set(&c)
	return &c
}

// FromContext wraps ctx errors as Timeout (deadline) or Unavailable (cancel);
// our own errors pass through and anything else becomes Unavailable
func FromContext(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case stderrs.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrorCodeTimeout, msg)
	case stderrs.Is(err, context.Canceled):
		return Wrap(err, ErrorCodeUnavailable, msg)
	}
	if _, ok := As(err); ok {
		return err
	}
	return Wrap(err, ErrorCodeUnavailable, msg)
}

// Retryable reports whether a caller may retry: transient codes and deadlines
// qualify, local cancellation never does
func Retryable(err error) bool {
	switch {
	case err == nil, stderrs.Is(err, context.Canceled):
		return false
	case stderrs.Is(err, context.DeadlineExceeded):
		return true
	}
	return CodeOf(err).info().retryable
}
