// Package domainerrors carries coded errors from services to transports.
//
// Services return *Error values built with New or Wrap. Transports translate the
// Code into a status (see pkg/platform/httputil) and never inspect messages.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the violated precondition of a failed operation.
type Code string

const (
	// Ambient codes.
	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeInternal   Code = "internal_error"
	CodeTimeout    Code = "timeout"
	CodeConflict   Code = "conflict"

	// CodeUnauthenticated means no verifiable caller identity was presented.
	CodeUnauthenticated Code = "unauthenticated"

	// Poll lifecycle and voting codes.
	CodeInvalidConfiguration  Code = "invalid_configuration"
	CodeNotInTimeWindow       Code = "not_in_time_window"
	CodeNotActive             Code = "not_active"
	CodeAlreadyActive         Code = "already_active"
	CodeUnauthorized          Code = "unauthorized"
	CodeNoPass                Code = "no_pass"
	CodeAlreadyVoted          Code = "already_voted"
	CodeArithmeticOverflow    Code = "arithmetic_overflow"
	CodeDuplicateRegistration Code = "duplicate_registration"
	CodeDuplicatePoll         Code = "duplicate_poll"
)

// Error is a coded domain error. Err holds the underlying cause, if any.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same code, so errors.Is(err, New(code, "")) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates a coded error without a cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to a cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether err, or anything it wraps, is an *Error with code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is shorthand for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf returns the code of err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
