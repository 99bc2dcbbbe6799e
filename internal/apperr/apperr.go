// Package apperr defines the error kinds the services report to their
// callers. Transport layers map kinds to status codes; business code only
// ever deals in kinds and messages.
package apperr

import "errors"

type Code string

const (
	CodeNotFound       Code = "NOT_FOUND"
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeForbidden      Code = "FORBIDDEN"
	CodeInternal       Code = "INTERNAL"
)

type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap keeps the underlying cause reachable through errors.Is/As while
// presenting the given kind and message to the caller.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// CodeOf reports the kind carried by err. Errors that do not carry a kind
// are treated as internal failures.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-facing message of err, or a generic one for
// errors that do not carry a kind.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
