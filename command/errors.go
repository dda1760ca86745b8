package command

import (
	"errors"
	"fmt"
)

// Code classifies a command failure
type Code string

const (
	CodeCommandNotFound Code = "COMMAND_NOT_FOUND"
	CodeMissingParams   Code = "MISSING_PARAMS"
	CodeRejected        Code = "COMMAND_REJECTED"
)

// Error is a coded command failure
// errors.Is matches any *Error carrying the same code
type Error struct {
	Code    Code
	Command string
	Message string
	Cause   error
}

// Sentinels for errors.Is comparisons
var (
	ErrCommandNotFound = &Error{Code: CodeCommandNotFound, Message: "command not found"}
	ErrMissingParams   = &Error{Code: CodeMissingParams, Message: "missing required parameters"}
	ErrRejected        = &Error{Code: CodeRejected, Message: "command rejected"}
)

// New creates a coded error for command name
func New(code Code, name, msg string) *Error {
	return &Error{Code: code, Command: name, Message: msg}
}

// Wrap creates a coded error for command name wrapping cause
func Wrap(code Code, name, msg string, cause error) *Error {
	return &Error{Code: code, Command: name, Message: msg, Cause: cause}
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Command != "" {
		msg = fmt.Sprintf("%s: %s", e.Command, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf extracts the code of a command error, empty for foreign errors
func CodeOf(err error) Code {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
