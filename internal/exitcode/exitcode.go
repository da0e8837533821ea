// Package exitcode defines the process exit statuses used by typoscan and the
// error type that carries one from the run loop to the process boundary.
package exitcode

import (
	"errors"
	"fmt"
)

// Code is a process exit status.
type Code int

const (
	Success Code = 0
	Failure Code = 1
	// Findings is returned when the run completed and flagged tokens. It is
	// kept apart from Failure and from every sysexits value so callers can
	// tell "the tool broke" from "the tool found typos".
	Findings Code = 2
)

// sysexits.h values.
const (
	Usage       Code = 64
	DataErr     Code = 65
	NoInput     Code = 66
	Unavailable Code = 69
	CantCreate  Code = 73
	IOErr       Code = 74
	TempFail    Code = 75
	Protocol    Code = 76
	NoPerm      Code = 77
	Config      Code = 78
)

// ExitCoder is implemented by errors that select their own exit status.
type ExitCoder interface {
	error
	ExitCode() int
	Unwrap() error
}

// Error is a run-terminating failure tagged with an exit status.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("exit status %d", e.Code)
	}
}

func (e *Error) ExitCode() int { return int(e.Code) }

func (e *Error) Unwrap() error { return e.Err }

// New returns an error carrying code and a message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap tags err with code. A nil err yields nil.
func Wrap(code Code, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

// Wrapf tags err with code and a formatted message. A nil err yields nil.
func Wrapf(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Err: err}
}

// FromError returns the exit status selected by err. Errors without one map
// to Failure; nil maps to Success.
func FromError(err error) Code {
	if err == nil {
		return Success
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return Code(coder.ExitCode())
	}
	return Failure
}
