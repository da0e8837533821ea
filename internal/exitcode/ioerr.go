package exitcode

import (
	"context"
	"errors"
	"io/fs"
	"syscall"
)

const (
	signalBase = 128
	sigInt     = 2
	sigPipe    = 13
)

// FromIO maps an I/O failure to an exit status. Conditions with a sysexits
// equivalent use it; interruption and broken pipes use the shell's
// 128+signal convention; anything else is IOErr.
func FromIO(err error) Code {
	if code, ok := sysexitsFor(err); ok {
		return code
	}
	if code, ok := signalFor(err); ok {
		return code
	}
	return IOErr
}

// WrapIO tags err with the status FromIO picks for it.
func WrapIO(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: FromIO(err), Err: err}
}

func sysexitsFor(err error) (Code, bool) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return NoInput, true
	case errors.Is(err, fs.ErrPermission):
		return NoPerm, true
	case errors.Is(err, fs.ErrExist):
		return CantCreate, true
	case errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.ENOTCONN):
		return Protocol, true
	case errors.Is(err, syscall.EADDRINUSE),
		errors.Is(err, syscall.EADDRNOTAVAIL):
		return Unavailable, true
	case errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, syscall.EAGAIN):
		return TempFail, true
	case errors.Is(err, syscall.EINVAL):
		return DataErr, true
	}
	return 0, false
}

func signalFor(err error) (Code, bool) {
	switch {
	case errors.Is(err, syscall.EINTR), errors.Is(err, context.Canceled):
		return signalBase + sigInt, true
	case errors.Is(err, syscall.EPIPE):
		return signalBase + sigPipe, true
	}
	return 0, false
}
