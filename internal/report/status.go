package report

import "sync/atomic"

// Status wraps a reporter for one InputPath and records whether any typo or
// error message passed through it.
type Status struct {
	inner       Report
	typosFound  atomic.Bool
	errorsFound atomic.Bool
}

// NewStatus returns a Status forwarding to inner.
func NewStatus(inner Report) *Status {
	return &Status{inner: inner}
}

func (s *Status) Report(msg Message) error {
	switch msg.(type) {
	case Typo:
		s.typosFound.Store(true)
	case Error:
		s.errorsFound.Store(true)
	}
	return s.inner.Report(msg)
}

// GenerateFinalResult does nothing: the wrapped reporter outlives the
// Status and is finalized by its owner.
func (s *Status) GenerateFinalResult() error { return nil }

// TyposFound reports whether a Typo message was seen.
func (s *Status) TyposFound() bool { return s.typosFound.Load() }

// ErrorsFound reports whether an Error message was seen.
func (s *Status) ErrorsFound() bool { return s.errorsFound.Load() }
