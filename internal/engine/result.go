package engine

import (
	"github.com/sirupsen/logrus"

	"github.com/varalys/typoscan/internal/exitcode"
	"github.com/varalys/typoscan/internal/report"
)

// RunResult is the outcome of a run. Both flags are sticky.
type RunResult struct {
	TyposFound  bool
	ErrorsFound bool
}

// Merge folds the outcome of one InputPath into r.
func (r *RunResult) Merge(s *report.Status) {
	r.TyposFound = r.TyposFound || s.TyposFound()
	r.ErrorsFound = r.ErrorsFound || s.ErrorsFound()
}

// Finalize flushes rep. A failure to do so counts as an error found.
func (r *RunResult) Finalize(rep report.Report, log *logrus.Entry) {
	if err := rep.GenerateFinalResult(); err != nil {
		r.ErrorsFound = true
		if log != nil {
			log.Errorf("could not render end-report: %v", err)
		}
	}
}

// ExitCode classifies the run: errors dominate typos, which dominate success.
func (r RunResult) ExitCode() exitcode.Code {
	switch {
	case r.ErrorsFound:
		return exitcode.Failure
	case r.TyposFound:
		return exitcode.Findings
	default:
		return exitcode.Success
	}
}
