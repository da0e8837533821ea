package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/varalys/typoscan/internal/check"
	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/exitcode"
	"github.com/varalys/typoscan/internal/ignore"
	"github.com/varalys/typoscan/internal/logging"
	"github.com/varalys/typoscan/internal/report"
)

// PolicySource supplies directory-scoped configuration. *config.Engine
// implements it.
type PolicySource interface {
	InitDir(dir string) error
	Walk(dir string) config.IgnorePolicy
	Policy(path string) *config.Policy
	PolicyForDir(dir string) *config.Policy
}

// Runner checks a list of InputPaths one after the other.
type Runner struct {
	// Cwd is the process working directory. It is the WorkingContext of
	// stdin and the base of relative InputPaths.
	Cwd      string
	Policies PolicySource
	Checker  check.Checker
	// Reporter receives every message and is finalized once at the end.
	Reporter report.Report

	Threads      int
	Sort         bool
	ForceExclude bool
	// FromFileList marks paths read from --file-list, which rules out "-".
	FromFileList bool
	// Skip is left out of every walk, usually the file standard output is
	// redirected to.
	Skip os.FileInfo
	Log  *logrus.Entry
}

// Run processes paths in order and returns the aggregated result. A usage,
// configuration or traversal error stops the run and is returned as an
// *exitcode.Error; the reporter is not finalized in that case. Stdin among
// file-list paths is rejected before anything is checked.
func (r *Runner) Run(ctx context.Context, paths []string) (RunResult, error) {
	var res RunResult
	if r.Log == nil {
		r.Log = logging.Discard()
	}
	if r.Cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return res, exitcode.Wrapf(exitcode.FromIO(err), err, "no current working directory")
		}
		r.Cwd = cwd
	}
	if r.FromFileList && slices.Contains(paths, check.StdinPath) {
		_, err := ResolveWorkingDir(check.StdinPath, r.Cwd, true)
		return res, err
	}
	for _, path := range paths {
		status, err := r.runPath(ctx, path)
		if err != nil {
			return res, err
		}
		if status != nil {
			res.Merge(status)
		}
	}
	res.Finalize(r.Reporter, r.Log)
	return res, nil
}

// runPath checks one InputPath. A nil status means the path was skipped as
// a whole.
func (r *Runner) runPath(ctx context.Context, path string) (*report.Status, error) {
	wd, err := ResolveWorkingDir(path, r.Cwd, r.FromFileList)
	if err != nil {
		return nil, err
	}
	if err := r.Policies.InitDir(wd); err != nil {
		return nil, exitcode.Wrap(exitcode.Config, err)
	}
	policy := r.Policies.Walk(wd)
	exclude, err := ignore.Compile(policy.ExtendExclude)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Config, err)
	}

	log := r.Log.WithField("input", path)
	status := report.NewStatus(r.Reporter)
	if path == check.StdinPath {
		entry := check.Entry{Path: check.StdinPath, Stdin: true, Explicit: true}
		if err := r.Checker.Check(entry, r.Policies.PolicyForDir(wd), status); err != nil {
			return nil, traversalError(err)
		}
		return status, nil
	}

	abs := r.abs(path)
	if r.ForceExclude && exclude.Len() > 0 {
		v := exclude.Ancestors(path, func(p string) bool { return isDir(r.abs(p)) })
		log.Debugf("ancestor pre-filter: %s", v)
		if v == ignore.Skip {
			return nil, nil
		}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, traversalError(err)
	}
	threads := Threads(!info.IsDir(), r.Sort, r.Threads)
	log.WithField("threads", threads).Debug("walking")

	opts := WalkOptions{
		Policy:  policy,
		Exclude: exclude,
		Threads: threads,
		Skip:    r.Skip,
		Cwd:     r.Cwd,
		Log:     log,
	}
	err = Traverse(ctx, path, opts, func(e FileEntry) error {
		fsPath := r.abs(e.Path)
		entry := check.Entry{Path: e.Path, FSPath: fsPath, Explicit: e.Depth == 0 && !r.ForceExclude}
		return r.Checker.Check(entry, r.Policies.Policy(fsPath), status)
	})
	if err != nil {
		return nil, traversalError(err)
	}
	return status, nil
}

func (r *Runner) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(r.Cwd, path)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// traversalError tags err with an I/O exit status unless it carries one.
func traversalError(err error) error {
	var coder exitcode.ExitCoder
	if errors.As(err, &coder) {
		return err
	}
	return exitcode.WrapIO(err)
}
