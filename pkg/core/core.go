package core

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/varalys/typoscan/internal/check"
	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/engine"
	"github.com/varalys/typoscan/internal/exitcode"
	"github.com/varalys/typoscan/internal/logging"
	"github.com/varalys/typoscan/internal/report"
)

// Result is the outcome of a check. It is an alias so callers can depend
// on a stable import path.
type Result = engine.RunResult

// Options configures Check. The zero value checks with the default
// behavior, discovers config files and discards all output.
type Options struct {
	// Cwd resolves relative paths; defaults to the process working directory.
	Cwd string
	// Mode is one of Modes; empty means "typos".
	Mode string
	// Format is one of Formats; empty means "silent".
	Format string
	Out    io.Writer
	Stdin  io.Reader
	Color  bool

	Threads      int
	Sort         bool
	ForceExclude bool

	// Isolated disables config file discovery.
	Isolated bool
	// ConfigFile is layered over discovered config files.
	ConfigFile string
	// Exclude adds gitignore-style patterns to files.extend-exclude.
	Exclude []string

	Log *logrus.Entry
}

// Modes lists the accepted values of Options.Mode.
func Modes() []string {
	modes := make([]string, 0, len(check.Modes))
	for _, m := range check.Modes {
		modes = append(modes, string(m))
	}
	return modes
}

// Formats lists the accepted values of Options.Format.
func Formats() []string { return append([]string(nil), report.Formats...) }

// Check runs the selected check behavior over paths. Paths equal to "-"
// read standard input from opts.Stdin. The returned error is non-nil only
// when the run was aborted; typos and per-file errors are in Result.
func Check(ctx context.Context, paths []string, opts Options) (Result, error) {
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	format := opts.Format
	if format == "" {
		format = report.FormatSilent
	}
	if opts.Cwd == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Result{}, exitcode.Wrapf(exitcode.FromIO(err), err, "no current working directory")
		}
		opts.Cwd = cwd
	}

	policies := config.NewEngine(log)
	policies.SetIsolated(opts.Isolated)
	var overrides config.FileConfig
	if opts.ConfigFile != "" {
		custom, err := config.LoadFile(opts.ConfigFile)
		if err != nil {
			return Result{}, exitcode.Wrap(exitcode.Config, err)
		}
		overrides = custom
	}
	overrides.Files.ExtendExclude = append(overrides.Files.ExtendExclude, opts.Exclude...)
	policies.SetOverrides(overrides)

	output := report.NewOutput(out, opts.Color)
	rep, err := report.New(format, output, log)
	if err != nil {
		return Result{}, exitcode.Wrap(exitcode.Usage, err)
	}
	checker, err := check.Select(check.Mode(opts.Mode), check.Options{Out: output, Stdin: opts.Stdin, Log: log})
	if err != nil {
		return Result{}, exitcode.Wrap(exitcode.Usage, err)
	}
	if len(paths) == 0 {
		paths = []string{"."}
	}
	runner := &engine.Runner{
		Cwd:          opts.Cwd,
		Policies:     policies,
		Checker:      checker,
		Reporter:     rep,
		Threads:      opts.Threads,
		Sort:         opts.Sort,
		ForceExclude: opts.ForceExclude,
		Log:          log,
	}
	return runner.Run(ctx, paths)
}

// ExitCode returns the process exit status for the outcome of Check.
func ExitCode(res Result, err error) int {
	if err != nil {
		return int(exitcode.FromError(err))
	}
	return int(res.ExitCode())
}
