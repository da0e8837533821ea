package typoscan

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/varalys/typoscan/internal/check"
	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/engine"
	"github.com/varalys/typoscan/internal/exitcode"
	"github.com/varalys/typoscan/internal/logging"
	"github.com/varalys/typoscan/internal/report"
)

func (o *options) run(cmd *cobra.Command, args []string) error {
	log := logrus.NewEntry(logging.New(o.stderr, logging.LevelFromVerbosity(o.verbose, o.quiet)))
	if o.fileList != "" && len(args) > 0 {
		return exitcode.New(exitcode.Usage, "--file-list can't be combined with PATH arguments")
	}
	if !slices.Contains(report.Formats, o.format) {
		return exitcode.New(exitcode.Usage, fmt.Sprintf("invalid format %q (want one of %s)", o.format, strings.Join(report.Formats, ", ")))
	}
	cwd, err := os.Getwd()
	if err != nil {
		return exitcode.Wrapf(exitcode.FromIO(err), err, "no current working directory")
	}
	policies, err := o.policies(log)
	if err != nil {
		return err
	}

	first := "."
	if len(args) > 0 {
		first = args[0]
	}
	switch {
	case o.dumpConfig != "":
		err = o.runDumpConfig(policies, cwd, first)
	case o.typeList:
		err = o.runTypeList(policies, cwd, first)
	default:
		err = o.runChecks(cmd.Context(), policies, cwd, args, log)
	}
	return coded(err)
}

// policies builds the config engine with the --config file and the config
// flags layered over whatever each WorkingContext discovers.
func (o *options) policies(log *logrus.Entry) (*config.Engine, error) {
	eng := config.NewEngine(log)
	eng.SetIsolated(o.isolated)
	var overrides config.FileConfig
	if o.config != "" {
		custom, err := config.LoadFile(o.config)
		if err != nil {
			return nil, exitcode.Wrap(exitcode.Config, err)
		}
		overrides = custom
	}
	overrides, err := overrides.Update(o.flagConfig())
	if err != nil {
		return nil, exitcode.Wrap(exitcode.Config, err)
	}
	eng.SetOverrides(overrides)
	return eng, nil
}

// flagConfig is the config layer set by command line flags. Flags that were
// not given leave their keys unset.
func (o *options) flagConfig() config.FileConfig {
	var cfg config.FileConfig
	cfg.Files.ExtendExclude = append([]string(nil), o.exclude...)
	if o.hidden {
		cfg.Files.IgnoreHidden = config.Bool(false)
	}
	if o.noIgnore {
		cfg.Files.IgnoreFiles = config.Bool(false)
	}
	if o.noIgnoreDot {
		cfg.Files.IgnoreDot = config.Bool(false)
	}
	if o.noIgnoreGlobal {
		cfg.Files.IgnoreGlobal = config.Bool(false)
	}
	if o.noIgnoreParent {
		cfg.Files.IgnoreParent = config.Bool(false)
	}
	if o.noIgnoreVCS {
		cfg.Files.IgnoreVCS = config.Bool(false)
	}
	if o.binary {
		cfg.Default.Binary = config.Bool(true)
	}
	if o.noCheckFilename {
		cfg.Default.CheckFilename = config.Bool(false)
	}
	if o.noCheckFiles {
		cfg.Default.CheckFile = config.Bool(false)
	}
	return cfg
}

func (o *options) mode() check.Mode {
	switch {
	case o.files:
		return check.ModeFiles
	case o.fileTypes:
		return check.ModeFileTypes
	case o.highlightIdentifiers:
		return check.ModeHighlightIdentifiers
	case o.identifiers:
		return check.ModeIdentifiers
	case o.highlightWords:
		return check.ModeHighlightWords
	case o.words:
		return check.ModeWords
	case o.writeChanges:
		return check.ModeWriteChanges
	case o.diff:
		return check.ModeDiff
	default:
		return check.ModeTypos
	}
}

func (o *options) runChecks(ctx context.Context, policies *config.Engine, cwd string, args []string, log *logrus.Entry) error {
	paths := args
	if o.fileList != "" {
		var err error
		if paths, err = o.readFileList(); err != nil {
			return exitcode.Wrapf(exitcode.IOErr, err, "reading --file-list %s", o.fileList)
		}
	} else if len(paths) == 0 {
		paths = []string{"."}
	}

	color, err := report.ColorEnabled(o.color, asFile(o.stdout))
	if err != nil {
		return exitcode.Wrap(exitcode.Usage, err)
	}
	out := report.NewOutput(o.stdout, color)
	format := o.format
	if o.diff {
		// diff output and reporter output can't share stdout
		format = report.FormatSilent
	}
	rep, err := report.New(format, out, log)
	if err != nil {
		return exitcode.Wrap(exitcode.Usage, err)
	}
	checker, err := check.Select(o.mode(), check.Options{Out: out, Stdin: o.stdin, Log: log})
	if err != nil {
		return exitcode.Wrap(exitcode.Usage, err)
	}

	runner := &engine.Runner{
		Cwd:          cwd,
		Policies:     policies,
		Checker:      checker,
		Reporter:     rep,
		Threads:      o.threads,
		Sort:         o.sort,
		ForceExclude: o.forceExclude,
		FromFileList: o.fileList != "",
		Skip:         regularFileInfo(o.stdout),
		Log:          log,
	}
	res, err := runner.Run(ctx, paths)
	if err != nil {
		return err
	}
	o.code = res.ExitCode()
	return nil
}

// readFileList returns the non-empty lines of --file-list.
func (o *options) readFileList() ([]string, error) {
	var r io.Reader
	if o.fileList == check.StdinPath {
		r = o.stdin
	} else {
		f, err := os.Open(o.fileList)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, sc.Err()
}

func asFile(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}

// regularFileInfo returns the FileInfo of w when it is a regular file, so
// the walk can skip the file output is redirected into.
func regularFileInfo(w io.Writer) os.FileInfo {
	f := asFile(w)
	if f == nil {
		return nil
	}
	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	return info
}

// coded makes sure err carries an exit status, so Run can tell command
// failures from cobra's usage errors.
func coded(err error) error {
	if err == nil {
		return nil
	}
	var coder exitcode.ExitCoder
	if errors.As(err, &coder) {
		return err
	}
	return exitcode.Wrap(exitcode.Failure, err)
}
