package typoscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/varalys/typoscan/internal/exitcode"
	"github.com/varalys/typoscan/internal/report"
)

var version = "0.1.0"

// options holds the parsed command line of one invocation.
type options struct {
	fileList     string
	threads      int
	sort         bool
	forceExclude bool

	files                bool
	fileTypes            bool
	highlightIdentifiers bool
	identifiers          bool
	highlightWords       bool
	words                bool
	writeChanges         bool
	diff                 bool
	dumpConfig           string
	typeList             bool

	format   string
	color    string
	isolated bool
	config   string

	exclude         []string
	hidden          bool
	noIgnore        bool
	noIgnoreDot     bool
	noIgnoreGlobal  bool
	noIgnoreParent  bool
	noIgnoreVCS     bool
	binary          bool
	noCheckFilename bool
	noCheckFiles    bool

	verbose int
	quiet   int

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	code   exitcode.Code
}

// newRootCmd builds the base command bound to opts.
func newRootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "typoscan [PATH...]",
		Short:         "Find and fix typos in source code",
		Long:          "typoscan walks the given paths, honoring ignore files and configured excludes, and reports or fixes misspelled identifiers and words.",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	cmd.SetIn(opts.stdin)
	cmd.SetOut(opts.stdout)
	cmd.SetErr(opts.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitcode.Wrap(exitcode.Usage, err)
	})

	f := cmd.Flags()
	f.StringVar(&opts.fileList, "file-list", "", "read paths from a file, one per line (- for stdin)")
	f.IntVarP(&opts.threads, "threads", "j", 0, "worker count (0 = GOMAXPROCS)")
	f.BoolVar(&opts.sort, "sort", false, "visit files in sorted order (forces one thread)")
	f.BoolVar(&opts.forceExclude, "force-exclude", false, "apply excludes to paths given on the command line")

	f.BoolVar(&opts.files, "files", false, "list the files that would be checked")
	f.BoolVar(&opts.fileTypes, "file-types", false, "list each file with its type")
	f.BoolVar(&opts.highlightIdentifiers, "highlight-identifiers", false, "print files with identifiers highlighted")
	f.BoolVar(&opts.identifiers, "identifiers", false, "list every identifier")
	f.BoolVar(&opts.highlightWords, "highlight-words", false, "print files with words highlighted")
	f.BoolVar(&opts.words, "words", false, "list every word")
	f.BoolVarP(&opts.writeChanges, "write-changes", "w", false, "write fixes to disk")
	f.BoolVar(&opts.diff, "diff", false, "print a diff of the fixes")
	f.StringVar(&opts.dumpConfig, "dump-config", "", "write the effective config to a file (- for stdout)")
	f.BoolVar(&opts.typeList, "type-list", false, "list the known file types")
	cmd.MarkFlagsMutuallyExclusive("files", "file-types", "highlight-identifiers", "identifiers",
		"highlight-words", "words", "write-changes", "diff", "dump-config", "type-list")

	f.StringVar(&opts.format, "format", report.FormatLong, "output format: silent|brief|long|json|sarif")
	f.StringVar(&opts.color, "color", "auto", "colorize output: auto|always|never")
	f.BoolVar(&opts.isolated, "isolated", false, "ignore config files")
	f.StringVarP(&opts.config, "config", "c", "", "custom config file")

	f.StringArrayVar(&opts.exclude, "exclude", nil, "ignore files and directories matching the glob (repeatable)")
	f.BoolVar(&opts.hidden, "hidden", false, "search hidden files and directories")
	f.BoolVar(&opts.noIgnore, "no-ignore", false, "don't respect ignore files")
	f.BoolVar(&opts.noIgnoreDot, "no-ignore-dot", false, "don't respect .ignore files")
	f.BoolVar(&opts.noIgnoreGlobal, "no-ignore-global", false, "don't respect the global git excludes file")
	f.BoolVar(&opts.noIgnoreParent, "no-ignore-parent", false, "don't respect ignore files in parent directories")
	f.BoolVar(&opts.noIgnoreVCS, "no-ignore-vcs", false, "don't respect .gitignore and .git/info/exclude")
	f.BoolVar(&opts.binary, "binary", false, "check binary files as text")
	f.BoolVar(&opts.noCheckFilename, "no-check-filename", false, "skip verifying file names")
	f.BoolVar(&opts.noCheckFiles, "no-check-files", false, "skip verifying file contents")

	f.CountVarP(&opts.verbose, "verbose", "v", "more logging (repeatable)")
	f.CountVarP(&opts.quiet, "quiet", "q", "less logging (repeatable)")

	cmd.AddCommand(newCompletionCmd(cmd))
	return cmd
}

// Run executes the CLI with args and returns the process exit status.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts := &options{stdin: stdin, stdout: stdout, stderr: stderr}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmd.ExecuteContext(ctx); err != nil {
		var coder exitcode.ExitCoder
		if !errors.As(err, &coder) {
			// cobra's own argument and flag-group validation
			err = exitcode.Wrap(exitcode.Usage, err)
		}
		fmt.Fprintln(stderr, "error:", err)
		return int(exitcode.FromError(err))
	}
	return int(opts.code)
}

// Execute runs the typoscan CLI and exits. It should be called by the main
// package.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
