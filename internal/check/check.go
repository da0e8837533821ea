// Package check implements the per-file behaviors a run applies to every
// entry the traversal yields: listing, tokenizing, highlighting, reporting
// typos and fixing them.
package check

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/logging"
	"github.com/varalys/typoscan/internal/report"
)

// StdinPath is the display path of content read from standard input.
const StdinPath = "-"

// Entry is one file handed to a Checker.
type Entry struct {
	// Path is the display path, as derived from the InputPath.
	Path string
	// FSPath locates the file on disk when Path is relative to a directory
	// other than the process working directory. Empty means Path.
	FSPath string
	// Stdin marks content read from standard input; Path is then "-".
	Stdin bool
	// Explicit marks a file named directly as an InputPath. Explicit files
	// are checked even when their type disables content checks.
	Explicit bool
}

func (e Entry) fsPath() string {
	if e.FSPath != "" {
		return e.FSPath
	}
	return e.Path
}

// Checker is applied to every entry of a traversal. It reports findings to
// r and returns an error only when reporting itself failed; problems with the
// entry are reported as report.Error messages.
type Checker interface {
	Check(e Entry, p *config.Policy, r report.Report) error
}

// Mode names a Checker.
type Mode string

const (
	ModeTypos                Mode = "typos"
	ModeFiles                Mode = "files"
	ModeFileTypes            Mode = "file-types"
	ModeHighlightIdentifiers Mode = "highlight-identifiers"
	ModeIdentifiers          Mode = "identifiers"
	ModeHighlightWords       Mode = "highlight-words"
	ModeWords                Mode = "words"
	ModeWriteChanges         Mode = "write-changes"
	ModeDiff                 Mode = "diff"
)

// Modes lists every mode in precedence order.
var Modes = []Mode{
	ModeFiles, ModeFileTypes, ModeHighlightIdentifiers, ModeIdentifiers,
	ModeHighlightWords, ModeWords, ModeWriteChanges, ModeDiff, ModeTypos,
}

// Options carries the shared resources a Checker writes to or reads from.
type Options struct {
	// Out receives highlighted content, diffs and fixed stdin content.
	Out *report.Output
	// Stdin is read for the "-" entry. Defaults to os.Stdin.
	Stdin io.Reader
	Log   *logrus.Entry
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = report.NewOutput(os.Stdout, false)
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Log == nil {
		o.Log = logging.Discard()
	}
	return o
}

// Select returns the Checker for mode. The empty mode selects typos.
func Select(mode Mode, opts Options) (Checker, error) {
	opts = opts.withDefaults()
	base := fileReader{stdin: opts.Stdin}
	switch mode {
	case ModeTypos, "":
		return &Typos{fileReader: base}, nil
	case ModeFiles:
		return &FoundFiles{fileReader: base}, nil
	case ModeFileTypes:
		return &FileTypes{}, nil
	case ModeHighlightIdentifiers:
		return &Highlight{fileReader: base, out: opts.Out, words: false}, nil
	case ModeIdentifiers:
		return &Tokens{fileReader: base, words: false}, nil
	case ModeHighlightWords:
		return &Highlight{fileReader: base, out: opts.Out, words: true}, nil
	case ModeWords:
		return &Tokens{fileReader: base, words: true}, nil
	case ModeWriteChanges:
		return &FixTypos{fileReader: base, out: opts.Out, log: opts.Log}, nil
	case ModeDiff:
		return &DiffTypos{fileReader: base, out: opts.Out}, nil
	default:
		names := make([]string, len(Modes))
		for i, m := range Modes {
			names[i] = string(m)
		}
		return nil, fmt.Errorf("unknown mode %q (want one of %s)", mode, strings.Join(names, ", "))
	}
}
