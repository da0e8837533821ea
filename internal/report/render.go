package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/varalys/typoscan/internal/logging"
)

// Formats accepted by New.
const (
	FormatSilent = "silent"
	FormatBrief  = "brief"
	FormatLong   = "long"
	FormatJSON   = "json"
	FormatSARIF  = "sarif"
)

// Formats lists the names New accepts.
var Formats = []string{FormatSilent, FormatBrief, FormatLong, FormatJSON, FormatSARIF}

// New returns the reporter for format.
func New(format string, out *Output, log *logrus.Entry) (Report, error) {
	if log == nil {
		log = logging.Discard()
	}
	switch format {
	case FormatSilent:
		return &Silent{log: log}, nil
	case FormatBrief:
		return &Brief{out: out, log: log}, nil
	case FormatLong, "":
		return &Long{out: out, log: log}, nil
	case FormatJSON:
		return &JSON{out: out}, nil
	case FormatSARIF:
		return NewSARIF(out, log), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
	}
}

// Silent drops every message except errors, which go to the log.
type Silent struct {
	log *logrus.Entry
}

func (s *Silent) Report(msg Message) error {
	if e, ok := msg.(Error); ok && s.log != nil {
		s.log.Error(e.String())
	}
	return nil
}

func (s *Silent) GenerateFinalResult() error { return nil }

// Brief prints one line per message.
type Brief struct {
	out *Output
	log *logrus.Entry
}

func (b *Brief) Report(msg Message) error {
	st := b.out.Styles()
	switch m := msg.(type) {
	case Typo:
		loc := m.Path
		if !m.InFilename() {
			loc = fmt.Sprintf("%s:%d:%d", m.Path, m.LineNum, column(m.Line, m.ByteOffset))
		}
		return b.out.Printf("%s: %s\n", loc, describeTypo(m, st, "->"))
	case File:
		return b.out.Printf("%s\n", m.Path)
	case FileType:
		return b.out.Printf("%s:%s\n", m.Path, m.FileType)
	case Parse:
		return b.out.Printf("%s\n", m.Data)
	case BinaryFile:
		b.log.Infof("%s: skipped binary file", m.Path)
	case Error:
		b.log.Error(m.String())
	}
	return nil
}

func (b *Brief) GenerateFinalResult() error { return nil }

// Long prints typos with their source line and a caret marker.
type Long struct {
	out *Output
	log *logrus.Entry
}

func (l *Long) Report(msg Message) error {
	st := l.out.Styles()
	m, ok := msg.(Typo)
	if !ok {
		return (&Brief{out: l.out, log: l.log}).Report(msg)
	}

	var b strings.Builder
	if len(m.Corrections) == 0 {
		fmt.Fprintf(&b, "%s: `%s` is disallowed\n", st.Error.Render("error"), m.Typo)
	} else {
		fmt.Fprintf(&b, "%s: `%s` should be %s\n", st.Error.Render("error"), m.Typo, joinCorrections(m.Corrections, st))
	}

	line := m.Line
	lineNum := strconv.Itoa(m.LineNum)
	if m.InFilename() {
		line = []byte(m.Path)
		lineNum = ""
	}
	gutter := strings.Repeat(" ", max(len(lineNum), 1))
	col := column(line, m.ByteOffset)
	if m.InFilename() {
		fmt.Fprintf(&b, "%s%s %s\n", gutter, st.Info.Render("-->"), m.Path)
	} else {
		fmt.Fprintf(&b, "%s%s %s:%d:%d\n", gutter, st.Info.Render("-->"), m.Path, m.LineNum, col)
	}
	bar := st.Info.Render("|")
	text := strings.TrimRight(string(bytes.ToValidUTF8(line, []byte("�"))), "\r\n")
	fmt.Fprintf(&b, "%s %s\n", gutter, bar)
	fmt.Fprintf(&b, "%s %s %s\n", padLeft(lineNum, len(gutter)), bar, text)
	marker := strings.Repeat("^", max(utf8.RuneCountInString(m.Typo), 1))
	fmt.Fprintf(&b, "%s %s %s%s\n", gutter, bar, strings.Repeat(" ", col-1), st.Error.Render(marker))
	fmt.Fprintf(&b, "%s %s\n", gutter, bar)
	return l.out.WriteString(b.String())
}

func (l *Long) GenerateFinalResult() error { return nil }

// JSON prints one JSON object per message.
type JSON struct {
	out *Output
}

func (j *JSON) Report(msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = j.out.Write(b)
	return err
}

func (j *JSON) GenerateFinalResult() error { return nil }

func describeTypo(m Typo, st Styles, arrow string) string {
	typo := st.Error.Render("`" + m.Typo + "`")
	if len(m.Corrections) == 0 {
		return typo + " is disallowed"
	}
	return fmt.Sprintf("%s %s %s", typo, arrow, joinCorrections(m.Corrections, st))
}

func joinCorrections(cs []string, st Styles) string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = st.Good.Render("`" + c + "`")
	}
	return strings.Join(parts, ", ")
}

// column converts a byte offset into a 1-based character column.
func column(line []byte, offset int) int {
	if offset > len(line) {
		offset = len(line)
	}
	if offset < 0 {
		offset = 0
	}
	return utf8.RuneCount(line[:offset]) + 1
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
