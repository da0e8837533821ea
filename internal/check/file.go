package check

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/report"
)

// binarySniffLen is how much of a file is searched for a NUL byte.
const binarySniffLen = 8 << 10

type fileReader struct {
	stdin io.Reader
}

// content reads the entry. ok is false when the entry was reported as
// unreadable or binary instead; err is set only when reporting failed.
func (fr fileReader) content(e Entry, p *config.Policy, r report.Report) (data []byte, ok bool, err error) {
	if e.Stdin {
		data, err = io.ReadAll(fr.stdin)
	} else {
		data, err = os.ReadFile(e.fsPath())
	}
	if err != nil {
		return nil, false, r.Report(report.ErrorFor(e.Path, err))
	}
	if !p.Binary && isBinary(data) {
		return nil, false, r.Report(report.BinaryFile{Path: e.Path})
	}
	return data, true, nil
}

func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// checksContent reports whether the entry's content is in scope.
func checksContent(e Entry, p *config.Policy) bool {
	return p.CheckFile || e.Explicit || e.Stdin
}

// checksName reports whether the entry's file name is in scope.
func checksName(e Entry, p *config.Policy) bool {
	return p.CheckFilename && !e.Stdin
}

// eachLine calls fn with every line of data, newline included, numbered
// from 1.
func eachLine(data []byte, fn func(num int, line []byte) error) error {
	for num := 1; len(data) > 0; num++ {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i+1], data[i+1:]
		} else {
			line, data = data, nil
		}
		if err := fn(num, line); err != nil {
			return err
		}
	}
	return nil
}

// baseOf returns the file name of path and its byte offset in path.
func baseOf(path string) (string, int) {
	base := filepath.Base(path)
	return base, strings.LastIndex(path, base)
}

func (f found) asTypo(path string, lineNum int, line []byte) report.Typo {
	return report.Typo{
		Path:        path,
		LineNum:     lineNum,
		ByteOffset:  f.Offset,
		Typo:        f.Text,
		Corrections: f.corrections,
		Line:        line,
	}
}

func nameTypos(path string, p *config.Policy) []report.Typo {
	base, offset := baseOf(path)
	var out []report.Typo
	for _, f := range findTypos([]byte(base), p) {
		t := f.asTypo(path, 0, nil)
		t.ByteOffset += offset
		out = append(out, t)
	}
	return out
}

// Typos reports every typo in file names and content.
type Typos struct {
	fileReader
}

func (c *Typos) Check(e Entry, p *config.Policy, r report.Report) error {
	if checksName(e, p) {
		for _, t := range nameTypos(e.Path, p) {
			if err := r.Report(t); err != nil {
				return err
			}
		}
	}
	if !checksContent(e, p) {
		return nil
	}
	data, ok, err := c.content(e, p, r)
	if !ok {
		return err
	}
	return eachLine(data, func(num int, line []byte) error {
		for _, f := range findTypos(line, p) {
			if err := r.Report(f.asTypo(e.Path, num, line)); err != nil {
				return err
			}
		}
		return nil
	})
}

// FoundFiles reports the files that would be checked.
type FoundFiles struct {
	fileReader
}

func (c *FoundFiles) Check(e Entry, p *config.Policy, r report.Report) error {
	if !checksContent(e, p) {
		return nil
	}
	if p.Binary {
		return r.Report(report.File{Path: e.Path})
	}
	if _, ok, err := c.content(e, p, r); !ok {
		return err
	}
	return r.Report(report.File{Path: e.Path})
}

// FileTypes reports the type each file resolved to.
type FileTypes struct{}

func (c *FileTypes) Check(e Entry, p *config.Policy, r report.Report) error {
	return r.Report(report.FileType{Path: e.Path, FileType: p.FileType})
}

// Tokens reports every identifier, or every word when words is set.
type Tokens struct {
	fileReader
	words bool
}

func (c *Tokens) Check(e Entry, p *config.Policy, r report.Report) error {
	if checksName(e, p) {
		base, _ := baseOf(e.Path)
		if err := c.emit(e.Path, 0, []byte(base), p, r); err != nil {
			return err
		}
	}
	if !checksContent(e, p) {
		return nil
	}
	data, ok, err := c.content(e, p, r)
	if !ok {
		return err
	}
	return eachLine(data, func(num int, line []byte) error {
		return c.emit(e.Path, num, line, p, r)
	})
}

func (c *Tokens) emit(path string, num int, line []byte, p *config.Policy, r report.Report) error {
	for _, tok := range tokensOf(line, p, c.words) {
		msg := report.Parse{Path: path, LineNum: num, Token: report.Identifier, Data: tok.Text}
		if c.words {
			msg.Token = report.Word
		}
		if err := r.Report(msg); err != nil {
			return err
		}
	}
	return nil
}

func tokensOf(line []byte, p *config.Policy, words bool) []Token {
	idents := Identifiers(line, p)
	if !words {
		return idents
	}
	var out []Token
	for _, ident := range idents {
		out = append(out, Words(ident)...)
	}
	return out
}

// Highlight prints file content with identifiers, or words, marked.
type Highlight struct {
	fileReader
	out   *report.Output
	words bool
}

func (c *Highlight) Check(e Entry, p *config.Policy, r report.Report) error {
	if !checksContent(e, p) {
		return nil
	}
	data, ok, err := c.content(e, p, r)
	if !ok {
		return err
	}
	mark := c.out.Styles().Mark
	var b strings.Builder
	_ = eachLine(data, func(_ int, line []byte) error {
		last := 0
		for _, tok := range tokensOf(line, p, c.words) {
			b.Write(line[last:tok.Offset])
			b.WriteString(mark.Render(tok.Text))
			last = tok.Offset + len(tok.Text)
		}
		b.Write(line[last:])
		return nil
	})
	return c.out.WriteString(b.String())
}
