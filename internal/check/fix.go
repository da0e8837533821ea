package check

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"

	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/report"
)

// fixContent returns data with every unambiguous typo corrected and reports
// the rest.
func fixContent(path string, data []byte, p *config.Policy, r report.Report) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(data))
	err := eachLine(data, func(num int, line []byte) error {
		fixed, rest := fixLine(line, findTypos(line, p))
		for _, f := range rest {
			if err := r.Report(f.asTypo(path, num, line)); err != nil {
				return err
			}
		}
		out.Write(fixed)
		return nil
	})
	return out.Bytes(), err
}

// fixName returns path with every unambiguous typo in its file name
// corrected and reports the rest.
func fixName(path string, p *config.Policy, r report.Report) (string, error) {
	base, offset := baseOf(path)
	fixed, rest := fixLine([]byte(base), findTypos([]byte(base), p))
	for _, f := range rest {
		t := f.asTypo(path, 0, nil)
		t.ByteOffset += offset
		if err := r.Report(t); err != nil {
			return path, err
		}
	}
	if string(fixed) == base {
		return path, nil
	}
	return path[:offset] + string(fixed) + path[offset+len(base):], nil
}

// FixTypos rewrites files in place, and renames them, with the corrections
// of unambiguous typos. Ambiguous typos are reported. Fixed stdin content is
// written to the output.
type FixTypos struct {
	fileReader
	out *report.Output
	log *logrus.Entry
}

func (c *FixTypos) Check(e Entry, p *config.Policy, r report.Report) error {
	if checksContent(e, p) {
		data, ok, err := c.content(e, p, r)
		if err != nil {
			return err
		}
		if ok {
			fixed, err := fixContent(e.Path, data, p, r)
			if err != nil {
				return err
			}
			if e.Stdin {
				if _, err := c.out.Write(fixed); err != nil {
					return err
				}
			} else if !bytes.Equal(fixed, data) {
				if err := writeInPlace(e.fsPath(), fixed); err != nil {
					return r.Report(report.ErrorFor(e.Path, err))
				}
				c.log.WithField("path", e.Path).Info("fixed typos")
			}
		}
	}
	if !checksName(e, p) {
		return nil
	}
	renamed, err := fixName(e.Path, p, r)
	if err != nil || renamed == e.Path {
		return err
	}
	target := filepath.Join(filepath.Dir(e.fsPath()), filepath.Base(renamed))
	if err := os.Rename(e.fsPath(), target); err != nil {
		return r.Report(report.ErrorFor(e.Path, err))
	}
	c.log.WithField("path", e.Path).Infof("renamed to %s", renamed)
	return nil
}

func writeInPlace(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".typoscan-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// DiffTypos prints a unified diff of the corrections FixTypos would make.
type DiffTypos struct {
	fileReader
	out *report.Output
}

func (c *DiffTypos) Check(e Entry, p *config.Policy, r report.Report) error {
	var original, fixed []byte
	if checksContent(e, p) {
		data, ok, err := c.content(e, p, r)
		if err != nil {
			return err
		}
		if ok {
			original = data
			if fixed, err = fixContent(e.Path, data, p, r); err != nil {
				return err
			}
		}
	} else if !checksName(e, p) {
		return nil
	}
	newPath := e.Path
	if checksName(e, p) {
		var err error
		if newPath, err = fixName(e.Path, p, r); err != nil {
			return err
		}
	}
	if newPath == e.Path && bytes.Equal(original, fixed) {
		return nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(fixed)),
		FromFile: e.Path,
		FromDate: "original",
		ToFile:   newPath,
		ToDate:   "fixed",
		Context:  1,
	})
	if err != nil {
		return err
	}
	if text == "" {
		text = fmt.Sprintf("--- %s\toriginal\n+++ %s\tfixed\n", e.Path, newPath)
	}
	return c.out.WriteString(text)
}
