package ignore

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// File names honored by the structural policy.
const (
	DotIgnoreFile = ".ignore"
	GitIgnoreFile = ".gitignore"
	GitDir        = ".git"
)

// ReadFile parses an ignore file. Patterns are scoped to domain, the segment
// form of the directory the file applies to. A missing file yields no
// patterns and no error.
func ReadFile(path string, domain []string) ([]gitignore.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var ps []gitignore.Pattern
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if isBlankOrComment(line) {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, domain))
	}
	return ps, sc.Err()
}

// Stack is an immutable chain of pattern layers, innermost last. Layers
// pushed later win over earlier ones, which gives nested ignore files
// precedence over their parents. The zero value and nil are empty stacks.
type Stack struct {
	parent   *Stack
	patterns []gitignore.Pattern
}

// Push returns a stack with patterns layered on top of s. Pushing nothing
// returns s unchanged.
func (s *Stack) Push(patterns []gitignore.Pattern) *Stack {
	if len(patterns) == 0 {
		return s
	}
	return &Stack{parent: s, patterns: patterns}
}

// Match tests segments, innermost layer first.
func (s *Stack) Match(segments []string, isDir bool) Match {
	for l := s; l != nil; l = l.parent {
		if m := matchSegments(l.patterns, segments, isDir); m != None {
			return m
		}
	}
	return None
}

func matchSegments(patterns []gitignore.Pattern, segments []string, isDir bool) Match {
	for i := len(patterns) - 1; i >= 0; i-- {
		switch patterns[i].Match(segments, isDir) {
		case gitignore.Exclude:
			return Ignore
		case gitignore.Include:
			return Whitelist
		}
	}
	return None
}

// Empty reports whether the stack holds no patterns.
func (s *Stack) Empty() bool {
	return s == nil || (s.parent == nil && len(s.patterns) == 0)
}
