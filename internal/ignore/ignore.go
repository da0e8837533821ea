// Package ignore compiles gitignore-style pattern lists and answers match
// queries with the tri-state result (none, ignored, re-included) that exclude
// lists and ignore files both need. Exclude lists match one path at a time
// with doublestar; ignore files are read into go-git patterns scoped to
// their directory.
package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// Match is the outcome of testing one path against a pattern list.
type Match int

const (
	// None means no pattern matched.
	None Match = iota
	// Ignore means the last matching pattern excludes the path.
	Ignore
	// Whitelist means the last matching pattern is a `!` re-include.
	Whitelist
)

func (m Match) String() string {
	switch m {
	case Ignore:
		return "ignore"
	case Whitelist:
		return "whitelist"
	default:
		return "none"
	}
}

// PatternError reports a pattern that cannot be compiled.
type PatternError struct {
	Pattern string
	Index   int
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid exclude pattern #%d %q", e.Index+1, e.Pattern)
}

// Matcher is a compiled, immutable exclude list. Each path is tested on its
// own: a pattern naming a directory does not match the files below it, the
// walk prunes those. It is safe for concurrent use.
type Matcher struct {
	rules []rule
}

// rule is one pattern translated to a doublestar glob.
type rule struct {
	glob    string
	negate  bool
	dirOnly bool
}

// Compile builds a Matcher from patterns in gitignore syntax. Later patterns
// take precedence over earlier ones.
func Compile(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for i, raw := range patterns {
		line := strings.TrimSuffix(raw, "\r")
		if isBlankOrComment(line) {
			continue
		}
		r, err := parseRule(line)
		if err != nil {
			return nil, &PatternError{Pattern: raw, Index: i}
		}
		m.rules = append(m.rules, r)
	}
	return m, nil
}

// parseRule translates a gitignore line. A pattern without a leading or
// inner slash matches at any depth, a leading slash anchors it, a trailing
// slash restricts it to directories and "!" re-includes.
func parseRule(line string) (rule, error) {
	var r rule
	p := line
	switch {
	case strings.HasPrefix(p, "!"):
		r.negate = true
		p = p[1:]
	case strings.HasPrefix(p, `\!`), strings.HasPrefix(p, `\#`):
		p = p[1:]
	}
	if strings.HasSuffix(p, "/") {
		r.dirOnly = true
		p = strings.TrimSuffix(p, "/")
	}
	anchored := strings.Contains(p, "/")
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return r, fmt.Errorf("empty pattern")
	}
	if !anchored {
		p = "**/" + p
	}
	if !doublestar.ValidatePattern(p) {
		return r, doublestar.ErrBadPattern
	}
	r.glob = p
	return r, nil
}

// Len returns the number of compiled patterns.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.rules)
}

// Matched tests path, given relative to the walk origin or absolute, against
// the pattern list. A leading "./" is ignored.
func (m *Matcher) Matched(path string, isDir bool) Match {
	if m.Len() == 0 {
		return None
	}
	rel := strings.Join(Split(path), "/")
	for i := len(m.rules) - 1; i >= 0; i-- {
		r := m.rules[i]
		if r.dirOnly && !isDir {
			continue
		}
		if ok, _ := doublestar.Match(r.glob, rel); ok {
			if r.negate {
				return Whitelist
			}
			return Ignore
		}
	}
	return None
}

// Split turns a filesystem path into the segment form gitignore patterns
// match against. Empty and "." segments are dropped.
func Split(path string) []string {
	if path == "" {
		return []string{}
	}
	parts := strings.Split(filepath.ToSlash(path), "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			segments = append(segments, part)
		}
	}
	return segments
}

func isBlankOrComment(line string) bool {
	return strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#")
}
