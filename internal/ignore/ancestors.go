package ignore

import (
	"os"
	"path/filepath"
)

// Verdict is the decision for one step of the ancestor scan.
type Verdict int

const (
	// Continue means the ancestor did not match; look at the next one.
	Continue Verdict = iota
	// Skip means an ancestor is excluded; drop the whole root.
	Skip
	// Traverse means an ancestor is explicitly re-included; stop scanning
	// and walk the root.
	Traverse
)

func (v Verdict) String() string {
	switch v {
	case Skip:
		return "skip"
	case Traverse:
		return "traverse"
	default:
		return "continue"
	}
}

// VerdictFor converts a single match into the ancestor scan decision.
func VerdictFor(m Match) Verdict {
	switch m {
	case Ignore:
		return Skip
	case Whitelist:
		return Traverse
	default:
		return Continue
	}
}

// Chain returns path and all of its ancestors ordered from the outermost
// one down to path itself. A relative path starts at its first segment.
func Chain(path string) []string {
	var chain []string
	for p := filepath.Clean(path); ; {
		chain = append(chain, p)
		parent := filepath.Dir(p)
		if parent == p || (parent == "." && p != ".") {
			break
		}
		p = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Ancestors scans the chain of path top-down and returns Skip as soon as an
// ancestor is excluded or Traverse as soon as one is re-included. A chain
// with no match yields Continue, which callers treat like Traverse.
//
// isDir reports whether an ancestor is a directory; nil uses os.Stat.
func (m *Matcher) Ancestors(path string, isDir func(string) bool) Verdict {
	if m.Len() == 0 {
		return Continue
	}
	if isDir == nil {
		isDir = statIsDir
	}
	for _, p := range Chain(path) {
		if v := VerdictFor(m.Matched(p, isDir(p))); v != Continue {
			return v
		}
	}
	return Continue
}

func statIsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
