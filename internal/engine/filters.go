package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/sirupsen/logrus"

	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/ignore"
)

// structural applies the IgnorePolicy toggles: hidden entries, .ignore and
// .gitignore files, the work tree's info/exclude, the global excludes file
// and the ignore files of the root's ancestors.
type structural struct {
	policy   config.IgnorePolicy
	workTree string
	log      *logrus.Entry
}

func newStructural(policy config.IgnorePolicy, absRoot string, log *logrus.Entry) *structural {
	s := &structural{policy: policy, log: log}
	if policy.IgnoreVCS || policy.IgnoreGlobal {
		s.workTree = ignore.FindWorkTree(absRoot)
	}
	return s
}

// base returns the rules in force at absRoot before its own ignore files
// are read.
func (s *structural) base(absRoot string) *ignore.Stack {
	var st *ignore.Stack
	if s.workTree != "" {
		domain := ignore.Split(s.workTree)
		if s.policy.IgnoreGlobal {
			if path, err := ignore.GlobalExcludesFile(); err != nil {
				s.log.WithError(err).Warn("reading git config")
			} else if path != "" {
				st = st.Push(s.read(path, domain))
			}
		}
		if s.policy.IgnoreVCS {
			st = st.Push(s.read(filepath.Join(s.workTree, ignore.GitDir, "info", "exclude"), domain))
		}
	}
	if s.policy.IgnoreParent {
		chain := ignore.Chain(absRoot)
		for _, dir := range chain[:len(chain)-1] {
			st = s.push(st, dir)
		}
	}
	return st
}

// push adds the ignore files found in dir.
func (s *structural) push(st *ignore.Stack, dir string) *ignore.Stack {
	domain := ignore.Split(dir)
	if s.policy.IgnoreVCS && s.inWorkTree(dir) {
		st = st.Push(s.read(filepath.Join(dir, ignore.GitIgnoreFile), domain))
	}
	if s.policy.IgnoreDot {
		st = st.Push(s.read(filepath.Join(dir, ignore.DotIgnoreFile), domain))
	}
	return st
}

func (s *structural) inWorkTree(dir string) bool {
	if s.workTree == "" {
		return false
	}
	return dir == s.workTree || strings.HasPrefix(dir, s.workTree+string(os.PathSeparator))
}

func (s *structural) read(path string, domain []string) []gitignore.Pattern {
	ps, err := ignore.ReadFile(path, domain)
	if err != nil {
		s.log.WithError(err).Warnf("reading %s", path)
	}
	return ps
}

// skip reports whether the child entry absPath should be left out. st holds
// the rules of its directory.
func (s *structural) skip(st *ignore.Stack, name, absPath string, isDir bool) (bool, string) {
	if isDir && name == ignore.GitDir && s.policy.IgnoreVCS {
		return true, "vcs directory"
	}
	switch st.Match(ignore.Split(absPath), isDir) {
	case ignore.Ignore:
		return true, "ignore file"
	case ignore.Whitelist:
		return false, ""
	}
	if s.policy.IgnoreHidden && strings.HasPrefix(name, ".") {
		return true, "hidden"
	}
	return false, ""
}
