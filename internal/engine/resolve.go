package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/varalys/typoscan/internal/check"
	"github.com/varalys/typoscan/internal/exitcode"
)

// ResolveWorkingDir returns the WorkingContext of input: cwd for stdin, the
// canonical parent directory of a regular file, or the canonical directory
// itself. Failures are usage errors.
func ResolveWorkingDir(input, cwd string, fromFileList bool) (string, error) {
	if input == check.StdinPath {
		if fromFileList {
			return "", exitcode.New(exitcode.Usage, "Can't use `-` (stdin) while using `--file-list` provided paths")
		}
		return cwd, nil
	}
	p := input
	if !filepath.IsAbs(p) {
		p = filepath.Join(cwd, p)
	}
	canonical, err := canonicalize(p)
	if err != nil {
		return "", exitcode.Wrapf(exitcode.Usage, err, "argument `%s` is not found", input)
	}
	info, err := os.Stat(canonical)
	if err != nil {
		return "", exitcode.Wrapf(exitcode.Usage, err, "argument `%s` is not found", input)
	}
	if info.Mode().IsRegular() {
		return filepath.Dir(canonical), nil
	}
	if !info.IsDir() {
		return "", exitcode.New(exitcode.Usage, fmt.Sprintf("argument `%s` is not a file or directory", input))
	}
	return canonical, nil
}

func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
