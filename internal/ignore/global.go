package ignore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/config"
)

const gitconfigFile = ".gitconfig"

// GlobalExcludesFile returns the path of the user's global git excludes file:
// core.excludesfile from ~/.gitconfig, else $XDG_CONFIG_HOME/git/ignore, else
// ~/.config/git/ignore. It returns "" when no home directory is known.
func GlobalExcludesFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil
	}
	if p, err := excludesFromGitconfig(filepath.Join(home, gitconfigFile), home); err != nil || p != "" {
		return p, err
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore"), nil
	}
	return filepath.Join(home, ".config", "git", "ignore"), nil
}

func excludesFromGitconfig(path, home string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	defer f.Close()

	cfg := config.New()
	if err := config.NewDecoder(f).Decode(cfg); err != nil {
		return "", err
	}
	p := cfg.Section("core").Options.Get("excludesfile")
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p, nil
}

// FindWorkTree returns the nearest directory at or above dir that contains a
// .git entry, or "" when dir is not inside a git work tree.
func FindWorkTree(dir string) string {
	for d := filepath.Clean(dir); ; {
		if _, err := os.Lstat(filepath.Join(d, GitDir)); err == nil {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			return ""
		}
		d = parent
	}
}
