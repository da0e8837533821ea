package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

// FileType is a named set of basename globs.
type FileType struct {
	Name  string
	Globs []string
}

var defaultTypeGlobs = map[string][]string{
	"c":    {"*.c", "*.h"},
	"cert": {"*.crt", "*.cer", "*.pem", "*.key"},
	"cpp":  {"*.cpp", "*.cc", "*.cxx", "*.hpp", "*.hh"},
	"css":  {"*.css", "*.scss"},
	"go":   {"*.go"},
	"html": {"*.html", "*.htm"},
	"java": {"*.java"},
	"js":   {"*.js", "*.mjs", "*.cjs", "*.jsx"},
	"json": {"*.json"},
	"lock": {"*.lock", "go.sum", "package-lock.json", "pnpm-lock.yaml"},
	"md":   {"*.md", "*.markdown"},
	"py":   {"*.py", "*.pyi"},
	"rust": {"*.rs"},
	"sh":   {"*.sh", "*.bash", "*.zsh"},
	"toml": {"*.toml"},
	"ts":   {"*.ts", "*.tsx"},
	"txt":  {"*.txt"},
	"yaml": {"*.yml", "*.yaml"},
}

// types whose content is not worth checking unless configured otherwise
var defaultNoCheckFile = []string{"cert", "lock"}

// Defaults returns the built-in configuration every layer is applied over.
func Defaults() FileConfig {
	cfg := FileConfig{
		Files: WalkConfig{
			IgnoreHidden: Bool(true),
			IgnoreFiles:  Bool(true),
		},
		Default: EngineConfig{
			Binary:                  Bool(false),
			CheckFilename:           Bool(true),
			CheckFile:               Bool(true),
			IgnoreHex:               Bool(true),
			IdentifierLeadingDigits: Bool(false),
		},
		Type: map[string]TypeConfig{},
	}
	for name, globs := range defaultTypeGlobs {
		cfg.Type[name] = TypeConfig{ExtendGlob: append([]string(nil), globs...)}
	}
	for _, name := range defaultNoCheckFile {
		t := cfg.Type[name]
		t.CheckFile = Bool(false)
		cfg.Type[name] = t
	}
	return cfg
}

// FileTypes returns the type table of cfg sorted by name.
func (cfg FileConfig) FileTypes() []FileType {
	out := make([]FileType, 0, len(cfg.Type))
	for name, t := range cfg.Type {
		if len(t.ExtendGlob) == 0 {
			continue
		}
		out = append(out, FileType{Name: name, Globs: append([]string(nil), t.ExtendGlob...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TypeOf returns the name of the first type whose globs match the basename
// of path, or "" when none does. Literal file names are tried before
// wildcard globs so that "package-lock.json" is a lock file, not json.
func TypeOf(types []FileType, path string) string {
	base := filepath.Base(path)
	for _, literal := range []bool{true, false} {
		for _, t := range types {
			for _, g := range t.Globs {
				if isLiteral(g) != literal {
					continue
				}
				if ok, _ := doublestar.Match(g, base); ok {
					return t.Name
				}
			}
		}
	}
	return ""
}

func isLiteral(glob string) bool {
	return !strings.ContainsAny(glob, "*?[{\\")
}

// ValidateGlobs reports the first malformed glob in the type table.
func ValidateGlobs(types []FileType) error {
	for _, t := range types {
		for _, g := range t.Globs {
			if !doublestar.ValidatePattern(g) {
				return &GlobError{Type: t.Name, Glob: g}
			}
		}
	}
	return nil
}

// GlobError reports an invalid type glob.
type GlobError struct {
	Type string
	Glob string
}

func (e *GlobError) Error() string {
	return fmt.Sprintf("invalid glob %q for type %s", e.Glob, e.Type)
}
