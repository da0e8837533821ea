package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrNoConfig is returned by LoadLocal when a directory holds no config file.
var ErrNoConfig = errors.New("no local config")

// LocalNames lists the config file names searched in each directory, in
// priority order.
var LocalNames = []string{
	"typoscan.yml", "typoscan.yaml",
	".typoscan.yml", ".typoscan.yaml",
	"_typoscan.yml", "_typoscan.yaml",
}

// FileConfig is the on-disk YAML configuration shape for typoscan.
type FileConfig struct {
	Files   WalkConfig            `yaml:"files,omitempty"`
	Default EngineConfig          `yaml:"default,omitempty"`
	Type    map[string]TypeConfig `yaml:"type,omitempty"`
}

// WalkConfig controls which entries a traversal visits.
type WalkConfig struct {
	ExtendExclude []string `yaml:"extend-exclude,omitempty"`
	IgnoreHidden  *bool    `yaml:"ignore-hidden,omitempty"`
	// IgnoreFiles is the fallback for the four ignore-file toggles below.
	IgnoreFiles  *bool `yaml:"ignore-files,omitempty"`
	IgnoreDot    *bool `yaml:"ignore-dot,omitempty"`
	IgnoreVCS    *bool `yaml:"ignore-vcs,omitempty"`
	IgnoreGlobal *bool `yaml:"ignore-global,omitempty"`
	IgnoreParent *bool `yaml:"ignore-parent,omitempty"`
}

// EngineConfig controls how a file's content is checked.
type EngineConfig struct {
	Binary                  *bool             `yaml:"binary,omitempty"`
	CheckFilename           *bool             `yaml:"check-filename,omitempty"`
	CheckFile               *bool             `yaml:"check-file,omitempty"`
	IgnoreHex               *bool             `yaml:"ignore-hex,omitempty"`
	IdentifierLeadingDigits *bool             `yaml:"identifier-leading-digits,omitempty"`
	ExtendIgnoreRe          []string          `yaml:"extend-ignore-re,omitempty"`
	ExtendIdentifiers       map[string]string `yaml:"extend-identifiers,omitempty"`
	ExtendWords             map[string]string `yaml:"extend-words,omitempty"`
}

// TypeConfig is an EngineConfig scoped to one file type plus the globs that
// select it.
type TypeConfig struct {
	ExtendGlob   []string `yaml:"extend-glob,omitempty"`
	EngineConfig `yaml:",inline"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal looks for a config file directly in dir. It returns the config,
// the file it came from, and ErrNoConfig when there is none.
func LoadLocal(dir string) (FileConfig, string, error) {
	for _, name := range LocalNames {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			cfg, err := LoadFile(p)
			return cfg, p, err
		}
	}
	return FileConfig{}, "", ErrNoConfig
}

// Discover searches dir and then its ancestors for a config file; the
// nearest one wins. A tree without config yields an empty FileConfig and "".
func Discover(dir string) (FileConfig, string, error) {
	for d := filepath.Clean(dir); ; {
		cfg, path, err := LoadLocal(d)
		if err == nil {
			return cfg, path, nil
		}
		if !errors.Is(err, ErrNoConfig) {
			return cfg, path, err
		}
		parent := filepath.Dir(d)
		if parent == d {
			return FileConfig{}, "", nil
		}
		d = parent
	}
}

// Dump writes cfg as YAML.
func Dump(w io.Writer, cfg FileConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

// Bool returns a pointer to b, for building overrides.
func Bool(b bool) *bool { return &b }

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func firstBool(fallback bool, vs ...*bool) bool {
	for _, v := range vs {
		if v != nil {
			return *v
		}
	}
	return fallback
}
