package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sirupsen/logrus"
)

// IgnorePolicy describes which entries a traversal of a WorkingContext
// skips. It is read-only once built.
type IgnorePolicy struct {
	IgnoreHidden  bool
	IgnoreDot     bool
	IgnoreVCS     bool
	IgnoreGlobal  bool
	IgnoreParent  bool
	ExtendExclude []string
}

// Policy is the resolved check policy for one file.
type Policy struct {
	FileType                string
	Binary                  bool
	CheckFilename           bool
	CheckFile               bool
	IgnoreHex               bool
	IdentifierLeadingDigits bool
	IgnoreRe                []*regexp.Regexp
	Identifiers             map[string]string
	Words                   map[string]string
}

// Engine resolves directory-scoped configuration. InitDir must be called for
// a WorkingContext before Walk is asked about it; Policy may be called for
// any file and falls back to the nearest initialized ancestor. All methods
// are safe for concurrent use once the engine is configured.
type Engine struct {
	isolated  bool
	overrides FileConfig
	log       *logrus.Entry

	dirs    *xsync.MapOf[string, *dirConfig]
	lookups *xsync.MapOf[string, *dirConfig]

	fallbackOnce sync.Once
	fallback     *dirConfig
}

type dirConfig struct {
	dir      string
	source   string
	cfg      FileConfig
	walk     IgnorePolicy
	types    []FileType
	policies map[string]*Policy
}

// NewEngine returns an engine with no overrides.
func NewEngine(log *logrus.Entry) *Engine {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Engine{
		log:     log,
		dirs:    xsync.NewMapOf[string, *dirConfig](),
		lookups: xsync.NewMapOf[string, *dirConfig](),
	}
}

// SetIsolated disables config file discovery.
func (e *Engine) SetIsolated(isolated bool) { e.isolated = isolated }

// SetOverrides sets the layer applied over discovered config files.
func (e *Engine) SetOverrides(overrides FileConfig) { e.overrides = overrides }

// LoadConfig returns the discovered config for dir with the overrides
// applied, without built-in defaults.
func (e *Engine) LoadConfig(dir string) (FileConfig, error) {
	cfg, _, err := e.load(dir)
	return cfg, err
}

func (e *Engine) load(dir string) (FileConfig, string, error) {
	var (
		found  FileConfig
		source string
	)
	if !e.isolated {
		var err error
		found, source, err = Discover(dir)
		if err != nil {
			return FileConfig{}, source, err
		}
	}
	cfg, err := found.Update(e.overrides)
	if err != nil {
		return FileConfig{}, source, fmt.Errorf("merge overrides: %w", err)
	}
	return cfg, source, nil
}

// InitDir loads and caches the configuration of the WorkingContext dir.
func (e *Engine) InitDir(dir string) error {
	if _, ok := e.dirs.Load(dir); ok {
		return nil
	}
	cfg, source, err := e.load(dir)
	if err != nil {
		return err
	}
	full, err := Defaults().Update(cfg)
	if err != nil {
		return err
	}
	dc, err := resolve(dir, source, full)
	if err != nil {
		if source != "" {
			return fmt.Errorf("%s: %w", source, err)
		}
		return err
	}
	if source != "" {
		e.log.WithField("dir", dir).Debugf("using config %s", source)
	}
	e.dirs.LoadOrStore(dir, dc)
	return nil
}

// Walk returns the ignore policy for an initialized dir.
func (e *Engine) Walk(dir string) IgnorePolicy {
	return e.dirConfig(dir).walk
}

// FileTypes returns the type table for an initialized dir.
func (e *Engine) FileTypes(dir string) []FileType {
	return e.dirConfig(dir).types
}

// Policy returns the check policy for the file at path, an absolute path or
// a directory that stands in for stdin.
func (e *Engine) Policy(path string) *Policy {
	dc := e.lookup(filepath.Dir(path))
	name := TypeOf(dc.types, path)
	if p, ok := dc.policies[name]; ok {
		return p
	}
	return dc.policies[""]
}

// PolicyForDir is Policy for content that has no file name, such as stdin.
func (e *Engine) PolicyForDir(dir string) *Policy {
	return e.lookup(dir).policies[""]
}

func (e *Engine) dirConfig(dir string) *dirConfig {
	if dc, ok := e.dirs.Load(dir); ok {
		return dc
	}
	return e.defaults()
}

// lookup finds the nearest initialized ancestor of dir.
func (e *Engine) lookup(dir string) *dirConfig {
	if dc, ok := e.lookups.Load(dir); ok {
		return dc
	}
	var found *dirConfig
	for d := filepath.Clean(dir); ; {
		if dc, ok := e.dirs.Load(d); ok {
			found = dc
			break
		}
		parent := filepath.Dir(d)
		if parent == d {
			found = e.defaults()
			break
		}
		d = parent
	}
	actual, _ := e.lookups.LoadOrStore(dir, found)
	return actual
}

func (e *Engine) defaults() *dirConfig {
	e.fallbackOnce.Do(func() {
		full, err := Defaults().Update(e.overrides)
		if err == nil {
			e.fallback, err = resolve("", "", full)
		}
		if err != nil {
			e.log.WithError(err).Warn("falling back to built-in defaults")
			e.fallback, _ = resolve("", "", Defaults())
		}
	})
	return e.fallback
}

func resolve(dir, source string, cfg FileConfig) (*dirConfig, error) {
	dc := &dirConfig{
		dir:      dir,
		source:   source,
		cfg:      cfg,
		walk:     cfg.Files.policy(),
		types:    cfg.FileTypes(),
		policies: map[string]*Policy{},
	}
	if err := ValidateGlobs(dc.types); err != nil {
		return nil, err
	}
	base, err := newPolicy("", cfg.Default)
	if err != nil {
		return nil, err
	}
	dc.policies[""] = base
	for _, t := range dc.types {
		merged, err := cfg.Default.update(cfg.Type[t.Name].EngineConfig)
		if err != nil {
			return nil, err
		}
		p, err := newPolicy(t.Name, merged)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.Name, err)
		}
		dc.policies[t.Name] = p
	}
	return dc, nil
}

func (w WalkConfig) policy() IgnorePolicy {
	return IgnorePolicy{
		IgnoreHidden:  boolOr(w.IgnoreHidden, true),
		IgnoreDot:     firstBool(true, w.IgnoreDot, w.IgnoreFiles),
		IgnoreVCS:     firstBool(true, w.IgnoreVCS, w.IgnoreFiles),
		IgnoreGlobal:  firstBool(true, w.IgnoreGlobal, w.IgnoreFiles),
		IgnoreParent:  firstBool(true, w.IgnoreParent, w.IgnoreFiles),
		ExtendExclude: append([]string(nil), w.ExtendExclude...),
	}
}

func newPolicy(fileType string, c EngineConfig) (*Policy, error) {
	p := &Policy{
		FileType:                fileType,
		Binary:                  boolOr(c.Binary, false),
		CheckFilename:           boolOr(c.CheckFilename, true),
		CheckFile:               boolOr(c.CheckFile, true),
		IgnoreHex:               boolOr(c.IgnoreHex, true),
		IdentifierLeadingDigits: boolOr(c.IdentifierLeadingDigits, false),
		Identifiers:             c.ExtendIdentifiers,
		Words:                   map[string]string{},
	}
	for k, v := range c.ExtendWords {
		p.Words[strings.ToLower(k)] = v
	}
	for _, expr := range c.ExtendIgnoreRe {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("extend-ignore-re %q: %w", expr, err)
		}
		p.IgnoreRe = append(p.IgnoreRe, re)
	}
	return p, nil
}
