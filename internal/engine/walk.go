package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/ignore"
	"github.com/varalys/typoscan/internal/logging"
)

// FileEntry is a file yielded by a walk. Path is derived from the InputPath
// as given; Depth is 0 for the InputPath itself.
type FileEntry struct {
	Path  string
	Depth int
}

// Visit is called for every file a walk yields. In parallel walks it is
// called from several goroutines at once.
type Visit func(FileEntry) error

// WalkOptions configures the traversal of one InputPath. The values are
// read-only during the walk.
type WalkOptions struct {
	Policy config.IgnorePolicy
	// Exclude is the compiled extend-exclude list, matched against every
	// entry below the root. Nil or empty disables the filter.
	Exclude *ignore.Matcher
	Threads int
	// Skip is left out of the walk, usually the file standard output is
	// redirected to.
	Skip os.FileInfo
	// Cwd resolves relative roots. Empty means the process working
	// directory.
	Cwd string
	Log *logrus.Entry
}

// Threads picks the worker count for one InputPath. Single files and sorted
// runs are always walked sequentially; 0 means one worker per CPU.
func Threads(isFile, sorted bool, configured int) int {
	if isFile || sorted {
		return 1
	}
	if configured <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return configured
}

// Traverse walks root sequentially when opts.Threads is 1 and with a worker
// pool otherwise.
func Traverse(ctx context.Context, root string, opts WalkOptions, visit Visit) error {
	if opts.Threads == 1 {
		return Walk(ctx, root, opts, visit)
	}
	return WalkParallel(ctx, root, opts, visit)
}

// Walk visits the files under root one at a time, in lexicographic order
// within each directory.
func Walk(ctx context.Context, root string, opts WalkOptions, visit Visit) error {
	w, err := newWalker(root, opts)
	if err != nil {
		return err
	}
	return w.run(ctx, visit)
}

// WalkParallel walks root on one goroutine and hands the files to
// opts.Threads workers. The first error stops the walk; checks already
// running are allowed to finish.
func WalkParallel(ctx context.Context, root string, opts WalkOptions, visit Visit) error {
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	w, err := newWalker(root, opts)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	entries := make(chan FileEntry, threads*4)
	g.Go(func() error {
		defer close(entries)
		return w.run(gctx, func(e FileEntry) error {
			select {
			case entries <- e:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})
	for range threads {
		g.Go(func() error {
			for e := range entries {
				if gctx.Err() != nil {
					continue
				}
				if err := visit(e); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}

type walker struct {
	root   string
	abs    string
	opts   WalkOptions
	filter *structural
	log    *logrus.Entry
	debug  bool
}

func newWalker(root string, opts WalkOptions) (*walker, error) {
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	abs := root
	if !filepath.IsAbs(abs) && opts.Cwd != "" {
		abs = filepath.Join(opts.Cwd, abs)
	}
	abs, err := filepath.Abs(abs)
	if err != nil {
		return nil, err
	}
	return &walker{
		root:   root,
		abs:    abs,
		opts:   opts,
		filter: newStructural(opts.Policy, abs, opts.Log),
		log:    opts.Log,
		debug:  opts.Log.Logger.IsLevelEnabled(logrus.DebugLevel),
	}, nil
}

// debugf logs a per-entry decision. Entries are only built when debug
// logging is on.
func (w *walker) debugf(path, format string, args ...any) {
	if w.debug {
		w.log.WithField("path", path).Debugf(format, args...)
	}
}

func (w *walker) run(ctx context.Context, visit Visit) error {
	info, err := os.Stat(w.abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		if w.skipped(w.abs) {
			return nil
		}
		return visit(FileEntry{Path: w.root, Depth: 0})
	}
	return w.dir(ctx, w.root, w.abs, 0, w.filter.base(w.abs), visit)
}

func (w *walker) dir(ctx context.Context, display, abs string, depth int, st *ignore.Stack, visit Visit) error {
	st = w.filter.push(st, abs)
	entries, err := os.ReadDir(abs)
	if err != nil {
		return err
	}
	for _, ent := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := ent.Name()
		child := joinDisplay(display, name)
		childAbs := filepath.Join(abs, name)

		typ := ent.Type()
		if typ&fs.ModeSymlink != 0 {
			w.debugf(child, "skipped: symlink")
			continue
		}
		isDir := ent.IsDir()
		if skip, why := w.filter.skip(st, name, childAbs, isDir); skip {
			w.debugf(child, "skipped: %s", why)
			continue
		}
		if w.opts.Exclude.Len() > 0 {
			m := w.opts.Exclude.Matched(child, isDir)
			w.debugf(child, "match(%q, %t) == %s", child, isDir, m)
			if m == ignore.Ignore {
				continue
			}
		}
		if isDir {
			if err := w.dir(ctx, child, childAbs, depth+1, st, visit); err != nil {
				return err
			}
			continue
		}
		if !typ.IsRegular() {
			w.debugf(child, "skipped: not a regular file")
			continue
		}
		if w.skipped(childAbs) {
			w.debugf(child, "skipped: standard output")
			continue
		}
		if err := visit(FileEntry{Path: child, Depth: depth + 1}); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) skipped(abs string) bool {
	if w.opts.Skip == nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && os.SameFile(info, w.opts.Skip)
}

// joinDisplay appends name to dir without cleaning, so "./" prefixes of the
// InputPath survive in reported paths.
func joinDisplay(dir, name string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(os.PathSeparator) + name
}
