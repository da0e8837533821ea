package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varalys/typoscan/internal/config"
	"github.com/varalys/typoscan/internal/ignore"
)

func allIgnores() config.IgnorePolicy {
	return config.IgnorePolicy{
		IgnoreHidden: true,
		IgnoreDot:    true,
		IgnoreVCS:    true,
		IgnoreGlobal: true,
		IgnoreParent: true,
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// isolateHome keeps the user's global git excludes out of the test.
func isolateHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
}

type collector struct {
	mu      sync.Mutex
	entries []FileEntry
}

func (c *collector) visit(e FileEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
	return nil
}

func (c *collector) paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = filepath.ToSlash(e.Path)
	}
	return out
}

func TestThreads(t *testing.T) {
	cases := []struct {
		name       string
		isFile     bool
		sorted     bool
		configured int
		want       int
	}{
		{"file ignores configured", true, false, 8, 1},
		{"sort ignores configured", false, true, 8, 1},
		{"configured", false, false, 4, 4},
		{"single", false, false, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Threads(tc.isFile, tc.sorted, tc.configured))
		})
	}
	assert.GreaterOrEqual(t, Threads(false, false, 0), 1)
}

func TestWalk_SortedWithDisplayPaths(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"b.txt":     "",
		"a/z.txt":   "",
		"a/b/c.txt": "",
		"A.txt":     "",
	})
	var c collector
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Threads: 1}, c.visit))
	assert.Equal(t, []string{"./A.txt", "./a/b/c.txt", "./a/z.txt", "./b.txt"}, c.paths())
	for _, e := range c.entries {
		assert.Positive(t, e.Depth)
	}
}

func TestWalk_FileRoot(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{".hidden.txt": ""})
	var c collector
	root := filepath.Join(dir, ".hidden.txt")
	require.NoError(t, Walk(context.Background(), root, WalkOptions{Policy: allIgnores()}, c.visit))
	require.Len(t, c.entries, 1)
	assert.Equal(t, FileEntry{Path: root, Depth: 0}, c.entries[0], "roots are never filtered")
}

func TestWalk_Hidden(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".env":          "",
		".config/x.txt": "",
		"a.txt":         "",
	})
	var c collector
	require.NoError(t, Walk(context.Background(), dir, WalkOptions{Policy: allIgnores()}, c.visit))
	assert.Equal(t, []string{filepath.ToSlash(filepath.Join(dir, "a.txt"))}, c.paths())

	c = collector{}
	require.NoError(t, Walk(context.Background(), dir, WalkOptions{}, c.visit))
	assert.Len(t, c.entries, 3)
}

func TestWalk_DotIgnore(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".ignore":     "*.gen\n!keep.gen\n",
		"a.gen":       "",
		"keep.gen":    "",
		"sub/b.gen":   "",
		"sub/.ignore": "c.txt\n",
		"sub/c.txt":   "",
		"other/c.txt": "",
		"other/ok.md": "",
	})
	policy := allIgnores()
	policy.IgnoreHidden = false
	var c collector
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Policy: policy}, c.visit))
	assert.Equal(t, []string{"./.ignore", "./keep.gen", "./other/c.txt", "./other/ok.md", "./sub/.ignore"}, c.paths())

	policy.IgnoreDot = false
	c = collector{}
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Policy: policy}, c.visit))
	assert.Len(t, c.entries, 8)
}

func TestWalk_GitIgnoreNeedsWorkTree(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".gitignore": "target/\n",
		"target/x":   "",
		"src/main":   "",
	})
	var c collector
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Policy: allIgnores()}, c.visit))
	assert.Equal(t, []string{"./src/main", "./target/x"}, c.paths(), "no .git, so .gitignore is inert")

	writeTree(t, dir, map[string]string{
		".git/HEAD":         "ref: refs/heads/main\n",
		".git/info/exclude": "src/main\n",
	})
	c = collector{}
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Policy: allIgnores()}, c.visit))
	assert.Empty(t, c.paths())

	policy := allIgnores()
	policy.IgnoreHidden = false
	c = collector{}
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Policy: policy}, c.visit))
	assert.Equal(t, []string{"./.gitignore"}, c.paths(), ".git is skipped even when hidden files are walked")

	policy.IgnoreVCS = false
	c = collector{}
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Policy: policy}, c.visit))
	assert.Len(t, c.entries, 5)
}

func TestWalk_GlobalExcludes(t *testing.T) {
	isolateHome(t)
	home := os.Getenv("HOME")
	writeTree(t, home, map[string]string{
		".gitconfig":   "[core]\n\texcludesfile = ~/.gitexcludes\n",
		".gitexcludes": "*.swp\n",
	})
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".git/HEAD": "",
		"a.swp":     "",
		"a.txt":     "",
	})
	var c collector
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Policy: allIgnores()}, c.visit))
	assert.Equal(t, []string{"./a.txt"}, c.paths())

	policy := allIgnores()
	policy.IgnoreGlobal = false
	c = collector{}
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Policy: policy}, c.visit))
	assert.Equal(t, []string{"./a.swp", "./a.txt"}, c.paths())
}

func TestWalk_ParentIgnoreFiles(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		".ignore":   "*.log\n",
		"sub/a.log": "",
		"sub/a.txt": "",
	})
	var c collector
	require.NoError(t, Walk(context.Background(), "sub", WalkOptions{Cwd: dir, Policy: allIgnores()}, c.visit))
	assert.Equal(t, []string{"sub/a.txt"}, c.paths())

	policy := allIgnores()
	policy.IgnoreParent = false
	c = collector{}
	require.NoError(t, Walk(context.Background(), "sub", WalkOptions{Cwd: dir, Policy: policy}, c.visit))
	assert.Equal(t, []string{"sub/a.log", "sub/a.txt"}, c.paths())
}

func TestWalk_ExcludeCascade(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.log":        "",
		"keep.log":     "",
		"b.txt":        "",
		"vendor/x.txt": "",
	})
	exclude, err := ignore.Compile([]string{"*.log", "vendor/", "!keep.log"})
	require.NoError(t, err)
	var c collector
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Exclude: exclude}, c.visit))
	assert.Equal(t, []string{"./b.txt", "./keep.log"}, c.paths())
}

func TestWalk_DecisionLogsOnlyAtDebug(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.log": "", "b.txt": ""})
	exclude, err := ignore.Compile([]string{"*.log"})
	require.NoError(t, err)

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)
	opts := WalkOptions{Cwd: dir, Exclude: exclude, Log: logrus.NewEntry(logger)}
	var c collector
	require.NoError(t, Walk(context.Background(), ".", opts, c.visit))
	assert.Empty(t, hook.AllEntries())

	logger.SetLevel(logrus.DebugLevel)
	c = collector{}
	require.NoError(t, Walk(context.Background(), ".", opts, c.visit))
	assert.Equal(t, []string{"./b.txt"}, c.paths())
	var msgs []string
	for _, e := range hook.AllEntries() {
		msgs = append(msgs, e.Message)
	}
	assert.Contains(t, msgs, `match("./a.log", false) == ignore`)
	assert.Contains(t, msgs, `match("./b.txt", false) == none`)
}

func TestWalk_SkipsSymlinksAndSkipFile(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "", "out.txt": "", "real/b.txt": ""})
	require.NoError(t, os.Symlink(filepath.Join(dir, "a.txt"), filepath.Join(dir, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(dir, "real"), filepath.Join(dir, "linkdir")))
	out, err := os.Stat(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)

	var c collector
	require.NoError(t, Walk(context.Background(), ".", WalkOptions{Cwd: dir, Skip: out}, c.visit))
	assert.Equal(t, []string{"./a.txt", "./real/b.txt"}, c.paths())
}

func TestWalk_MissingRoot(t *testing.T) {
	err := Walk(context.Background(), filepath.Join(t.TempDir(), "gone"), WalkOptions{}, func(FileEntry) error { return nil })
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWalkParallel_VisitsEverything(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	var want []string
	for i := range 60 {
		name := fmt.Sprintf("d%d/f%02d.txt", i%6, i)
		files[name] = ""
		want = append(want, filepath.ToSlash(filepath.Join(dir, name)))
	}
	writeTree(t, dir, files)

	var c collector
	require.NoError(t, WalkParallel(context.Background(), dir, WalkOptions{Threads: 4}, c.visit))
	got := c.paths()
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestWalkParallel_FirstErrorStops(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for i := range 200 {
		files[fmt.Sprintf("f%03d.txt", i)] = ""
	}
	writeTree(t, dir, files)

	boom := errors.New("boom")
	var calls atomic.Int64
	err := WalkParallel(context.Background(), dir, WalkOptions{Threads: 2}, func(FileEntry) error {
		calls.Add(1)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int64(200))
}

func TestTraverse_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.txt": "", "b.txt": ""})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, threads := range []int{1, 3} {
		err := Traverse(ctx, dir, WalkOptions{Threads: threads}, func(FileEntry) error { return nil })
		assert.ErrorIs(t, err, context.Canceled, "threads=%d", threads)
	}
}
