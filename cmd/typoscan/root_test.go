package typoscan

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// workspace creates files in a fresh directory and makes it the working
// directory for the rest of the test.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "")
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	t.Chdir(dir)
	return dir
}

func TestRun_TyposFound(t *testing.T) {
	workspace(t, map[string]string{"a.txt": "teh cat\n", "b.txt": "fine\n"})
	res := run(t, "", "--format", "brief", "--sort", ".")
	assert.Equal(t, 2, res.code)
	assert.Equal(t, "./a.txt:1:1: `teh` -> `the`\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestRun_Clean(t *testing.T) {
	workspace(t, map[string]string{"a.txt": "the cat\n"})
	res := run(t, "")
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
}

func TestRun_LongFormatIsDefault(t *testing.T) {
	workspace(t, map[string]string{"a.txt": "see teh cat\n"})
	res := run(t, "", "a.txt")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stdout, "error: `teh` should be `the`\n")
	assert.Contains(t, res.stdout, "--> a.txt:1:5\n")
}

func TestRun_JSON(t *testing.T) {
	workspace(t, map[string]string{"a.txt": "teh\n"})
	res := run(t, "", "--format", "json", "a.txt")
	require.Equal(t, 2, res.code)
	var msg map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(res.stdout)), &msg))
	assert.Equal(t, "typo", msg["type"])
	assert.Equal(t, "a.txt", msg["path"])
}

func TestRun_UsageErrors(t *testing.T) {
	workspace(t, map[string]string{"a.txt": ""})
	cases := []struct {
		name string
		args []string
		msg  string
	}{
		{"missing path", []string{"nope"}, "argument `nope` is not found"},
		{"unknown flag", []string{"--bogus"}, "unknown flag"},
		{"exclusive modes", []string{"--files", "--words"}, "none of the others can be"},
		{"file list with paths", []string{"--file-list", "list.txt", "a.txt"}, "--file-list can't be combined"},
		{"bad format", []string{"--format", "xml"}, "invalid format"},
		{"bad color", []string{"--color", "rainbow"}, "invalid color choice"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := run(t, "", tc.args...)
			assert.Equal(t, 64, res.code)
			assert.True(t, strings.HasPrefix(res.stderr, "error: "), res.stderr)
			assert.Contains(t, res.stderr, tc.msg)
		})
	}
}

func TestRun_FileList(t *testing.T) {
	workspace(t, map[string]string{
		"list.txt": "a.txt\n\nsub\n",
		"a.txt":    "teh\n",
		"sub/b.go": "wich\n",
		"c.txt":    "teh\n",
	})
	res := run(t, "", "--file-list", "list.txt", "--format", "brief")
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stdout, "a.txt:1:1:")
	assert.Contains(t, res.stdout, filepath.Join("sub", "b.go")+":1:1:")
	assert.NotContains(t, res.stdout, "c.txt")

	res = run(t, "a.txt\n", "--file-list", "-", "--format", "brief")
	assert.Equal(t, 2, res.code)
	assert.Equal(t, "a.txt:1:1: `teh` -> `the`\n", res.stdout)
}

func TestRun_FileListRejectsStdinPath(t *testing.T) {
	workspace(t, map[string]string{"a.txt": "teh\n", "list.txt": "a.txt\n-\n"})
	res := run(t, "", "--file-list", "list.txt")
	assert.Equal(t, 64, res.code)
	assert.Contains(t, res.stderr, "Can't use `-` (stdin) while using `--file-list` provided paths")
	assert.Empty(t, res.stdout, "no partial run")
}

func TestRun_FileListMissing(t *testing.T) {
	workspace(t, nil)
	res := run(t, "", "--file-list", "nope.txt")
	assert.Equal(t, 74, res.code)
	assert.Contains(t, res.stderr, "reading --file-list nope.txt")
}

func TestRun_Stdin(t *testing.T) {
	workspace(t, nil)
	res := run(t, "recieve\n", "--format", "brief", "-")
	assert.Equal(t, 2, res.code)
	assert.Equal(t, "-:1:1: `recieve` -> `receive`\n", res.stdout)
}

func TestRun_ConfigErrors(t *testing.T) {
	workspace(t, map[string]string{"bad.yml": "files: [unclosed\n", "a.txt": ""})
	res := run(t, "", "--config", "missing.yml")
	assert.Equal(t, 78, res.code)

	res = run(t, "", "--config", "bad.yml")
	assert.Equal(t, 78, res.code)

	res = run(t, "", "--exclude", "broken[")
	assert.Equal(t, 78, res.code)
	assert.Contains(t, res.stderr, "invalid exclude pattern")
}

func TestRun_ConfigLayering(t *testing.T) {
	workspace(t, map[string]string{
		"typoscan.yml": "default:\n  extend-words:\n    teh: teh\n",
		"a.txt":        "teh\n",
		"b.md":         "wich\n",
	})
	res := run(t, "", "--format", "brief", "a.txt")
	assert.Equal(t, 0, res.code, "discovered config accepts teh")

	res = run(t, "", "--format", "brief", "--isolated", "a.txt")
	assert.Equal(t, 2, res.code)

	res = run(t, "", "--format", "brief", "--exclude", "*.md", ".")
	assert.Equal(t, 0, res.code, res.stdout)
}

func TestRun_ForceExclude(t *testing.T) {
	workspace(t, map[string]string{"vendor/a.txt": "teh\n"})
	res := run(t, "", "--exclude", "vendor/", "vendor/a.txt")
	assert.Equal(t, 2, res.code, "explicit paths are checked")

	res = run(t, "", "--exclude", "vendor/", "--force-exclude", "vendor/a.txt")
	assert.Equal(t, 0, res.code)
	assert.Empty(t, res.stdout)
}

func TestRun_ExcludedAncestorOfDirectoryRoot(t *testing.T) {
	dir := workspace(t, map[string]string{"build/proj/x.txt": "teh\n"})
	for _, root := range []string{"build/proj", filepath.Join(dir, "build", "proj")} {
		res := run(t, "", "--format", "brief", "--exclude", "build", root)
		assert.Equal(t, 2, res.code, root)
		assert.Contains(t, res.stdout, "x.txt:1:1: `teh` -> `the`", root)

		res = run(t, "", "--format", "brief", "--exclude", "build", "--force-exclude", root)
		assert.Equal(t, 0, res.code, root)
		assert.Empty(t, res.stdout, root)
	}
}

func TestRun_WriteChanges(t *testing.T) {
	dir := workspace(t, map[string]string{"a.txt": "teh cat\n"})
	res := run(t, "", "-w", ".")
	assert.Equal(t, 0, res.code)
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "the cat\n", string(got))
}

func TestRun_Diff(t *testing.T) {
	dir := workspace(t, map[string]string{"a.txt": "teh cat\n"})
	res := run(t, "", "--diff", "a.txt")
	assert.Equal(t, 0, res.code, "fixable typos are shown as a diff, not reported")
	assert.Contains(t, res.stdout, "--- a.txt\toriginal\n")
	assert.Contains(t, res.stdout, "+the cat\n")
	assert.NotContains(t, res.stdout, "error:", "messages are silenced in diff mode")
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "teh cat\n", string(got))
}

func TestRun_Files(t *testing.T) {
	workspace(t, map[string]string{"a.txt": "", "b.go": "", ".hidden": "", "c.lock": ""})
	res := run(t, "", "--files", "--sort", "--format", "brief")
	assert.Equal(t, 0, res.code)
	assert.Equal(t, "./a.txt\n./b.go\n", res.stdout)

	res = run(t, "", "--files", "--sort", "--format", "brief", "--hidden")
	assert.Equal(t, "./.hidden\n./a.txt\n./b.go\n", res.stdout)

	res = run(t, "", "--file-types", "--sort", "--format", "brief")
	assert.Equal(t, "./a.txt:txt\n./b.go:go\n./c.lock:lock\n", res.stdout)
}

func TestRun_DumpConfig(t *testing.T) {
	dir := workspace(t, map[string]string{"typoscan.yml": "files:\n  extend-exclude: [target/]\n"})
	res := run(t, "", "--dump-config", "-")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "extend-exclude:\n    - target/\n")
	assert.Contains(t, res.stdout, "ignore-hidden: true")

	res = run(t, "", "--dump-config", "out.yml", "--hidden")
	require.Equal(t, 0, res.code, res.stderr)
	got, err := os.ReadFile(filepath.Join(dir, "out.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "ignore-hidden: false")
}

func TestRun_TypeList(t *testing.T) {
	workspace(t, nil)
	res := run(t, "", "--type-list")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "*.go")
	assert.Contains(t, res.stdout, "go.sum")
}

func TestRun_Completion(t *testing.T) {
	workspace(t, nil)
	res := run(t, "", "completion", "bash")
	assert.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "bash completion")
}
