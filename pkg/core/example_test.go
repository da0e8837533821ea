package core_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/varalys/typoscan/pkg/core"
)

// ExampleCheck checks a directory and prints typos in the brief format.
func ExampleCheck() {
	dir, err := os.MkdirTemp("", "typoscan-example")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("fix teh bug\n"), 0o644); err != nil {
		panic(err)
	}

	res, err := core.Check(context.Background(), []string{"notes.txt"}, core.Options{
		Cwd:      dir,
		Format:   "brief",
		Out:      os.Stdout,
		Isolated: true,
	})
	if err != nil {
		fmt.Println("check failed:", err)
		return
	}
	fmt.Println("exit code:", core.ExitCode(res, nil))
	// Output:
	// notes.txt:1:5: `teh` -> `the`
	// exit code: 2
}
