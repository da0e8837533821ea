// Package core is a small, stable facade over the typoscan engine for
// programs that want to run a check without going through the CLI.
//
// Example:
//
//	res, err := core.Check(ctx, []string{"."}, core.Options{Format: "brief", Out: os.Stdout})
//	if err != nil { /* handle */ }
//	os.Exit(core.ExitCode(res, err))
package core
