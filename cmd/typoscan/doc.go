// Package typoscan provides the command-line interface for typoscan. It
// parses flags, layers them over the discovered configuration and runs the
// selected check over every input path.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/varalys/typoscan/cmd/typoscan"
//	func main() { typoscan.Execute() }
package typoscan
