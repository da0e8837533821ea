// Package engine drives a typoscan run. For every InputPath it resolves the
// WorkingContext, composes the exclusion rules, applies the force-exclude
// ancestor pre-filter, walks the tree sequentially or with a worker pool and
// folds the per-path outcome into a RunResult. External consumers should use
// the facade in pkg/core.
package engine
