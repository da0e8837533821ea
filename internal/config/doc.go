// Package config loads typoscan configuration from directory-scoped YAML
// files, layers defaults, discovered files and command-line overrides, and
// answers per-directory ignore policy and per-file check policy queries. It
// is internal; CLI code maps flags into an override FileConfig.
package config
