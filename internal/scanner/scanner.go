// SPDX-License-Identifier: MPL-2.0

// Package scanner discovers runnable commands from project configuration
// files. One scanner per tooling ecosystem; all of them satisfy the same
// contract, whether built in or supplied by a plugin manifest.
package scanner

import (
	"os"
	"path/filepath"

	"github.com/palrun/palrun/pkg/command"
)

type (
	// Scanner detects and extracts commands for one project-tooling
	// ecosystem. FilePatterns is a cheap pre-filter: the walker only calls
	// Detect for directories containing an entry matching one of the
	// patterns. Detect may perform further checks (lockfiles, required
	// sections); Scan parses the configuration and emits commands.
	Scanner interface {
		Name() string
		FilePatterns() []string
		Detect(dir string) bool
		Scan(dir string) ([]command.Command, error)
	}

	// Registry holds the scanners consulted for each visited directory.
	// It is constructed explicitly and passed through the call chain; there
	// is no global registry. Built-in and plugin scanners are registered
	// identically.
	Registry struct {
		scanners []Scanner
	}
)

// NewRegistry creates a registry with the given scanners, in order.
// Registration order is the per-directory emission order, so it is part of
// the deterministic discovery order.
func NewRegistry(scanners ...Scanner) *Registry {
	return &Registry{scanners: scanners}
}

// Builtin returns a registry holding every built-in scanner.
func Builtin() *Registry {
	return NewRegistry(
		&NpmScanner{},
		&MakefileScanner{},
		&TaskfileScanner{},
		&ComposeScanner{},
		&CargoScanner{},
		&GoScanner{},
		&PythonScanner{},
		&TurboScanner{},
		&NxScanner{},
		&GitScanner{},
	)
}

// Register appends a scanner to the registry.
func (r *Registry) Register(s Scanner) {
	r.scanners = append(r.scanners, s)
}

// Scanners returns the registered scanners in registration order.
func (r *Registry) Scanners() []Scanner {
	return r.scanners
}

// Enabled returns a registry restricted to scanners whose name appears in
// names. An empty list keeps every scanner.
func (r *Registry) Enabled(names []string) *Registry {
	if len(names) == 0 {
		return r
	}
	allowed := make(map[string]bool, len(names))
	for _, n := range names {
		allowed[n] = true
	}
	filtered := NewRegistry()
	for _, s := range r.scanners {
		if allowed[s.Name()] {
			filtered.Register(s)
		}
	}
	return filtered
}

// fileExists reports whether dir contains a regular file with the given name.
func fileExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}

// dirExists reports whether dir contains a subdirectory with the given name.
func dirExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.IsDir()
}

// firstExisting returns the first candidate file that exists in dir.
func firstExisting(dir string, candidates []string) (string, bool) {
	for _, name := range candidates {
		if fileExists(dir, name) {
			return filepath.Join(dir, name), true
		}
	}
	return "", false
}

// anyFileExists reports whether any candidate file exists in dir.
func anyFileExists(dir string, candidates []string) bool {
	_, ok := firstExisting(dir, candidates)
	return ok
}
