// SPDX-License-Identifier: MPL-2.0

// Package scan walks a project tree and collects commands from every
// scanner that detects a visited directory.
package scan

import (
	"github.com/palrun/palrun/pkg/command"
)

type (
	// CaseMode selects how query casing is applied when matching.
	CaseMode string

	// Config controls a project walk. The zero value is not usable;
	// start from DefaultConfig.
	Config struct {
		// Exclusions are directory names pruned from the walk wherever
		// they appear.
		Exclusions []string `mapstructure:"exclusions"`
		// MaxDepth is the maximum directory depth below the root;
		// depth 0 is the root itself.
		MaxDepth int `mapstructure:"max_depth"`
		// FollowSymlinks enables descending into symlinked directories.
		// A canonical-path visited set guards against cycles.
		FollowSymlinks bool `mapstructure:"follow_symlinks"`
		// Recursive false restricts the walk to the root directory.
		Recursive bool `mapstructure:"recursive"`
		// MinScore is the match-score floor applied during search.
		MinScore int `mapstructure:"min_score"`
		// CaseMode is the matching case mode applied during search.
		CaseMode CaseMode `mapstructure:"case_mode"`
	}

	// Diagnostic records a scanner failure for one directory. Failures
	// never abort the walk; they are reported alongside the results.
	Diagnostic struct {
		Scanner string
		Dir     string
		Err     error
	}

	// Snapshot is the result of one walk: every discovered command in
	// deterministic order, plus per-scanner diagnostics.
	Snapshot struct {
		Root        string
		Commands    []command.Command
		Diagnostics []Diagnostic
	}
)

const (
	// CaseSensitive matches the query casing exactly.
	CaseSensitive CaseMode = "case_sensitive"
	// CaseInsensitive ignores casing entirely.
	CaseInsensitive CaseMode = "case_insensitive"
	// SmartCase is case-insensitive unless the query contains an
	// uppercase letter.
	SmartCase CaseMode = "smart_case"
)

// ParseCaseMode maps a configured case-mode token to its CaseMode. Short
// forms without the "case" word are accepted as aliases; anything else
// falls back to SmartCase.
func ParseCaseMode(s string) CaseMode {
	switch CaseMode(s) {
	case CaseSensitive, "sensitive":
		return CaseSensitive
	case CaseInsensitive, "insensitive":
		return CaseInsensitive
	default:
		return SmartCase
	}
}

// DefaultConfig returns the walk defaults: recursive to depth 5, symlinks
// not followed, the usual build and dependency directories excluded.
func DefaultConfig() Config {
	return Config{
		Exclusions: []string{
			"node_modules", ".git", "target", "dist", "build",
			".next", ".nuxt", ".output", "coverage", ".cache",
			".turbo", ".nx", ".pnpm", "vendor", "__pycache__",
			".venv", "venv",
		},
		MaxDepth:       5,
		Recursive:      true,
		FollowSymlinks: false,
		MinScore:       0,
		CaseMode:       SmartCase,
	}
}

// excluded reports whether a directory name is pruned.
func (c Config) excluded(name string) bool {
	for _, e := range c.Exclusions {
		if name == e {
			return true
		}
	}
	return false
}
