// SPDX-License-Identifier: MPL-2.0

// Package command defines the Command type produced by project scanners.
package command

import "strings"

const (
	// SourceNpm indicates a command discovered from package.json scripts.
	SourceNpm Source = "npm"
	// SourceMake indicates a command discovered from Makefile targets.
	SourceMake Source = "make"
	// SourceTaskfile indicates a command discovered from a Taskfile.
	SourceTaskfile Source = "taskfile"
	// SourceCompose indicates a command discovered from a compose file.
	SourceCompose Source = "compose"
	// SourceCargo indicates a command discovered from Cargo.toml.
	SourceCargo Source = "cargo"
	// SourceGo indicates a command discovered from go.mod.
	SourceGo Source = "go"
	// SourcePython indicates a command discovered from Python project files.
	SourcePython Source = "python"
	// SourceTurbo indicates a command discovered from turbo.json.
	SourceTurbo Source = "turbo"
	// SourceNx indicates a command discovered from an Nx workspace.
	SourceNx Source = "nx"
	// SourceGit indicates a command discovered from a git repository.
	SourceGit Source = "git"

	// pluginSourcePrefix namespaces sources contributed by plugin scanners.
	pluginSourcePrefix = "plugin:"
)

type (
	// Source identifies the ecosystem a command was discovered from.
	// Built-in sources are a fixed set; plugin scanners extend it via
	// PluginSource.
	Source string

	// Command is a runnable shell invocation discovered from project
	// configuration, plus descriptive metadata. Identity is not globally
	// unique; scanners only keep their own output free of duplicates.
	Command struct {
		// Name is the display name shown in search results.
		Name string
		// Text is the shell command to execute.
		Text string
		// Description explains what the command does (may be empty).
		Description string
		// Source identifies the originating ecosystem.
		Source Source
		// WorkDir is the working directory for execution, if it differs
		// from the directory the command was discovered in.
		WorkDir string
		// Tags categorize the command for filtering.
		Tags []string
		// Origin is the directory the command was discovered in.
		// Populated by the walker, not by scanners.
		Origin string
		// Depth is the directory depth from the scan root at which the
		// command was discovered. Populated by the walker.
		Depth int
	}
)

// PluginSource returns the Source for an externally supplied scanner.
func PluginSource(name string) Source {
	return Source(pluginSourcePrefix + name)
}

// IsPlugin reports whether the source was contributed by a plugin scanner.
func (s Source) IsPlugin() bool {
	return strings.HasPrefix(string(s), pluginSourcePrefix)
}

// String returns the source tag as displayed to users.
func (s Source) String() string { return string(s) }

// SearchText returns the text the fuzzy matcher scores a query against:
// name, description, and source tag concatenated.
func (c Command) SearchText() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Description != "" {
		b.WriteByte(' ')
		b.WriteString(c.Description)
	}
	b.WriteByte(' ')
	b.WriteString(string(c.Source))
	return b.String()
}

// HasTag reports whether the command carries the given tag.
func (c Command) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
