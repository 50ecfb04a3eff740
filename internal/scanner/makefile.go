// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/palrun/palrun/pkg/command"
)

// makefileNames are the accepted Makefile filenames, in GNU make's own
// lookup order.
var makefileNames = []string{"GNUmakefile", "Makefile", "makefile"}

// targetPattern matches "target:" lines while rejecting variable
// assignments ("VAR = value", "VAR := value").
var targetPattern = regexp.MustCompile(`^([A-Za-z_.][A-Za-z0-9_.-]*)\s*:($|[^=])`)

// specialMakeTargets are built-in targets that are never user commands.
var specialMakeTargets = map[string]bool{
	"FORCE": true, "MAKEFLAGS": true, "SHELL": true, "MAKEFILE_LIST": true,
	".DEFAULT": true, ".DELETE_ON_ERROR": true, ".EXPORT_ALL_VARIABLES": true,
	".IGNORE": true, ".INTERMEDIATE": true, ".NOTPARALLEL": true,
	".ONESHELL": true, ".PHONY": true, ".POSIX": true, ".PRECIOUS": true,
	".SECONDARY": true, ".SECONDEXPANSION": true, ".SILENT": true,
	".SUFFIXES": true,
}

// MakefileScanner discovers make targets. Targets prefixed with "." or "_"
// are treated as internal and excluded, as are make's special targets.
type MakefileScanner struct{}

// Name implements Scanner.
func (s *MakefileScanner) Name() string { return "make" }

// FilePatterns implements Scanner.
func (s *MakefileScanner) FilePatterns() []string { return makefileNames }

// Detect implements Scanner.
func (s *MakefileScanner) Detect(dir string) bool { return anyFileExists(dir, makefileNames) }

// Scan implements Scanner.
func (s *MakefileScanner) Scan(dir string) ([]command.Command, error) {
	path, ok := firstExisting(dir, makefileNames)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var commands []command.Command
	for _, target := range parseMakeTargets(string(data)) {
		if strings.HasPrefix(target, ".") || strings.HasPrefix(target, "_") {
			continue
		}
		if specialMakeTargets[target] {
			continue
		}
		commands = append(commands, command.Command{
			Name:   "make " + target,
			Text:   "make " + target,
			Source: command.SourceMake,
			Tags:   []string{"make"},
		})
	}
	return commands, nil
}

// parseMakeTargets extracts target names in declaration order, without
// duplicates. Recipe lines (tab-indented), comments, and .PHONY declaration
// lines are skipped; .PHONY membership does not add targets by itself.
func parseMakeTargets(content string) []string {
	var targets []string
	seen := make(map[string]bool)

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "\t") {
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ".PHONY:") {
			continue
		}

		m := targetPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		target := m[1]
		if !seen[target] {
			seen[target] = true
			targets = append(targets, target)
		}
	}

	return targets
}
