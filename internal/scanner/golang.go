// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/palrun/palrun/pkg/command"
)

// GoScanner discovers the standard go tool verbs for a Go module.
type GoScanner struct{}

// Name implements Scanner.
func (s *GoScanner) Name() string { return "go" }

// FilePatterns implements Scanner.
func (s *GoScanner) FilePatterns() []string { return []string{"go.mod"} }

// Detect implements Scanner.
func (s *GoScanner) Detect(dir string) bool { return fileExists(dir, "go.mod") }

// Scan implements Scanner.
func (s *GoScanner) Scan(dir string) ([]command.Command, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}

	module := goModulePath(string(data))
	var commands []command.Command
	for _, op := range []struct{ text, desc string }{
		{"go build ./...", "Build all packages"},
		{"go test ./...", "Run all tests"},
		{"go test -race ./...", "Run all tests with the race detector"},
		{"go run .", "Run the main package"},
		{"go vet ./...", "Vet all packages"},
		{"go mod tidy", "Tidy module dependencies"},
		{"go mod download", "Download module dependencies"},
		{"go fmt ./...", "Format all packages"},
		{"go generate ./...", "Run code generation"},
	} {
		desc := op.desc
		if module != "" {
			desc = fmt.Sprintf("%s (%s)", op.desc, module)
		}
		commands = append(commands, command.Command{
			Name:        op.text,
			Text:        op.text,
			Description: desc,
			Source:      command.SourceGo,
			Tags:        []string{"go"},
		})
	}
	return commands, nil
}

// goModulePath extracts the module path from go.mod content. A full go.mod
// parser is not needed for one line.
func goModulePath(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
