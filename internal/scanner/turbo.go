// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/palrun/palrun/pkg/command"
)

type (
	// TurboScanner discovers Turborepo pipeline tasks from turbo.json.
	// Newer turbo versions declare tasks under "tasks", older ones under
	// "pipeline"; both are read. Keys containing "#" are project-scoped
	// variants ("web#build") and are emitted with --filter.
	TurboScanner struct{}

	turboDoc struct {
		Tasks    map[string]json.RawMessage `json:"tasks"`
		Pipeline map[string]json.RawMessage `json:"pipeline"`
	}
)

// Name implements Scanner.
func (s *TurboScanner) Name() string { return "turbo" }

// FilePatterns implements Scanner.
func (s *TurboScanner) FilePatterns() []string { return []string{"turbo.json"} }

// Detect implements Scanner.
func (s *TurboScanner) Detect(dir string) bool { return fileExists(dir, "turbo.json") }

// Scan implements Scanner.
func (s *TurboScanner) Scan(dir string) ([]command.Command, error) {
	data, err := os.ReadFile(filepath.Join(dir, "turbo.json"))
	if err != nil {
		return nil, fmt.Errorf("reading turbo.json: %w", err)
	}

	var doc turboDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing turbo.json: %w", err)
	}

	tasks := doc.Tasks
	if len(tasks) == 0 {
		tasks = doc.Pipeline
	}

	var commands []command.Command
	names := maps.Keys(tasks)
	sort.Strings(names)
	for _, name := range names {
		if strings.HasPrefix(name, "#") {
			continue
		}
		if project, task, ok := strings.Cut(name, "#"); ok {
			text := fmt.Sprintf("turbo run %s --filter=%s", task, project)
			commands = append(commands, command.Command{
				Name:        text,
				Text:        text,
				Description: fmt.Sprintf("Run the %s task for %s", task, project),
				Source:      command.SourceTurbo,
				Tags:        []string{"turbo", "monorepo"},
			})
			continue
		}
		commands = append(commands, command.Command{
			Name:        "turbo run " + name,
			Text:        "turbo run " + name,
			Description: fmt.Sprintf("Run the %s task across the monorepo", name),
			Source:      command.SourceTurbo,
			Tags:        []string{"turbo", "monorepo"},
		})
	}
	return commands, nil
}
