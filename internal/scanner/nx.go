// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/palrun/palrun/pkg/command"
)

type (
	// NxScanner discovers Nx workspace targets from nx.json. Targets come
	// from targetDefaults; each gets a run-many command, plus the fixed
	// workspace maintenance commands.
	NxScanner struct{}

	nxDoc struct {
		TargetDefaults map[string]json.RawMessage `json:"targetDefaults"`
	}
)

// Name implements Scanner.
func (s *NxScanner) Name() string { return "nx" }

// FilePatterns implements Scanner.
func (s *NxScanner) FilePatterns() []string { return []string{"nx.json"} }

// Detect implements Scanner.
func (s *NxScanner) Detect(dir string) bool { return fileExists(dir, "nx.json") }

// Scan implements Scanner.
func (s *NxScanner) Scan(dir string) ([]command.Command, error) {
	data, err := os.ReadFile(filepath.Join(dir, "nx.json"))
	if err != nil {
		return nil, fmt.Errorf("reading nx.json: %w", err)
	}

	var doc nxDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing nx.json: %w", err)
	}

	var commands []command.Command
	targets := maps.Keys(doc.TargetDefaults)
	sort.Strings(targets)
	for _, target := range targets {
		text := fmt.Sprintf("nx run-many --target=%s", target)
		commands = append(commands, command.Command{
			Name:        text,
			Text:        text,
			Description: fmt.Sprintf("Run the %s target for all projects", target),
			Source:      command.SourceNx,
			Tags:        []string{"nx", "monorepo"},
		})
	}

	for _, op := range []struct{ text, desc string }{
		{"nx graph", "Visualize the project dependency graph"},
		{"nx affected --target=build", "Build projects affected by the current changes"},
		{"nx affected --target=test", "Test projects affected by the current changes"},
	} {
		commands = append(commands, command.Command{
			Name:        op.text,
			Text:        op.text,
			Description: op.desc,
			Source:      command.SourceNx,
			Tags:        []string{"nx", "monorepo"},
		})
	}
	return commands, nil
}
