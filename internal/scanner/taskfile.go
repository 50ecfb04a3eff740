// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"

	"github.com/palrun/palrun/pkg/command"
)

// taskfileNames are the filenames the task runner itself accepts.
var taskfileNames = []string{
	"Taskfile.yml", "Taskfile.yaml",
	"taskfile.yml", "taskfile.yaml",
	"Taskfile.dist.yml", "Taskfile.dist.yaml",
}

type (
	// TaskfileScanner discovers tasks from Taskfile.yml. Task names
	// prefixed with "_" or "." are internal by convention and excluded.
	TaskfileScanner struct{}

	taskfileDoc struct {
		Tasks map[string]taskfileTask `yaml:"tasks"`
	}

	taskfileTask struct {
		Desc    string `yaml:"desc"`
		Summary string `yaml:"summary"`
	}
)

// Name implements Scanner.
func (s *TaskfileScanner) Name() string { return "taskfile" }

// FilePatterns implements Scanner.
func (s *TaskfileScanner) FilePatterns() []string { return taskfileNames }

// Detect implements Scanner.
func (s *TaskfileScanner) Detect(dir string) bool { return anyFileExists(dir, taskfileNames) }

// Scan implements Scanner.
func (s *TaskfileScanner) Scan(dir string) ([]command.Command, error) {
	path, ok := firstExisting(dir, taskfileNames)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc taskfileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var commands []command.Command
	names := maps.Keys(doc.Tasks)
	sort.Strings(names)
	for _, name := range names {
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		task := doc.Tasks[name]
		desc := task.Desc
		if desc == "" {
			desc = task.Summary
		}
		commands = append(commands, command.Command{
			Name:        "task " + name,
			Text:        "task " + name,
			Description: desc,
			Source:      command.SourceTaskfile,
			Tags:        []string{"task", "taskfile"},
		})
	}

	commands = append(commands, command.Command{
		Name:        "task --list",
		Text:        "task --list",
		Description: "List all available tasks",
		Source:      command.SourceTaskfile,
		Tags:        []string{"task", "taskfile"},
	})

	return commands, nil
}
