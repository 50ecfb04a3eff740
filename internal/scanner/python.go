// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/exp/maps"

	"github.com/palrun/palrun/pkg/command"
)

// pythonMarkers are the files that identify a Python project.
var pythonMarkers = []string{"pyproject.toml", "requirements.txt", "setup.py", "manage.py"}

type (
	// PythonScanner discovers commands for Python projects. The emitted
	// commands depend on which project files are present: pyproject.toml
	// scripts and poetry verbs, pip verbs for requirements.txt, and Django
	// management commands when manage.py exists.
	PythonScanner struct{}

	pyprojectDoc struct {
		Project struct {
			Name    string            `toml:"name"`
			Scripts map[string]string `toml:"scripts"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
)

// Name implements Scanner.
func (s *PythonScanner) Name() string { return "python" }

// FilePatterns implements Scanner.
func (s *PythonScanner) FilePatterns() []string { return pythonMarkers }

// Detect implements Scanner.
func (s *PythonScanner) Detect(dir string) bool { return anyFileExists(dir, pythonMarkers) }

// Scan implements Scanner.
func (s *PythonScanner) Scan(dir string) ([]command.Command, error) {
	var commands []command.Command

	if fileExists(dir, "pyproject.toml") {
		data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
		if err != nil {
			return nil, fmt.Errorf("reading pyproject.toml: %w", err)
		}
		var doc pyprojectDoc
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing pyproject.toml: %w", err)
		}

		scriptNames := maps.Keys(doc.Project.Scripts)
		sort.Strings(scriptNames)
		for _, name := range scriptNames {
			commands = append(commands, command.Command{
				Name:        name,
				Text:        name,
				Description: doc.Project.Scripts[name],
				Source:      command.SourcePython,
				Tags:        []string{"python", "script"},
			})
		}

		if doc.Tool.Poetry.Name != "" {
			for _, op := range []struct{ text, desc string }{
				{"poetry install", "Install dependencies"},
				{"poetry update", "Update dependencies"},
				{"poetry run pytest", "Run tests"},
				{"poetry build", "Build the package"},
			} {
				commands = append(commands, command.Command{
					Name:        op.text,
					Text:        op.text,
					Description: op.desc,
					Source:      command.SourcePython,
					Tags:        []string{"python", "poetry"},
				})
			}
		} else {
			commands = append(commands, command.Command{
				Name:        "pip install -e .",
				Text:        "pip install -e .",
				Description: "Install the project in editable mode",
				Source:      command.SourcePython,
				Tags:        []string{"python", "pip"},
			})
		}
	}

	if fileExists(dir, "requirements.txt") {
		commands = append(commands, command.Command{
			Name:        "pip install -r requirements.txt",
			Text:        "pip install -r requirements.txt",
			Description: "Install dependencies from requirements.txt",
			Source:      command.SourcePython,
			Tags:        []string{"python", "pip"},
		})
	}

	if fileExists(dir, "manage.py") {
		for _, op := range []struct{ text, desc string }{
			{"python manage.py runserver", "Start the Django development server"},
			{"python manage.py migrate", "Apply database migrations"},
			{"python manage.py makemigrations", "Create new database migrations"},
			{"python manage.py test", "Run Django tests"},
			{"python manage.py shell", "Open the Django shell"},
		} {
			commands = append(commands, command.Command{
				Name:        op.text,
				Text:        op.text,
				Description: op.desc,
				Source:      command.SourcePython,
				Tags:        []string{"python", "django"},
			})
		}
	}

	return commands, nil
}
