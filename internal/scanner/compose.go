// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/exp/maps"
	"gopkg.in/yaml.v3"

	"github.com/palrun/palrun/pkg/command"
)

// composeNames are the accepted compose filenames, modern names first.
var composeNames = []string{
	"compose.yaml", "compose.yml",
	"docker-compose.yaml", "docker-compose.yml",
}

type (
	// ComposeScanner discovers Docker Compose operational commands plus
	// per-service variants.
	ComposeScanner struct{}

	composeDoc struct {
		Services map[string]yaml.Node `yaml:"services"`
	}
)

// Name implements Scanner.
func (s *ComposeScanner) Name() string { return "compose" }

// FilePatterns implements Scanner.
func (s *ComposeScanner) FilePatterns() []string { return composeNames }

// Detect implements Scanner.
func (s *ComposeScanner) Detect(dir string) bool { return anyFileExists(dir, composeNames) }

// Scan implements Scanner.
func (s *ComposeScanner) Scan(dir string) ([]command.Command, error) {
	path, ok := firstExisting(dir, composeNames)
	if !ok {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var doc composeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	commands := []command.Command{
		{
			Name:        "docker compose up -d",
			Text:        "docker compose up -d",
			Description: "Start all services in detached mode",
			Source:      command.SourceCompose,
			Tags:        []string{"docker", "compose"},
		},
		{
			Name:        "docker compose down",
			Text:        "docker compose down",
			Description: "Stop and remove all services",
			Source:      command.SourceCompose,
			Tags:        []string{"docker", "compose"},
		},
		{
			Name:        "docker compose build",
			Text:        "docker compose build",
			Description: "Build all services",
			Source:      command.SourceCompose,
			Tags:        []string{"docker", "compose"},
		},
		{
			Name:        "docker compose ps",
			Text:        "docker compose ps",
			Description: "List running containers",
			Source:      command.SourceCompose,
			Tags:        []string{"docker", "compose"},
		},
		{
			Name:        "docker compose logs -f",
			Text:        "docker compose logs -f",
			Description: "Follow logs for all services",
			Source:      command.SourceCompose,
			Tags:        []string{"docker", "compose"},
		},
	}

	services := maps.Keys(doc.Services)
	sort.Strings(services)
	for _, svc := range services {
		commands = append(commands,
			command.Command{
				Name:        fmt.Sprintf("docker compose up -d %s", svc),
				Text:        fmt.Sprintf("docker compose up -d %s", svc),
				Description: fmt.Sprintf("Start the %s service", svc),
				Source:      command.SourceCompose,
				Tags:        []string{"docker", "compose", svc},
			},
			command.Command{
				Name:        fmt.Sprintf("docker compose logs -f %s", svc),
				Text:        fmt.Sprintf("docker compose logs -f %s", svc),
				Description: fmt.Sprintf("Follow logs for the %s service", svc),
				Source:      command.SourceCompose,
				Tags:        []string{"docker", "compose", svc},
			},
			command.Command{
				Name:        fmt.Sprintf("docker compose restart %s", svc),
				Text:        fmt.Sprintf("docker compose restart %s", svc),
				Description: fmt.Sprintf("Restart the %s service", svc),
				Source:      command.SourceCompose,
				Tags:        []string{"docker", "compose", svc},
			},
		)
	}

	return commands, nil
}
