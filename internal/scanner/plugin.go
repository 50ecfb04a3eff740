// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/palrun/palrun/pkg/command"
)

// ErrInvalidManifest is the sentinel wrapped by manifest validation errors.
var ErrInvalidManifest = errors.New("invalid plugin manifest")

type (
	// Manifest is a declarative scanner definition. A plugin contributes
	// commands for directories containing any of its detect files, without
	// shipping code: the manifest is adapted into the Scanner contract and
	// registered like a built-in.
	Manifest struct {
		Name        string            `yaml:"name"`
		Description string            `yaml:"description"`
		DetectFiles []string          `yaml:"detect_files"`
		Commands    []ManifestCommand `yaml:"commands"`
	}

	ManifestCommand struct {
		Name        string   `yaml:"name"`
		Command     string   `yaml:"command"`
		Description string   `yaml:"description"`
		Tags        []string `yaml:"tags"`
	}

	// ManifestScanner adapts a Manifest into the Scanner contract.
	ManifestScanner struct {
		manifest Manifest
	}
)

// Validate checks that the manifest can serve as a scanner.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}
	if len(m.DetectFiles) == 0 {
		return fmt.Errorf("%w: %s declares no detect_files", ErrInvalidManifest, m.Name)
	}
	if len(m.Commands) == 0 {
		return fmt.Errorf("%w: %s declares no commands", ErrInvalidManifest, m.Name)
	}
	for i, c := range m.Commands {
		if strings.TrimSpace(c.Command) == "" {
			return fmt.Errorf("%w: %s command %d has no command text", ErrInvalidManifest, m.Name, i)
		}
	}
	return nil
}

// NewManifestScanner adapts a validated manifest into a Scanner.
func NewManifestScanner(m Manifest) (*ManifestScanner, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &ManifestScanner{manifest: m}, nil
}

// LoadManifest parses and validates a manifest file.
func LoadManifest(path string) (*ManifestScanner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return NewManifestScanner(m)
}

// LoadManifestDir loads every *.yml / *.yaml manifest in dir, sorted by
// filename. A missing directory yields no scanners and no error.
func LoadManifestDir(dir string) ([]*ManifestScanner, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yml" || ext == ".yaml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var scanners []*ManifestScanner
	for _, name := range names {
		s, err := LoadManifest(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		scanners = append(scanners, s)
	}
	return scanners, nil
}

// Name implements Scanner.
func (s *ManifestScanner) Name() string { return s.manifest.Name }

// FilePatterns implements Scanner.
func (s *ManifestScanner) FilePatterns() []string { return s.manifest.DetectFiles }

// Detect implements Scanner.
func (s *ManifestScanner) Detect(dir string) bool {
	return anyFileExists(dir, s.manifest.DetectFiles)
}

// Scan implements Scanner.
func (s *ManifestScanner) Scan(dir string) ([]command.Command, error) {
	commands := make([]command.Command, 0, len(s.manifest.Commands))
	for _, c := range s.manifest.Commands {
		name := c.Name
		if name == "" {
			name = c.Command
		}
		commands = append(commands, command.Command{
			Name:        name,
			Text:        c.Command,
			Description: c.Description,
			Source:      command.PluginSource(s.manifest.Name),
			Tags:        c.Tags,
		})
	}
	return commands, nil
}
