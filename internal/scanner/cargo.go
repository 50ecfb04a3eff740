// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/palrun/palrun/pkg/command"
)

type (
	// CargoScanner discovers the standard cargo verbs for a Rust crate.
	CargoScanner struct{}

	cargoManifest struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
)

// Name implements Scanner.
func (s *CargoScanner) Name() string { return "cargo" }

// FilePatterns implements Scanner.
func (s *CargoScanner) FilePatterns() []string { return []string{"Cargo.toml"} }

// Detect implements Scanner.
func (s *CargoScanner) Detect(dir string) bool { return fileExists(dir, "Cargo.toml") }

// Scan implements Scanner.
func (s *CargoScanner) Scan(dir string) ([]command.Command, error) {
	data, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	if err != nil {
		return nil, fmt.Errorf("reading Cargo.toml: %w", err)
	}

	var manifest cargoManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing Cargo.toml: %w", err)
	}

	crate := manifest.Package.Name
	var commands []command.Command
	for _, op := range []struct{ text, desc string }{
		{"cargo build", "Build the project"},
		{"cargo build --release", "Build the project in release mode"},
		{"cargo run", "Run the project"},
		{"cargo test", "Run tests"},
		{"cargo check", "Check the project for errors"},
		{"cargo clippy", "Run the clippy linter"},
		{"cargo fmt", "Format the code"},
		{"cargo clean", "Remove build artifacts"},
		{"cargo doc --open", "Build and open documentation"},
		{"cargo update", "Update dependencies"},
	} {
		desc := op.desc
		if crate != "" {
			desc = fmt.Sprintf("%s (%s)", op.desc, crate)
		}
		commands = append(commands, command.Command{
			Name:        op.text,
			Text:        op.text,
			Description: desc,
			Source:      command.SourceCargo,
			Tags:        []string{"cargo", "rust"},
		})
	}
	return commands, nil
}
