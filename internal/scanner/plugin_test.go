// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"errors"
	"path/filepath"
	"testing"
)

const testManifest = `name: terraform
description: Terraform workflow commands
detect_files:
  - main.tf
  - terraform.tf
commands:
  - name: terraform plan
    command: terraform plan
    description: Show the execution plan
    tags: [terraform, iac]
  - command: terraform apply
    description: Apply the configuration
`

func TestManifestScanner(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "terraform.yml", testManifest)

	s, err := LoadManifest(filepath.Join(dir, "terraform.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name() != "terraform" {
		t.Errorf("got name %q", s.Name())
	}

	project := t.TempDir()
	if s.Detect(project) {
		t.Error("should not detect without any detect file")
	}
	writeTestFile(t, project, "main.tf", "")
	if !s.Detect(project) {
		t.Fatal("expected detection with main.tf present")
	}

	commands, err := s.Scan(project)
	if err != nil {
		t.Fatal(err)
	}
	if len(commands) != 2 {
		t.Fatalf("got %d commands, want 2", len(commands))
	}
	if commands[0].Source != "plugin:terraform" {
		t.Errorf("got source %q", commands[0].Source)
	}
	if !commands[0].Source.IsPlugin() {
		t.Error("plugin source should report IsPlugin")
	}
	if commands[1].Name != "terraform apply" {
		t.Errorf("command text should be the name fallback, got %q", commands[1].Name)
	}
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest Manifest
	}{
		{"missing name", Manifest{DetectFiles: []string{"x"}, Commands: []ManifestCommand{{Command: "x"}}}},
		{"no detect files", Manifest{Name: "p", Commands: []ManifestCommand{{Command: "x"}}}},
		{"no commands", Manifest{Name: "p", DetectFiles: []string{"x"}}},
		{"empty command text", Manifest{Name: "p", DetectFiles: []string{"x"}, Commands: []ManifestCommand{{Name: "y"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewManifestScanner(tt.manifest); !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("got %v, want ErrInvalidManifest", err)
			}
		})
	}
}

func TestLoadManifestDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "b.yml", testManifest)
	writeTestFile(t, dir, "a.yaml", "name: ansible\ndetect_files: [playbook.yml]\ncommands:\n  - command: ansible-playbook playbook.yml\n")
	writeTestFile(t, dir, "ignore.txt", "not a manifest")

	scanners, err := LoadManifestDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(scanners) != 2 {
		t.Fatalf("got %d scanners, want 2", len(scanners))
	}
	if scanners[0].Name() != "ansible" || scanners[1].Name() != "terraform" {
		t.Errorf("manifests should load in filename order: %s, %s", scanners[0].Name(), scanners[1].Name())
	}
}

func TestLoadManifestDir_Missing(t *testing.T) {
	t.Parallel()

	scanners, err := LoadManifestDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if scanners != nil {
		t.Errorf("got %v, want nil", scanners)
	}
}
