// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"strings"
	"testing"

	"github.com/palrun/palrun/pkg/command"
)

func commandTexts(commands []command.Command) []string {
	texts := make([]string, len(commands))
	for i, c := range commands {
		texts[i] = c.Text
	}
	return texts
}

func containsText(commands []command.Command, text string) bool {
	for _, c := range commands {
		if c.Text == text {
			return true
		}
	}
	return false
}

func TestComposeScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "docker-compose.yml", `
services:
  web:
    image: nginx
  db:
    image: postgres
`)

	s := &ComposeScanner{}
	commands, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"docker compose up -d",
		"docker compose down",
		"docker compose up -d db",
		"docker compose logs -f web",
		"docker compose restart web",
	} {
		if !containsText(commands, want) {
			t.Errorf("missing %q in %v", want, commandTexts(commands))
		}
	}
}

func TestCargoScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "Cargo.toml", "[package]\nname = \"mycrate\"\nversion = \"0.1.0\"\n")

	s := &CargoScanner{}
	commands, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !containsText(commands, "cargo build") || !containsText(commands, "cargo test") {
		t.Fatalf("missing cargo verbs in %v", commandTexts(commands))
	}
	if !strings.Contains(commands[0].Description, "mycrate") {
		t.Errorf("crate name should appear in the description, got %q", commands[0].Description)
	}
}

func TestGoScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "go.mod", "module example.com/svc\n\ngo 1.25\n")

	s := &GoScanner{}
	commands, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !containsText(commands, "go test ./...") || !containsText(commands, "go mod tidy") {
		t.Fatalf("missing go verbs in %v", commandTexts(commands))
	}
	if !strings.Contains(commands[0].Description, "example.com/svc") {
		t.Errorf("module path should appear in the description, got %q", commands[0].Description)
	}
}

func TestPythonScan(t *testing.T) {
	t.Parallel()

	t.Run("poetry project", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTestFile(t, dir, "pyproject.toml", `
[tool.poetry]
name = "svc"

[project]
name = "svc"

[project.scripts]
serve = "svc.main:run"
`)
		commands, err := (&PythonScanner{}).Scan(dir)
		if err != nil {
			t.Fatal(err)
		}
		if !containsText(commands, "serve") {
			t.Errorf("missing project script in %v", commandTexts(commands))
		}
		if !containsText(commands, "poetry install") {
			t.Errorf("missing poetry verbs in %v", commandTexts(commands))
		}
	})

	t.Run("requirements and django", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeTestFile(t, dir, "requirements.txt", "flask==3.0\n")
		writeTestFile(t, dir, "manage.py", "#!/usr/bin/env python\n")
		commands, err := (&PythonScanner{}).Scan(dir)
		if err != nil {
			t.Fatal(err)
		}
		if !containsText(commands, "pip install -r requirements.txt") {
			t.Errorf("missing pip command in %v", commandTexts(commands))
		}
		if !containsText(commands, "python manage.py migrate") {
			t.Errorf("missing django commands in %v", commandTexts(commands))
		}
	})
}

func TestTurboScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "turbo.json", `{
  "tasks": {
    "build": {},
    "web#deploy": {},
    "#root-only": {}
  }
}`)

	commands, err := (&TurboScanner{}).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !containsText(commands, "turbo run build") {
		t.Errorf("missing plain task in %v", commandTexts(commands))
	}
	if !containsText(commands, "turbo run deploy --filter=web") {
		t.Errorf("missing filtered variant in %v", commandTexts(commands))
	}
	for _, text := range commandTexts(commands) {
		if strings.Contains(text, "root-only") {
			t.Errorf("#-prefixed key should be skipped, got %q", text)
		}
	}
}

func TestTurboScan_LegacyPipeline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "turbo.json", `{"pipeline": {"lint": {}}}`)

	commands, err := (&TurboScanner{}).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !containsText(commands, "turbo run lint") {
		t.Errorf("pipeline key should be read when tasks is absent, got %v", commandTexts(commands))
	}
}

func TestNxScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTestFile(t, dir, "nx.json", `{"targetDefaults": {"build": {}, "test": {}}}`)

	commands, err := (&NxScanner{}).Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !containsText(commands, "nx run-many --target=build") {
		t.Errorf("missing run-many command in %v", commandTexts(commands))
	}
	if !containsText(commands, "nx graph") {
		t.Errorf("missing workspace commands in %v", commandTexts(commands))
	}
}

func TestGitScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := &GitScanner{}
	if s.Detect(dir) {
		t.Fatal("should not detect without .git")
	}

	writeTestFile(t, dir, ".git/HEAD", "ref: refs/heads/main\n")
	if !s.Detect(dir) {
		t.Fatal("expected detection with .git directory present")
	}

	commands, err := s.Scan(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !containsText(commands, "git status") {
		t.Errorf("missing git commands in %v", commandTexts(commands))
	}
}
