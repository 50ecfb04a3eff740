// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/palrun/palrun/internal/scanner"
	"github.com/palrun/palrun/pkg/command"
)

// failingScanner always detects and always fails, to exercise diagnostics.
type failingScanner struct{}

func (failingScanner) Name() string                           { return "failing" }
func (failingScanner) FilePatterns() []string                 { return []string{"go.mod"} }
func (failingScanner) Detect(string) bool                     { return true }
func (failingScanner) Scan(string) ([]command.Command, error) { return nil, errors.New("boom") }

func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func projectTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTestFile(t, root, "go.mod", "module example.com/root\n")
	writeTestFile(t, root, "api/go.mod", "module example.com/root/api\n")
	writeTestFile(t, root, "web/package.json", `{"scripts": {"dev": "vite"}}`)
	writeTestFile(t, root, "web/node_modules/dep/package.json", `{"scripts": {"x": "y"}}`)
	return root
}

func TestRun(t *testing.T) {
	t.Parallel()

	root := projectTree(t)
	snap, err := Run(context.Background(), root, DefaultConfig(), scanner.Builtin())
	if err != nil {
		t.Fatal(err)
	}

	byOrigin := make(map[string]int)
	for _, c := range snap.Commands {
		rel, _ := filepath.Rel(snap.Root, c.Origin)
		byOrigin[rel]++
	}
	for _, origin := range []string{".", "api", "web"} {
		if byOrigin[origin] == 0 {
			t.Errorf("no commands discovered under %q: %v", origin, byOrigin)
		}
	}
	if n := byOrigin[filepath.Join("web", "node_modules", "dep")]; n != 0 {
		t.Errorf("excluded directory was scanned: %d commands", n)
	}
	if len(snap.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics: %+v", snap.Diagnostics)
	}

	for _, c := range snap.Commands {
		if c.WorkDir == "" {
			t.Fatalf("command %q has no working directory", c.Text)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	root := projectTree(t)
	first, err := Run(context.Background(), root, DefaultConfig(), scanner.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		snap, err := Run(context.Background(), root, DefaultConfig(), scanner.Builtin())
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(snap.Commands, first.Commands) {
			t.Fatal("discovery order changed between runs")
		}
	}
}

func TestRun_NonRecursive(t *testing.T) {
	t.Parallel()

	root := projectTree(t)
	cfg := DefaultConfig()
	cfg.Recursive = false

	snap, err := Run(context.Background(), root, cfg, scanner.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range snap.Commands {
		if c.Depth != 0 {
			t.Errorf("non-recursive scan visited depth %d (%s)", c.Depth, c.Origin)
		}
	}
}

func TestRun_MaxDepth(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, root, "a/b/c/go.mod", "module deep\n")

	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	snap, err := Run(context.Background(), root, cfg, scanner.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Commands) != 0 {
		t.Errorf("depth limit not honored: %+v", snap.Commands)
	}

	cfg.MaxDepth = 3
	snap, err = Run(context.Background(), root, cfg, scanner.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Commands) == 0 {
		t.Error("expected commands at depth 3")
	}
}

func TestRun_DiagnosticsDoNotAbort(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, root, "go.mod", "module example.com/ok\n")

	reg := scanner.NewRegistry(failingScanner{}, &scanner.GoScanner{})
	snap, err := Run(context.Background(), root, DefaultConfig(), reg)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(snap.Diagnostics))
	}
	if snap.Diagnostics[0].Scanner != "failing" {
		t.Errorf("got diagnostic for %q", snap.Diagnostics[0].Scanner)
	}
	if len(snap.Commands) == 0 {
		t.Error("a failing scanner should not suppress other scanners")
	}
}

func TestRun_SymlinkCycle(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, root, "svc/go.mod", "module example.com/svc\n")
	if err := os.Symlink(root, filepath.Join(root, "svc", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	cfg := DefaultConfig()
	cfg.FollowSymlinks = true
	snap, err := Run(context.Background(), root, cfg, scanner.Builtin())
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[string]bool)
	for _, c := range snap.Commands {
		seen[c.Origin] = true
	}
	if len(seen) == 0 {
		t.Fatal("no directories scanned")
	}
}

func TestRun_SymlinkToScannedDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, root, "svc/go.mod", "module example.com/svc\n")
	if err := os.Symlink(filepath.Join(root, "svc"), filepath.Join(root, "zlink")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	// Baseline: symlinks not followed, svc scanned exactly once.
	base, err := Run(context.Background(), root, DefaultConfig(), scanner.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if len(base.Commands) == 0 {
		t.Fatal("no commands discovered under svc")
	}

	cfg := DefaultConfig()
	cfg.FollowSymlinks = true
	snap, err := Run(context.Background(), root, cfg, scanner.Builtin())
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Commands) != len(base.Commands) {
		t.Errorf("symlink into an already-scanned directory duplicated commands: got %d, want %d",
			len(snap.Commands), len(base.Commands))
	}
}

func TestRun_RootNotDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, root, "file", "")
	if _, err := Run(context.Background(), filepath.Join(root, "file"), DefaultConfig(), scanner.Builtin()); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}

func TestRun_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, projectTree(t), DefaultConfig(), scanner.Builtin()); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
