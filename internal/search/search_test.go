// SPDX-License-Identifier: MPL-2.0

package search

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/palrun/palrun/internal/scan"
	"github.com/palrun/palrun/pkg/command"
)

func snapshot(root string, commands ...command.Command) *scan.Snapshot {
	return &scan.Snapshot{Root: root, Commands: commands}
}

func cmd(text, origin string) command.Command {
	return command.Command{Name: text, Text: text, Origin: origin, WorkDir: origin}
}

func names(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Command.Name
	}
	return out
}

func TestSearch_SmartCase(t *testing.T) {
	t.Parallel()

	snap := snapshot("/repo",
		cmd("make Test", "/repo"),
		cmd("make test", "/repo"),
	)

	// Lowercase query matches both casings.
	got := Search("test", snap, Options{Mode: scan.SmartCase})
	if len(got) != 2 {
		t.Fatalf("lowercase query: got %v", names(got))
	}

	// An uppercase rune makes the query case-sensitive.
	got = Search("Test", snap, Options{Mode: scan.SmartCase})
	if len(got) != 1 || got[0].Command.Name != "make Test" {
		t.Fatalf("uppercase query: got %v", names(got))
	}
}

func TestSearch_CaseModes(t *testing.T) {
	t.Parallel()

	snap := snapshot("/repo", cmd("make test", "/repo"))

	if got := Search("Test", snap, Options{Mode: scan.CaseInsensitive}); len(got) != 1 {
		t.Errorf("insensitive mode: got %v", names(got))
	}
	if got := Search("Test", snap, Options{Mode: scan.CaseSensitive}); len(got) != 0 {
		t.Errorf("sensitive mode: got %v", names(got))
	}
	if got := Search("test", snap, Options{Mode: scan.CaseSensitive}); len(got) != 1 {
		t.Errorf("sensitive mode, matching case: got %v", names(got))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	t.Parallel()

	snap := snapshot("/repo",
		cmd("zz last", "/repo"),
		cmd("aa first", "/repo"),
		cmd("mm middle", "/repo"),
	)

	got := Search("", snap, Options{})
	if len(got) != 3 {
		t.Fatalf("empty query should match everything, got %v", names(got))
	}
	for i, m := range got {
		if m.Score != 0 {
			t.Errorf("empty query score should be neutral, got %d", m.Score)
		}
		if m.Index != i {
			t.Errorf("empty query should keep discovery order, got %v", names(got))
		}
	}

	// The score floor does not apply to the neutral empty-query score.
	if got := Search("", snap, Options{MinScore: 50}); len(got) != 3 {
		t.Errorf("floor applied to empty query: got %v", names(got))
	}
}

func TestSearch_MinScore(t *testing.T) {
	t.Parallel()

	snap := snapshot("/repo", cmd("make build", "/repo"))
	if got := Search("build", snap, Options{MinScore: math.MaxInt}); len(got) != 0 {
		t.Errorf("floor not applied: got %v", names(got))
	}
}

func TestSearch_ProximityRanking(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	far := filepath.Join(root, "services", "billing")
	near := filepath.Join(root, "web")

	// Identical texts tie on score; proximity must break the tie.
	snap := snapshot(root,
		cmd("npm run dev", far),
		cmd("npm run dev", near),
	)

	got := Search("dev", snap, Options{ContextEnabled: true, CurrentDir: near})
	if len(got) != 2 {
		t.Fatalf("got %v", names(got))
	}
	if got[0].Command.Origin != near {
		t.Errorf("nearby command should rank first, got origin %s", got[0].Command.Origin)
	}

	// Without context, the tie falls back to discovery order.
	got = Search("dev", snap, Options{})
	if got[0].Command.Origin != far {
		t.Errorf("context disabled should keep discovery order, got origin %s", got[0].Command.Origin)
	}
}

func TestSearch_StableTies(t *testing.T) {
	t.Parallel()

	snap := snapshot("/repo",
		cmd("go test ./...", "/repo"),
		cmd("go test ./...", "/repo"),
		cmd("go test ./...", "/repo"),
	)
	got := Search("go test", snap, Options{})
	for i, m := range got {
		if m.Index != i {
			t.Fatalf("ties must keep snapshot order, got indices %v", names(got))
		}
	}
}

func TestProximityBonus(t *testing.T) {
	t.Parallel()

	root := "/repo"
	tests := []struct {
		name            string
		current, origin string
		want            int
	}{
		{"same directory", "/repo/web", "/repo/web", 100},
		{"origin is parent", "/repo/web", "/repo", 80},
		{"sibling directories", "/repo/web", "/repo/api", 60},
		{"deep separation clamps to zero", "/repo/a/b/c", "/repo/x/y/z", 0},
		{"current outside root", "/elsewhere", "/repo/web", 0},
		{"origin outside root", "/repo/web", "/elsewhere", 0},
		{"both at root", "/repo", "/repo", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			current := filepath.FromSlash(tt.current)
			origin := filepath.FromSlash(tt.origin)
			if got := proximityBonus(filepath.FromSlash(root), current, origin); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsSubsequence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		query, text string
		want        bool
	}{
		{"", "anything", true},
		{"mkb", "make build", true},
		{"make build", "make build", true},
		{"bm", "make build", false},
		{"Make", "make build", false},
	}
	for _, tt := range tests {
		if got := isSubsequence(tt.query, tt.text); got != tt.want {
			t.Errorf("isSubsequence(%q, %q) = %v, want %v", tt.query, tt.text, got, tt.want)
		}
	}
}
