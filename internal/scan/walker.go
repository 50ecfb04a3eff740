// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/palrun/palrun/internal/scanner"
	"github.com/palrun/palrun/pkg/command"
)

// visit is one directory selected by the walk, in deterministic order.
type visit struct {
	dir     string
	depth   int
	entries map[string]bool
}

// Run walks root under cfg and scans every visited directory with the
// registry's scanners. Directory enumeration is sequential and sorted, so
// the visit order is deterministic; the per-directory scans run in
// parallel and are merged back in visit order. Scanner failures become
// Diagnostics, never walk failures.
func Run(ctx context.Context, root string, cfg Config, reg *scanner.Registry) (*Snapshot, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root: %w", err)
	}
	if info, err := os.Stat(absRoot); err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", absRoot)
	}

	visits, err := enumerate(ctx, absRoot, cfg)
	if err != nil {
		return nil, err
	}

	results := make([]dirResult, len(visits))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, v := range visits {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = scanDir(v, reg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{Root: absRoot}
	for _, r := range results {
		snap.Commands = append(snap.Commands, r.commands...)
		snap.Diagnostics = append(snap.Diagnostics, r.diagnostics...)
	}
	return snap, nil
}

// dirResult holds the output of scanning a single directory.
type dirResult struct {
	commands    []command.Command
	diagnostics []Diagnostic
}

// scanDir runs every matching scanner against one directory.
func scanDir(v visit, reg *scanner.Registry) (r dirResult) {
	for _, s := range reg.Scanners() {
		if !matchesAny(v.entries, s.FilePatterns()) {
			continue
		}
		if !s.Detect(v.dir) {
			continue
		}
		commands, err := s.Scan(v.dir)
		if err != nil {
			r.diagnostics = append(r.diagnostics, Diagnostic{
				Scanner: s.Name(),
				Dir:     v.dir,
				Err:     err,
			})
			continue
		}
		for i := range commands {
			commands[i].Origin = v.dir
			commands[i].Depth = v.depth
			if commands[i].WorkDir == "" {
				commands[i].WorkDir = v.dir
			}
		}
		r.commands = append(r.commands, commands...)
	}
	return r
}

// enumerate lists the directories to visit, depth-first with sorted
// entries. Excluded names are pruned wherever they appear. Symlinked
// directories are only followed when configured; every visited directory
// is recorded by canonical path so a symlink into an already-walked
// directory is not re-entered.
func enumerate(ctx context.Context, root string, cfg Config) ([]visit, error) {
	visited := make(map[string]bool)

	var visits []visit
	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if cfg.FollowSymlinks {
			canon, err := filepath.EvalSymlinks(dir)
			if err != nil || visited[canon] {
				return nil
			}
			visited[canon] = true
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			// Unreadable directories are skipped, not fatal.
			return nil
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		names := make(map[string]bool, len(entries))
		for _, e := range entries {
			names[e.Name()] = true
		}
		visits = append(visits, visit{dir: dir, depth: depth, entries: names})

		if !cfg.Recursive || depth >= cfg.MaxDepth {
			return nil
		}

		for _, e := range entries {
			if cfg.excluded(e.Name()) {
				continue
			}

			child := filepath.Join(dir, e.Name())
			isDir := e.IsDir()
			if !isDir && e.Type()&os.ModeSymlink != 0 {
				if !cfg.FollowSymlinks {
					continue
				}
				info, err := os.Stat(child)
				if err != nil || !info.IsDir() {
					continue
				}
				isDir = true
			}
			if !isDir {
				continue
			}
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root, 0); err != nil {
		return nil, err
	}
	return visits, nil
}

// matchesAny reports whether any scanner file pattern matches a directory
// entry name. Patterns are plain names or globs.
func matchesAny(entries map[string]bool, patterns []string) bool {
	for _, p := range patterns {
		if entries[p] {
			return true
		}
		for name := range entries {
			if ok, err := filepath.Match(p, name); err == nil && ok {
				return true
			}
		}
	}
	return false
}
