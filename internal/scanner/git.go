// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"github.com/palrun/palrun/pkg/command"
)

// GitScanner emits common git commands for repository roots. It keys off
// the .git directory, so nested worktrees each get their own set.
type GitScanner struct{}

// Name implements Scanner.
func (s *GitScanner) Name() string { return "git" }

// FilePatterns implements Scanner.
func (s *GitScanner) FilePatterns() []string { return []string{".git"} }

// Detect implements Scanner.
func (s *GitScanner) Detect(dir string) bool { return dirExists(dir, ".git") }

// Scan implements Scanner.
func (s *GitScanner) Scan(dir string) ([]command.Command, error) {
	var commands []command.Command
	for _, op := range []struct{ text, desc string }{
		{"git status", "Show the working tree status"},
		{"git pull", "Fetch and integrate remote changes"},
		{"git push", "Push local commits to the remote"},
		{"git fetch --all --prune", "Fetch all remotes and prune stale branches"},
		{"git log --oneline -20", "Show the last 20 commits"},
		{"git diff", "Show unstaged changes"},
		{"git stash", "Stash local changes"},
		{"git stash pop", "Restore the most recent stash"},
	} {
		commands = append(commands, command.Command{
			Name:        op.text,
			Text:        op.text,
			Description: op.desc,
			Source:      command.SourceGit,
			Tags:        []string{"git"},
		})
	}
	return commands, nil
}
