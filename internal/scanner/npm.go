// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/palrun/palrun/pkg/command"
)

// NpmScanner discovers package.json scripts. The package manager used for
// the generated commands is chosen by lockfile precedence: bun, then pnpm,
// then yarn, falling back to npm.
type NpmScanner struct{}

// packageJSON is the subset of package.json the scanner reads.
type packageJSON struct {
	Name    string            `json:"name"`
	Scripts map[string]string `json:"scripts"`
}

// Name implements Scanner.
func (s *NpmScanner) Name() string { return "npm" }

// FilePatterns implements Scanner.
func (s *NpmScanner) FilePatterns() []string { return []string{"package.json"} }

// Detect implements Scanner.
func (s *NpmScanner) Detect(dir string) bool { return fileExists(dir, "package.json") }

// Scan implements Scanner.
func (s *NpmScanner) Scan(dir string) ([]command.Command, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, fmt.Errorf("reading package.json: %w", err)
	}

	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	manager := detectPackageManager(dir)
	var commands []command.Command

	scriptNames := maps.Keys(pkg.Scripts)
	sort.Strings(scriptNames)
	for _, name := range scriptNames {
		commands = append(commands, command.Command{
			Name:        fmt.Sprintf("%s run %s", manager, name),
			Text:        runScriptCommand(manager, name),
			Description: pkg.Scripts[name],
			Source:      command.SourceNpm,
			Tags:        []string{"npm", "script"},
		})
	}

	for _, op := range []struct{ verb, desc string }{
		{"install", "Install dependencies"},
		{"update", "Update dependencies"},
		{"outdated", "Check for outdated packages"},
	} {
		text := manager + " " + op.verb
		commands = append(commands, command.Command{
			Name:        text,
			Text:        text,
			Description: op.desc,
			Source:      command.SourceNpm,
			Tags:        []string{"npm", "package-manager"},
		})
	}

	return commands, nil
}

// detectPackageManager picks the package manager by lockfile precedence.
func detectPackageManager(dir string) string {
	switch {
	case fileExists(dir, "bun.lockb"):
		return "bun"
	case fileExists(dir, "pnpm-lock.yaml"):
		return "pnpm"
	case fileExists(dir, "yarn.lock"):
		return "yarn"
	default:
		return "npm"
	}
}

// runScriptCommand builds the invocation for a declared script.
// yarn and pnpm accept the script name directly; bun and npm need "run".
func runScriptCommand(manager, script string) string {
	switch manager {
	case "yarn", "pnpm":
		return fmt.Sprintf("%s %s", manager, script)
	case "bun":
		return fmt.Sprintf("bun run %s", script)
	default:
		return fmt.Sprintf("npm run %s", script)
	}
}
