// SPDX-License-Identifier: MPL-2.0

package runbook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// runbookDirNames are the directories searched for runbook documents,
// relative to a project root, in precedence order.
var runbookDirNames = []string{
	filepath.Join(".palrun", "runbooks"),
	"runbooks",
}

// File is a runbook document found on disk. Err is set when the document
// failed to parse or validate; the runbook is nil in that case.
type File struct {
	Path    string
	Runbook *Runbook
	Err     error
}

// Parse reads and validates a runbook document from a file.
func Parse(path string) (*Runbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading runbook %s: %w", path, err)
	}
	rb, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing runbook %s: %w", path, err)
	}
	return rb, nil
}

// ParseBytes parses and validates a runbook document.
func ParseBytes(data []byte) (*Runbook, error) {
	var rb Runbook
	if err := yaml.Unmarshal(data, &rb); err != nil {
		return nil, fmt.Errorf("unmarshaling runbook: %w", err)
	}
	if err := rb.Validate(); err != nil {
		return nil, err
	}
	return &rb, nil
}

// Discover finds runbook documents under a project root. It checks
// .palrun/runbooks/ and runbooks/ for *.yml and *.yaml files. Documents
// that fail to parse are returned with Err set rather than aborting
// discovery of the rest.
func Discover(root string) []File {
	var files []File
	for _, dirName := range runbookDirNames {
		dir := filepath.Join(root, dirName)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml") {
				names = append(names, name)
			}
		}
		sort.Strings(names)

		for _, name := range names {
			path := filepath.Join(dir, name)
			rb, err := Parse(path)
			files = append(files, File{Path: path, Runbook: rb, Err: err})
		}
	}
	return files
}
