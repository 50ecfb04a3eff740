// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"path/filepath"
	"strings"
)

// isWindowsShell reports whether a shell path refers to the named Windows
// shell, with or without the .exe suffix.
func isWindowsShell(shell, name string) bool {
	base := strings.ToLower(filepath.Base(shell))
	return base == name || base == name+".exe"
}
