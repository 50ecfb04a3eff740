// SPDX-License-Identifier: MPL-2.0

//go:build windows

package runtime

import (
	"os/exec"
)

// setProcGroup is a no-op on Windows; exec.CommandContext's default kill
// is used.
func setProcGroup(cmd *exec.Cmd) {}
