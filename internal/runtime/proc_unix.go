// SPDX-License-Identifier: MPL-2.0

//go:build unix

package runtime

import (
	"os/exec"
	"syscall"
)

// setProcGroup puts the command in its own process group and makes
// cancellation kill the whole group, so shell children die with the shell.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
