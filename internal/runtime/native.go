// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// NativeRuntime executes commands using the system's default shell.
type NativeRuntime struct {
	// Shell overrides the default shell.
	Shell string
}

// NewNativeRuntime creates a new native runtime.
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return "native"
}

// Available returns whether a usable shell exists.
func (r *NativeRuntime) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Execute runs one command through the system shell. The command's whole
// process group is killed on timeout or cancellation so child processes
// do not linger.
func (r *NativeRuntime) Execute(ctx context.Context, spec Spec) *Result {
	shell, err := r.getShell()
	if err != nil {
		return &Result{ExitCode: 1, Err: err}
	}

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	args := append(shellArgs(shell), spec.Command)
	cmd := exec.CommandContext(ctx, shell, args...)
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	cmd.Env = append(os.Environ(), EnvToSlice(spec.Env)...)
	cmd.WaitDelay = 5 * time.Second
	setProcGroup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = spec.Stdin
	if cmd.Stdout = spec.Stdout; cmd.Stdout == nil {
		cmd.Stdout = &stdout
	}
	if cmd.Stderr = spec.Stderr; cmd.Stderr == nil {
		cmd.Stderr = &stderr
	}

	start := time.Now()
	runErr := cmd.Run()

	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
		Duration:  time.Since(start),
		TimedOut:  errors.Is(ctx.Err(), context.DeadlineExceeded),
	}

	switch {
	case runErr == nil:
	case result.TimedOut:
		result.ExitCode = 1
		result.Err = fmt.Errorf("command timed out after %s: %w", spec.Timeout, ctx.Err())
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
			result.Err = fmt.Errorf("failed to execute command: %w", runErr)
		}
	}
	return result
}

// getShell determines which shell to use.
func (r *NativeRuntime) getShell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}

	switch runtime.GOOS {
	case "windows":
		// Try PowerShell first, then cmd.
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		// Unix-like: use SHELL env var, or fall back to common shells.
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", fmt.Errorf("no shell found")
	}
}

// shellArgs returns the arguments that make a shell run one command string.
func shellArgs(shell string) []string {
	switch {
	case isWindowsShell(shell, "cmd"):
		return []string{"/C"}
	case isWindowsShell(shell, "pwsh"), isWindowsShell(shell, "powershell"):
		return []string{"-NoProfile", "-Command"}
	default:
		return []string{"-c"}
	}
}
