// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes commands with an embedded POSIX shell
// interpreter, without depending on a system shell.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return "virtual"
}

// Available returns true; the interpreter is built in.
func (r *VirtualRuntime) Available() bool {
	return true
}

// Execute runs one command in the embedded interpreter.
func (r *VirtualRuntime) Execute(ctx context.Context, spec Spec) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(spec.Command), "command")
	if err != nil {
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to parse command: %w", err)}
	}

	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	outW := spec.Stdout
	if outW == nil {
		outW = &stdout
	}
	errW := spec.Stderr
	if errW == nil {
		errW = &stderr
	}
	var stdin io.Reader = spec.Stdin

	env := append(os.Environ(), EnvToSlice(spec.Env)...)
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(stdin, outW, errW),
	}
	if spec.WorkDir != "" {
		opts = append(opts, interp.Dir(spec.WorkDir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	start := time.Now()
	runErr := runner.Run(ctx, prog)

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
		var exitStatus interp.ExitStatus
		if errors.As(runErr, &exitStatus) {
			result.ExitCode = int(exitStatus)
		} else {
			result.ExitCode = 1
			result.Err = fmt.Errorf("command execution failed: %w", runErr)
		}
	}
	return result
}
