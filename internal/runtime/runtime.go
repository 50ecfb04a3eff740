// SPDX-License-Identifier: MPL-2.0

// Package runtime provides the step execution runtime interface and
// implementations.
package runtime

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Runtime type constants for the execution environments.
const (
	TypeNative  Type = "native"
	TypeVirtual Type = "virtual"
)

type (
	// Type identifies a runtime implementation.
	Type string

	// Spec describes one command execution.
	Spec struct {
		// Command is the shell command text to run.
		Command string
		// WorkDir is the working directory; empty means the caller's.
		WorkDir string
		// Env holds additional environment variables set for the command.
		Env map[string]string
		// Timeout bounds the execution; zero means unbounded.
		Timeout time.Duration
		// Stdin, Stdout, Stderr are the command's I/O streams. Nil
		// writers capture into the Result instead.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result contains the outcome of one command execution.
	Result struct {
		// ExitCode is the command's exit code.
		ExitCode int
		// Err is any failure outside the command's own exit status.
		Err error
		// Output contains captured stdout when no writer was supplied.
		Output string
		// ErrOutput contains captured stderr when no writer was supplied.
		ErrOutput string
		// TimedOut reports whether the timeout expired.
		TimedOut bool
		// Duration is the wall-clock execution time.
		Duration time.Duration
	}

	// Runtime executes commands in one environment.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Available reports whether this runtime can run on the system.
		Available() bool
		// Execute runs one command to completion.
		Execute(ctx context.Context, spec Spec) *Result
	}

	// Registry holds the available runtimes.
	Registry struct {
		runtimes map[Type]Runtime
	}
)

// Success reports whether the command completed with exit code 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && r.Err == nil
}

// NewRegistry creates an empty runtime registry.
func NewRegistry() *Registry {
	return &Registry{runtimes: make(map[Type]Runtime)}
}

// DefaultRegistry returns a registry with the native and virtual runtimes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(TypeNative, NewNativeRuntime())
	r.Register(TypeVirtual, NewVirtualRuntime())
	return r
}

// Register adds a runtime to the registry.
func (r *Registry) Register(typ Type, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type.
func (r *Registry) Get(typ Type) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("runtime '%s' not registered", typ)
	}
	return rt, nil
}

// Available returns the types of every runtime usable on this system.
func (r *Registry) Available() []Type {
	var types []Type
	for typ, rt := range r.runtimes {
		if rt.Available() {
			types = append(types, typ)
		}
	}
	return types
}

// EnvToSlice converts an environment map to KEY=value form.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}
