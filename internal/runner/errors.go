// SPDX-License-Identifier: MPL-2.0

// Package runner executes validated runbooks: it resolves variables,
// evaluates step conditions, and drives steps through a runtime in
// declared order.
package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingRequiredVariable is the sentinel wrapped by
	// MissingRequiredVariableError.
	ErrMissingRequiredVariable = errors.New("missing required variable")

	// ErrInvalidValue is the sentinel wrapped by InvalidValueError.
	ErrInvalidValue = errors.New("invalid variable value")

	// ErrUnknownVariable reports an override for a variable the runbook
	// does not declare.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrRunbookFailed is the sentinel wrapped by RunbookFailedError.
	ErrRunbookFailed = errors.New("runbook failed")
)

type (
	// MissingRequiredVariableError reports a variable that could not be
	// resolved from any source.
	MissingRequiredVariableError struct {
		Variable string
	}

	// InvalidValueError reports a resolved value that does not fit the
	// variable's declared type.
	InvalidValueError struct {
		Variable string
		Value    string
		Reason   string
	}

	// RunbookFailedError reports the step that aborted a run.
	RunbookFailedError struct {
		Step  string
		Cause error
	}
)

// Error implements the error interface.
func (e *MissingRequiredVariableError) Error() string {
	return fmt.Sprintf("variable %q has no value and no default", e.Variable)
}

// Unwrap returns ErrMissingRequiredVariable for errors.Is compatibility.
func (e *MissingRequiredVariableError) Unwrap() error { return ErrMissingRequiredVariable }

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("variable %q: value %q %s", e.Variable, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidValue for errors.Is compatibility.
func (e *InvalidValueError) Unwrap() error { return ErrInvalidValue }

// Error implements the error interface.
func (e *RunbookFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("step %q failed: %v", e.Step, e.Cause)
	}
	return fmt.Sprintf("step %q failed", e.Step)
}

// Unwrap returns the step failure cause chained behind ErrRunbookFailed.
func (e *RunbookFailedError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrRunbookFailed, e.Cause}
	}
	return []error{ErrRunbookFailed}
}
