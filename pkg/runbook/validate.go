// SPDX-License-Identifier: MPL-2.0

package runbook

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidRunbook is the sentinel error wrapped by structural
	// validation failures (missing name, no steps, malformed steps).
	ErrInvalidRunbook = errors.New("invalid runbook")
	// ErrUndefinedVariable is the sentinel error wrapped by UndefinedVariableError.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrInvalidVariableSpec is the sentinel error wrapped by InvalidVariableSpecError.
	ErrInvalidVariableSpec = errors.New("invalid variable spec")
)

type (
	// UndefinedVariableError reports a {{token}} or condition referencing a
	// variable the runbook does not declare.
	UndefinedVariableError struct {
		Variable string
		Step     string
	}

	// InvalidVariableSpecError reports a malformed variable declaration
	// (bad select options, non-numeric number default, unknown type).
	InvalidVariableSpecError struct {
		Variable string
		Reason   string
	}
)

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("step %q references undefined variable %q", e.Step, e.Variable)
}

// Unwrap returns ErrUndefinedVariable for errors.Is compatibility.
func (e *UndefinedVariableError) Unwrap() error { return ErrUndefinedVariable }

// Error implements the error interface.
func (e *InvalidVariableSpecError) Error() string {
	return fmt.Sprintf("variable %q: %s", e.Variable, e.Reason)
}

// Unwrap returns ErrInvalidVariableSpec for errors.Is compatibility.
func (e *InvalidVariableSpecError) Unwrap() error { return ErrInvalidVariableSpec }

// Validate checks the runbook before any side effect: structure, variable
// specifications, condition grammar, and that every referenced variable is
// declared. A runbook that passes Validate can proceed to variable
// resolution.
func (r *Runbook) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: runbook name is required", ErrInvalidRunbook)
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("%w: runbook %q has no steps", ErrInvalidRunbook, r.Name)
	}

	for i, step := range r.Steps {
		if step.Name == "" {
			return fmt.Errorf("%w: step %d has no name", ErrInvalidRunbook, i+1)
		}
		if step.Command == "" {
			return fmt.Errorf("%w: step %q has no command", ErrInvalidRunbook, step.Name)
		}
		if step.Timeout < 0 {
			return fmt.Errorf("%w: step %q has negative timeout", ErrInvalidRunbook, step.Name)
		}
	}

	for name, spec := range r.Variables {
		if err := validateVariableSpec(name, spec); err != nil {
			return err
		}
	}

	return r.validateReferences()
}

func validateVariableSpec(name string, spec VariableSpec) error {
	typ := spec.effectiveType()
	if !typ.IsValid() {
		return &InvalidVariableSpecError{Variable: name, Reason: fmt.Sprintf("unknown type %q", spec.Type)}
	}

	switch typ {
	case VarSelect:
		if len(spec.Options) == 0 {
			return &InvalidVariableSpecError{Variable: name, Reason: "select variable has no options"}
		}
		if spec.Default != "" && !contains(spec.Options, spec.Default) {
			return &InvalidVariableSpecError{
				Variable: name,
				Reason:   fmt.Sprintf("default %q is not one of the declared options", spec.Default),
			}
		}
	case VarNumber:
		if spec.Default != "" {
			if _, err := strconv.ParseFloat(spec.Default, 64); err != nil {
				return &InvalidVariableSpecError{
					Variable: name,
					Reason:   fmt.Sprintf("default %q is not numeric", spec.Default),
				}
			}
		}
	case VarBoolean:
		if spec.Default != "" {
			if _, err := strconv.ParseBool(spec.Default); err != nil {
				return &InvalidVariableSpecError{
					Variable: name,
					Reason:   fmt.Sprintf("default %q is not a boolean", spec.Default),
				}
			}
		}
	}

	return nil
}

// validateReferences checks every interpolation token and condition against
// the declared variable set. This is the fail-fast boundary: an undefined
// reference anywhere prevents any step from running.
func (r *Runbook) validateReferences() error {
	for _, step := range r.Steps {
		fields := []string{step.Command, step.WorkingDir}
		for _, v := range step.Env {
			fields = append(fields, v)
		}
		for _, field := range fields {
			for _, name := range Tokens(field) {
				if _, ok := r.Variables[name]; !ok {
					return &UndefinedVariableError{Variable: name, Step: step.Name}
				}
			}
		}

		if step.Condition != "" {
			cond, err := ParseCondition(step.Condition)
			if err != nil {
				return fmt.Errorf("step %q: %w", step.Name, err)
			}
			if _, ok := r.Variables[cond.Variable]; !ok {
				return &UndefinedVariableError{Variable: cond.Variable, Step: step.Name}
			}
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
