// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/palrun/palrun/pkg/runbook"
)

// Prompter supplies interactive answers during a run. Implementations
// live in the command layer; tests use fakes.
type Prompter interface {
	// Variable asks for one variable value.
	Variable(name string, spec runbook.VariableSpec) (string, error)
	// Confirm asks for approval before a confirm-gated step runs.
	Confirm(step, command string) (bool, error)
}

// resolveVariables produces the final variable values for a run.
// Precedence per variable: explicit override, then interactive prompt,
// then declared default. A variable referenced by any step must end up
// with a value; declared-but-unreferenced variables may stay unset
// unless marked required.
func resolveVariables(rb *runbook.Runbook, overrides map[string]string, prompter Prompter) (map[string]string, error) {
	for name := range overrides {
		if _, ok := rb.Variables[name]; !ok {
			return nil, fmt.Errorf("%w: %q is not declared by runbook %q", ErrUnknownVariable, name, rb.Name)
		}
	}

	referenced := make(map[string]bool)
	for _, name := range rb.ReferencedVariables() {
		referenced[name] = true
	}

	names := make([]string, 0, len(rb.Variables))
	for name := range rb.Variables {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(map[string]string)
	for _, name := range names {
		spec := rb.Variables[name]

		value, ok := overrides[name]
		if !ok && prompter != nil {
			answer, err := prompter.Variable(name, spec)
			if err != nil {
				return nil, fmt.Errorf("prompting for %q: %w", name, err)
			}
			if answer != "" {
				value, ok = answer, true
			}
		}
		if !ok && spec.Default != "" {
			value, ok = spec.Default, true
		}

		if !ok {
			if spec.Required || referenced[name] {
				return nil, &MissingRequiredVariableError{Variable: name}
			}
			continue
		}

		if err := checkValue(name, spec, value); err != nil {
			return nil, err
		}
		values[name] = value
	}
	return values, nil
}

// checkValue validates a resolved value against the variable's type.
func checkValue(name string, spec runbook.VariableSpec, value string) error {
	switch spec.EffectiveType() {
	case runbook.VarBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return &InvalidValueError{Variable: name, Value: value, Reason: "is not a boolean"}
		}
	case runbook.VarNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return &InvalidValueError{Variable: name, Value: value, Reason: "is not a number"}
		}
	case runbook.VarSelect:
		for _, opt := range spec.Options {
			if value == opt {
				return nil
			}
		}
		return &InvalidValueError{Variable: name, Value: value, Reason: "is not one of the declared options"}
	}
	return nil
}

// truthy implements condition truthiness: empty, "false", and "0" are
// false, everything else is true.
func truthy(value string) bool {
	return value != "" && value != "false" && value != "0"
}

// evalCondition evaluates a parsed step condition against the resolved
// values. Unresolved variables read as empty, which is falsy.
func evalCondition(expr string, values map[string]string) (bool, error) {
	cond, err := runbook.ParseCondition(expr)
	if err != nil {
		return false, err
	}

	value := values[cond.Variable]
	switch cond.Kind {
	case runbook.CondNot:
		return !truthy(value), nil
	case runbook.CondEq:
		return value == cond.Literal, nil
	case runbook.CondNeq:
		return value != cond.Literal, nil
	default:
		return truthy(value), nil
	}
}
