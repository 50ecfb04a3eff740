// SPDX-License-Identifier: MPL-2.0

// Package runbook defines the YAML schema for declarative multi-step
// workflows and validates parsed documents before execution.
package runbook

import "regexp"

const (
	// VarString is a free-form string variable.
	VarString VarType = "string"
	// VarBoolean is a true/false variable.
	VarBoolean VarType = "boolean"
	// VarNumber is a numeric variable.
	VarNumber VarType = "number"
	// VarSelect is a variable constrained to an ordered option set.
	VarSelect VarType = "select"
)

type (
	// VarType is the declared type of a runbook variable.
	VarType string

	// Runbook is a declarative, variable-parameterized workflow definition.
	Runbook struct {
		// Name identifies the runbook. Required.
		Name string `yaml:"name"`
		// Description explains what the runbook does.
		Description string `yaml:"description,omitempty"`
		// Version of the runbook document.
		Version string `yaml:"version,omitempty"`
		// Author of the runbook.
		Author string `yaml:"author,omitempty"`
		// Variables maps variable name to its specification.
		Variables map[string]VariableSpec `yaml:"variables,omitempty"`
		// Steps execute strictly in declared order. Required, non-empty.
		Steps []Step `yaml:"steps"`
	}

	// VariableSpec declares one runbook variable.
	VariableSpec struct {
		// Type of the variable. Defaults to string when omitted.
		Type VarType `yaml:"type,omitempty"`
		// Prompt shown when resolving the variable interactively.
		Prompt string `yaml:"prompt,omitempty"`
		// Default value, as written in the document.
		Default string `yaml:"default,omitempty"`
		// Required marks the variable as mandatory.
		Required bool `yaml:"required,omitempty"`
		// Options is the ordered option set for select variables.
		Options []string `yaml:"options,omitempty"`
	}

	// Step is one command in a runbook.
	Step struct {
		// Name identifies the step in results and error messages.
		Name string `yaml:"name"`
		// Command is the shell command template. May contain {{var}} tokens.
		Command string `yaml:"command"`
		// Description explains what the step does.
		Description string `yaml:"description,omitempty"`
		// Condition gates execution ("!name", "name == lit", "name != lit",
		// or bare truthiness). Empty means always run.
		Condition string `yaml:"condition,omitempty"`
		// Confirm requests explicit approval before running (interactive
		// runs only).
		Confirm bool `yaml:"confirm,omitempty"`
		// Optional steps never abort the run when they fail or are declined.
		Optional bool `yaml:"optional,omitempty"`
		// ContinueOnError records a failure and proceeds to the next step.
		ContinueOnError bool `yaml:"continue_on_error,omitempty"`
		// Timeout bounds step execution, in seconds. Zero means unbounded.
		Timeout int `yaml:"timeout,omitempty"`
		// WorkingDir overrides the working directory. May contain tokens.
		WorkingDir string `yaml:"working_dir,omitempty"`
		// Env sets environment variables. Values may contain tokens.
		Env map[string]string `yaml:"env,omitempty"`
	}
)

// tokenPattern matches {{variable_name}} interpolation tokens.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Tokens returns the variable names referenced by {{name}} tokens in s,
// in order of first appearance.
func Tokens(s string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// ReferencedVariables returns every variable name referenced by any step
// field that supports interpolation (command, working_dir, env values) or
// by a step condition.
func (r *Runbook) ReferencedVariables() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(vars []string) {
		for _, v := range vars {
			if !seen[v] {
				seen[v] = true
				names = append(names, v)
			}
		}
	}
	for _, step := range r.Steps {
		add(Tokens(step.Command))
		add(Tokens(step.WorkingDir))
		for _, v := range step.Env {
			add(Tokens(v))
		}
		if step.Condition != "" {
			if v := conditionVariable(step.Condition); v != "" {
				add([]string{v})
			}
		}
	}
	return names
}

// IsValid reports whether the variable type is one of the declared set.
func (t VarType) IsValid() bool {
	switch t {
	case VarString, VarBoolean, VarNumber, VarSelect:
		return true
	default:
		return false
	}
}

// effectiveType returns the variable type, defaulting to string.
func (v VariableSpec) effectiveType() VarType {
	if v.Type == "" {
		return VarString
	}
	return v.Type
}

// EffectiveType returns the declared type, defaulting to string when the
// document omits it.
func (v VariableSpec) EffectiveType() VarType { return v.effectiveType() }
