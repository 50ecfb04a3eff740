// SPDX-License-Identifier: MPL-2.0

package runbook

import (
	"errors"
	"testing"
)

func validRunbook() *Runbook {
	return &Runbook{
		Name: "test",
		Variables: map[string]VariableSpec{
			"environment": {Type: VarSelect, Options: []string{"staging", "production"}, Default: "staging"},
			"replicas":    {Type: VarNumber, Default: "3"},
			"skip_tests":  {Type: VarBoolean, Default: "false"},
		},
		Steps: []Step{
			{Name: "build", Command: "make build"},
			{Name: "deploy", Command: "deploy --env={{environment}}", Condition: "!skip_tests"},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	t.Parallel()

	if err := validRunbook().Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
}

func TestValidate_Structural(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Runbook)
	}{
		{"missing name", func(r *Runbook) { r.Name = "" }},
		{"no steps", func(r *Runbook) { r.Steps = nil }},
		{"unnamed step", func(r *Runbook) { r.Steps[0].Name = "" }},
		{"step without command", func(r *Runbook) { r.Steps[0].Command = "" }},
		{"negative timeout", func(r *Runbook) { r.Steps[0].Timeout = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rb := validRunbook()
			tt.mutate(rb)
			err := rb.Validate()
			if !errors.Is(err, ErrInvalidRunbook) {
				t.Errorf("Validate() = %v, want ErrInvalidRunbook", err)
			}
		})
	}
}

func TestValidate_UndefinedVariable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Runbook)
	}{
		{"command token", func(r *Runbook) { r.Steps[0].Command = "echo {{missing}}" }},
		{"working_dir token", func(r *Runbook) { r.Steps[0].WorkingDir = "{{missing}}/src" }},
		{"env token", func(r *Runbook) { r.Steps[0].Env = map[string]string{"X": "{{missing}}"} }},
		{"condition variable", func(r *Runbook) { r.Steps[0].Condition = "missing == yes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rb := validRunbook()
			tt.mutate(rb)
			err := rb.Validate()
			if !errors.Is(err, ErrUndefinedVariable) {
				t.Fatalf("Validate() = %v, want ErrUndefinedVariable", err)
			}
			var ue *UndefinedVariableError
			if !errors.As(err, &ue) {
				t.Fatalf("error is not *UndefinedVariableError: %v", err)
			}
			if ue.Variable != "missing" {
				t.Errorf("Variable = %q, want %q", ue.Variable, "missing")
			}
		})
	}
}

func TestValidate_VariableSpecs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Runbook)
	}{
		{"select without options", func(r *Runbook) {
			r.Variables["environment"] = VariableSpec{Type: VarSelect}
		}},
		{"select default not an option", func(r *Runbook) {
			r.Variables["environment"] = VariableSpec{Type: VarSelect, Options: []string{"staging"}, Default: "prod"}
		}},
		{"number default not numeric", func(r *Runbook) {
			r.Variables["replicas"] = VariableSpec{Type: VarNumber, Default: "many"}
		}},
		{"boolean default not boolean", func(r *Runbook) {
			r.Variables["skip_tests"] = VariableSpec{Type: VarBoolean, Default: "maybe"}
		}},
		{"unknown type", func(r *Runbook) {
			r.Variables["skip_tests"] = VariableSpec{Type: "enum"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rb := validRunbook()
			tt.mutate(rb)
			err := rb.Validate()
			if !errors.Is(err, ErrInvalidVariableSpec) {
				t.Errorf("Validate() = %v, want ErrInvalidVariableSpec", err)
			}
		})
	}
}

func TestValidate_InvalidCondition(t *testing.T) {
	t.Parallel()

	rb := validRunbook()
	rb.Steps[0].Condition = "a && b"
	if err := rb.Validate(); !errors.Is(err, ErrInvalidCondition) {
		t.Errorf("Validate() = %v, want ErrInvalidCondition", err)
	}
}

func TestReferencedVariables(t *testing.T) {
	t.Parallel()

	rb := validRunbook()
	rb.Steps[1].Env = map[string]string{"REPLICAS": "{{replicas}}"}

	got := rb.ReferencedVariables()
	want := map[string]bool{"environment": true, "skip_tests": true, "replicas": true}
	if len(got) != len(want) {
		t.Fatalf("ReferencedVariables() = %v, want keys %v", got, want)
	}
	for _, name := range got {
		if !want[name] {
			t.Errorf("unexpected referenced variable %q", name)
		}
	}
}
