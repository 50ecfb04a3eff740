// SPDX-License-Identifier: MPL-2.0

package runbook

import (
	"errors"
	"testing"
)

func TestParseCondition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want Condition
	}{
		{"skip_tests", Condition{Kind: CondTruthy, Variable: "skip_tests"}},
		{"!skip_tests", Condition{Kind: CondNot, Variable: "skip_tests"}},
		{"! skip_tests", Condition{Kind: CondNot, Variable: "skip_tests"}},
		{"env == prod", Condition{Kind: CondEq, Variable: "env", Literal: "prod"}},
		{"env == 'prod'", Condition{Kind: CondEq, Variable: "env", Literal: "prod"}},
		{`env == "prod"`, Condition{Kind: CondEq, Variable: "env", Literal: "prod"}},
		{"env != staging", Condition{Kind: CondNeq, Variable: "env", Literal: "staging"}},
		{"  env==prod  ", Condition{Kind: CondEq, Variable: "env", Literal: "prod"}},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCondition(tt.expr)
			if err != nil {
				t.Fatalf("ParseCondition(%q) error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("ParseCondition(%q) = %+v, want %+v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParseCondition_Invalid(t *testing.T) {
	t.Parallel()

	exprs := []string{
		"",
		"   ",
		"!",
		"a && b",
		"env ==",
		"== prod",
		"1env == prod",
		"env = prod",
		"!(env == prod)",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			t.Parallel()
			_, err := ParseCondition(expr)
			if !errors.Is(err, ErrInvalidCondition) {
				t.Errorf("ParseCondition(%q) = %v, want ErrInvalidCondition", expr, err)
			}
		})
	}
}
