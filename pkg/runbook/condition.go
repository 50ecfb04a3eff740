// SPDX-License-Identifier: MPL-2.0

package runbook

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// CondTruthy is a bare variable reference, true when the value is truthy.
	CondTruthy CondKind = iota
	// CondNot is a negated variable reference ("!name").
	CondNot
	// CondEq compares a variable against a literal ("name == value").
	CondEq
	// CondNeq is the negated comparison ("name != value").
	CondNeq
)

// ErrInvalidCondition is the sentinel error wrapped by InvalidConditionError.
var ErrInvalidCondition = errors.New("invalid condition")

type (
	// CondKind discriminates the closed set of condition expressions. The
	// grammar is intentionally minimal: negation, equality, inequality, and
	// bare truthiness. No general expression evaluator.
	CondKind int

	// Condition is a parsed step condition.
	Condition struct {
		// Kind selects the expression form.
		Kind CondKind
		// Variable is the referenced variable name.
		Variable string
		// Literal is the comparison operand for CondEq/CondNeq.
		Literal string
	}

	// InvalidConditionError reports a condition that does not fit the grammar.
	InvalidConditionError struct {
		Expr   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidConditionError) Error() string {
	return fmt.Sprintf("invalid condition %q: %s", e.Expr, e.Reason)
}

// Unwrap returns ErrInvalidCondition for errors.Is compatibility.
func (e *InvalidConditionError) Unwrap() error { return ErrInvalidCondition }

// ParseCondition parses a step condition expression into its tagged form.
func ParseCondition(expr string) (Condition, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return Condition{}, &InvalidConditionError{Expr: expr, Reason: "empty expression"}
	}

	if rest, ok := strings.CutPrefix(trimmed, "!"); ok {
		name := strings.TrimSpace(rest)
		if !isVariableName(name) {
			return Condition{}, &InvalidConditionError{Expr: expr, Reason: "negation must reference a bare variable"}
		}
		return Condition{Kind: CondNot, Variable: name}, nil
	}

	// != must be checked before == so "a != b" is not split on "=".
	if name, lit, ok := splitComparison(trimmed, "!="); ok {
		cond, err := comparison(CondNeq, expr, name, lit)
		return cond, err
	}
	if name, lit, ok := splitComparison(trimmed, "=="); ok {
		cond, err := comparison(CondEq, expr, name, lit)
		return cond, err
	}

	if !isVariableName(trimmed) {
		return Condition{}, &InvalidConditionError{Expr: expr, Reason: "not a variable name or comparison"}
	}
	return Condition{Kind: CondTruthy, Variable: trimmed}, nil
}

func splitComparison(expr, op string) (name, literal string, ok bool) {
	idx := strings.Index(expr, op)
	if idx < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(expr[:idx])
	literal = strings.TrimSpace(expr[idx+len(op):])
	return name, literal, true
}

func comparison(kind CondKind, expr, name, literal string) (Condition, error) {
	if !isVariableName(name) {
		return Condition{}, &InvalidConditionError{Expr: expr, Reason: "left operand must be a variable name"}
	}
	if literal == "" {
		return Condition{}, &InvalidConditionError{Expr: expr, Reason: "missing comparison literal"}
	}
	return Condition{Kind: kind, Variable: name, Literal: unquote(literal)}, nil
}

// unquote strips one level of matching single or double quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func isVariableName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// conditionVariable returns the variable referenced by a condition, or ""
// when the expression does not parse. Validation reports the parse error
// separately; this helper only feeds the referenced-variable set.
func conditionVariable(expr string) string {
	cond, err := ParseCondition(expr)
	if err != nil {
		return ""
	}
	return cond.Variable
}
