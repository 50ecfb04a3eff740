// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"regexp"
)

// tokenPattern mirrors the runbook token grammar: {{name}} with optional
// inner whitespace.
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// interpolate substitutes {{name}} tokens with resolved values. Every
// referenced variable is guaranteed resolved by the time this runs, so an
// unknown token is left in place rather than silently dropped.
func interpolate(s string, values map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		name := tokenPattern.FindStringSubmatch(token)[1]
		if value, ok := values[name]; ok {
			return value
		}
		return token
	})
}

// interpolateEnv substitutes tokens in every environment value.
func interpolateEnv(env map[string]string, values map[string]string) map[string]string {
	if len(env) == 0 {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = interpolate(v, values)
	}
	return out
}
