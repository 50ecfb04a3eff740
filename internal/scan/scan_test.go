// SPDX-License-Identifier: MPL-2.0

package scan

import "testing"

func TestParseCaseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token string
		want  CaseMode
	}{
		{"case_sensitive", CaseSensitive},
		{"case_insensitive", CaseInsensitive},
		{"smart_case", SmartCase},
		{"sensitive", CaseSensitive},
		{"insensitive", CaseInsensitive},
		{"smart", SmartCase},
		{"", SmartCase},
		{"bogus", SmartCase},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			t.Parallel()
			if got := ParseCaseMode(tt.token); got != tt.want {
				t.Errorf("ParseCaseMode(%q) = %q, want %q", tt.token, got, tt.want)
			}
		})
	}
}
