package tests

import "strings"

// lastLine returns the final non-empty line of s. The translation prompt
// ends with the source text, so for single-line sources this recovers the
// text the handler submitted.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
