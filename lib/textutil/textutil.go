package textutil

import (
	"strings"
)

// NormalizeProfessor turns a professor name as shown by the portal into the
// identity used to deduplicate professors, the portal renders missing
// second surnames as a literal " null".
func NormalizeProfessor(name string) string {
	name = strings.ReplaceAll(name, " null", "")
	return strings.Join(strings.Fields(name), " ")
}

// SplitLines splits text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	out := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
