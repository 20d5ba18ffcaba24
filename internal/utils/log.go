package utils

import "strings"

// TruncateForLog shortens s to limit runes for a single-line log preview.
// Runs of whitespace, newlines included, collapse to one space and an ellipsis marks truncation.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
