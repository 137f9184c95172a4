package memoryfile

import "strings"

// field and multiValue are the AICF grammar's reserved delimiters
// (spec.md §3). Any occurrence of either inside a value must be replaced
// by a visually similar substitute before writing — a lossy but
// deterministic transform, distinct from internal/redact's secret
// redaction marker so the two are never confused when auditing output.
const (
	fieldDelim      = "|"
	multiValueDelim = ";"
)

// escapeField replaces reserved delimiter and newline characters inside a
// single value, per spec.md §3's "visually similar substitute" rule.
func escapeField(s string) string {
	s = strings.ReplaceAll(s, "|", "¦")
	s = strings.ReplaceAll(s, ";", "︔")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}

// unescapeField reverses escapeField's delimiter substitution. The
// newline/carriage-return substitution is lossy and not reversed — a
// value's original line breaks are never recovered, only its reserved
// delimiters.
func unescapeField(s string) string {
	s = strings.ReplaceAll(s, "¦", "|")
	s = strings.ReplaceAll(s, "︔", ";")
	return s
}
