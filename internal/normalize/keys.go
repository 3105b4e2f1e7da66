package normalize

import (
	"strconv"
	"strings"
)

// ToLowerDotPath normalizes an environment key to a lowercase dot-separated path.
// Double underscores (__) separate a rule name from an option name.
// Single underscores within a level are preserved.
// Examples:
//   - "ARRAY_SYNTAX" → "array_syntax"
//   - "ARRAY_SYNTAX__SYNTAX" → "array_syntax.syntax"
//   - "ORDERED_IMPORTS__SORT_ALGORITHM" → "ordered_imports.sort_algorithm"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// SplitPath splits a dot path into its first level and the remainder.
// Examples:
//   - "array_syntax.syntax" → ("array_syntax", "syntax")
//   - "no_useless_else" → ("no_useless_else", "")
func SplitPath(path string) (head, rest string) {
	head, rest, _ = strings.Cut(path, ".")
	return head, rest
}

// Key trims and lowercases an identifier such as a track name or profile key.
func Key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Version normalizes a textual version to "major.minor".
// A leading "v" is dropped and patch levels are ignored.
// Undotted digits are read as major then a single minor digit.
// Examples:
//   - "8.3" → "8.3"
//   - "v7.4.2" → "7.4"
//   - "8" → "8.0"
//   - "83" → "8.3"
//   - "100" → "10.0"
//
// Input that is not a version is returned trimmed and lowercased.
func Version(s string) string {
	v := Key(s)
	v = strings.TrimPrefix(v, "v")

	if major, rest, dotted := strings.Cut(v, "."); dotted {
		minor, _, _ := strings.Cut(rest, ".")
		if !isDigits(major) || !isDigits(minor) {
			return v
		}
		return format(major, minor)
	}

	if !isDigits(v) {
		return v
	}
	if len(v) == 1 {
		return format(v, "0")
	}
	return format(v[:len(v)-1], v[len(v)-1:])
}

func format(major, minor string) string {
	ma, _ := strconv.Atoi(major)
	mi, _ := strconv.Atoi(minor)
	return strconv.Itoa(ma) + "." + strconv.Itoa(mi)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
