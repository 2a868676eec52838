// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  4841 ", "7011", "4841", "", "  "})
//	// Returns: []string{"4841", "7011"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, func(s string) string { return s })
}

// DedupeAndTrimUpper is like DedupeAndTrim but also upper-cases each element.
// State codes and industry codes are compared in this form.
//
// Example:
//
//	DedupeAndTrimUpper([]string{" nv", "CA", "Nv"})
//	// Returns: []string{"NV", "CA"}
func DedupeAndTrimUpper(values []string) []string {
	return dedupe(values, strings.ToUpper)
}

// UnionUpper merges two lists with DedupeAndTrimUpper semantics, keeping the
// order of a first and appending unseen values of b.
func UnionUpper(a, b []string) []string {
	merged := make([]string, 0, len(a)+len(b))
	merged = append(merged, a...)
	merged = append(merged, b...)
	return DedupeAndTrimUpper(merged)
}

func dedupe(values []string, transform func(string) string) []string {
	if len(values) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := transform(strings.TrimSpace(v))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
