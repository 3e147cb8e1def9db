package types

import "strings"

// foldOrdinal canonicalizes a raw ordinal value before enum matching:
// case folded, surrounding space trimmed, inner spaces and hyphens
// collapsed to underscores ("Short-Term" and "short term" both become
// "short_term").
func foldOrdinal(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.ReplaceAll(v, "-", "_")
	v = strings.ReplaceAll(v, " ", "_")
	return v
}
