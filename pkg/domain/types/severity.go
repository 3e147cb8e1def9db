package types

import "fmt"

// Severity represents how bad the outcome of a proposed change could be
type Severity string

const (
	SeverityMinor        Severity = "minor"
	SeverityModerate     Severity = "moderate"
	SeverityMajor        Severity = "major"
	SeverityCatastrophic Severity = "catastrophic"
)

var severityRanks = map[Severity]int{
	SeverityMinor:        0,
	SeverityModerate:     1,
	SeverityMajor:        2,
	SeverityCatastrophic: 3,
}

// AllSeverities returns all valid severities in ascending rank order
func AllSeverities() []Severity {
	return []Severity{
		SeverityMinor,
		SeverityModerate,
		SeverityMajor,
		SeverityCatastrophic,
	}
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	_, ok := severityRanks[s]
	return ok
}

// Rank returns the ordinal rank of the severity. Unknown severities rank 0.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity parses a string into a Severity
func ParseSeverity(s string) (Severity, error) {
	severity := Severity(s)
	if !severity.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", s)
	}
	return severity, nil
}

// NormalizeSeverity maps a raw model output to a Severity. Unrecognized
// values fall back to SeverityModerate; the second return value is false
// when the fallback was taken.
func NormalizeSeverity(raw string) (Severity, bool) {
	severity := Severity(foldOrdinal(raw))
	if !severity.IsValid() {
		return SeverityModerate, false
	}
	return severity, true
}
