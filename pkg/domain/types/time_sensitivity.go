package types

import "fmt"

// TimeSensitivity represents how urgently a proposed change takes effect
type TimeSensitivity string

const (
	TimeSensitivityLongTerm  TimeSensitivity = "long_term"
	TimeSensitivityShortTerm TimeSensitivity = "short_term"
	TimeSensitivityImmediate TimeSensitivity = "immediate"
	TimeSensitivityCritical  TimeSensitivity = "critical"
)

var timeSensitivityRanks = map[TimeSensitivity]int{
	TimeSensitivityLongTerm:  0,
	TimeSensitivityShortTerm: 1,
	TimeSensitivityImmediate: 2,
	TimeSensitivityCritical:  3,
}

// AllTimeSensitivities returns all valid time sensitivities in ascending
// rank order
func AllTimeSensitivities() []TimeSensitivity {
	return []TimeSensitivity{
		TimeSensitivityLongTerm,
		TimeSensitivityShortTerm,
		TimeSensitivityImmediate,
		TimeSensitivityCritical,
	}
}

// IsValid checks if the time sensitivity is valid
func (t TimeSensitivity) IsValid() bool {
	_, ok := timeSensitivityRanks[t]
	return ok
}

// Rank returns the ordinal rank of the time sensitivity. Unknown values
// rank 0.
func (t TimeSensitivity) Rank() int {
	return timeSensitivityRanks[t]
}

// String returns the string representation of the time sensitivity
func (t TimeSensitivity) String() string {
	return string(t)
}

// ParseTimeSensitivity parses a string into a TimeSensitivity
func ParseTimeSensitivity(s string) (TimeSensitivity, error) {
	ts := TimeSensitivity(s)
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid time sensitivity: %s", s)
	}
	return ts, nil
}

// NormalizeTimeSensitivity maps a raw model output to a TimeSensitivity.
// Unrecognized values fall back to TimeSensitivityLongTerm; the second
// return value is false when the fallback was taken.
func NormalizeTimeSensitivity(raw string) (TimeSensitivity, bool) {
	ts := TimeSensitivity(foldOrdinal(raw))
	if !ts.IsValid() {
		return TimeSensitivityLongTerm, false
	}
	return ts, true
}
