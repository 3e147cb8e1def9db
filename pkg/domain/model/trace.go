package model

import "github.com/m-mizutani/goerr/v2"

// A finalized decision trace carries between TraceMinEntries and
// TraceMaxEntries entries inclusive.
const (
	TraceMinEntries = 3
	TraceMaxEntries = 5
)

// BoundTrace returns the leading maxLength entries of the trace, dropping
// the tail. The input slice is never mutated and the result shares no
// storage with it. A negative maxLength is treated as zero.
func BoundTrace(trace []string, maxLength int) []string {
	if maxLength < 0 {
		maxLength = 0
	}
	n := len(trace)
	if n > maxLength {
		n = maxLength
	}
	out := make([]string, n)
	copy(out, trace[:n])
	return out
}

// AppendWithBound appends note as the final entry of the trace, first
// truncating to the leading maxLength-1 entries so the result never
// exceeds maxLength. With maxLength 1 the result is just the note; with
// maxLength 0 or less the result is empty. The input slice is never
// mutated.
func AppendWithBound(trace []string, note string, maxLength int) []string {
	if maxLength <= 0 {
		return []string{}
	}
	out := BoundTrace(trace, maxLength-1)
	return append(out, note)
}

// ValidateTrace checks that a finalized trace length is within
// [minEntries, maxEntries]. The returned error carries the actual and
// expected counts.
func ValidateTrace(trace []string, minEntries, maxEntries int) error {
	if len(trace) < minEntries {
		return goerr.Wrap(ErrTraceTooShort, "decision trace below minimum length",
			goerr.V(TraceLengthKey, len(trace)),
			goerr.V(TraceMinKey, minEntries))
	}
	if len(trace) > maxEntries {
		return goerr.Wrap(ErrTraceTooLong, "decision trace above maximum length",
			goerr.V(TraceLengthKey, len(trace)),
			goerr.V(TraceMaxKey, maxEntries))
	}
	return nil
}
