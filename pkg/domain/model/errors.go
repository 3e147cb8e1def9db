package model

import "github.com/m-mizutani/goerr/v2"

// Validation errors
var (
	ErrTraceTooShort    = goerr.New("decision trace has too few entries")
	ErrTraceTooLong     = goerr.New("decision trace has too many entries")
	ErrInvalidFactor    = goerr.New("invalid risk factor")
	ErrEmptyTitle       = goerr.New("proposal title cannot be empty")
	ErrEmptyFingerprint = goerr.New("assessment fingerprint cannot be empty")
)

// Context keys for error values
const (
	TraceLengthKey = "trace_length"
	TraceMinKey    = "trace_min"
	TraceMaxKey    = "trace_max"
	FactorKey      = "factor"
	FactorValueKey = "factor_value"
)

func goerrInvalidFactor(factor, value string) error {
	return goerr.Wrap(ErrInvalidFactor, "unknown enum member",
		goerr.V(FactorKey, factor),
		goerr.V(FactorValueKey, value))
}
