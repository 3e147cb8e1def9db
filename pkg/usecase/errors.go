package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidProposal    = errors.New("invalid proposal")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

// Context keys for error values
const (
	AssessmentIDKey = "assessment_id"
	FingerprintKey  = "fingerprint"
)
