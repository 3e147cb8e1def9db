package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// AssessmentID is a UUID-based identifier for an Assessment
type AssessmentID string

// NewAssessmentID generates a new time-ordered UUID v7 AssessmentID
func NewAssessmentID() AssessmentID {
	return AssessmentID(uuid.Must(uuid.NewV7()).String())
}

// String returns the string representation of AssessmentID
func (id AssessmentID) String() string {
	return string(id)
}

// Assessment is a recorded risk assessment of a single proposal
type Assessment struct {
	ID             AssessmentID
	Fingerprint    string
	Proposal       Proposal
	Factors        RiskFactors
	Classification RiskClassification
	Trace          []string
	Summary        string
	ModelName      string
	CachedFrom     AssessmentID // ID of the record a cache hit was served from, empty on fresh runs
	CreatedAt      time.Time
}

// Validate checks the record invariants: identifiers present, factors
// and level well formed, trace within its finalized bounds.
func (a *Assessment) Validate() error {
	if a.ID == "" {
		return goerr.New("assessment ID cannot be empty")
	}
	if a.Fingerprint == "" {
		return ErrEmptyFingerprint
	}
	if err := a.Proposal.Validate(); err != nil {
		return goerr.Wrap(err, "invalid proposal", goerr.V("assessment_id", a.ID))
	}
	if err := a.Factors.Validate(); err != nil {
		return goerr.Wrap(err, "invalid factors", goerr.V("assessment_id", a.ID))
	}
	if !a.Classification.Level.IsValid() {
		return goerr.New("invalid risk level",
			goerr.V("assessment_id", a.ID),
			goerr.V("level", a.Classification.Level))
	}
	if err := ValidateTrace(a.Trace, TraceMinEntries, TraceMaxEntries); err != nil {
		return goerr.Wrap(err, "invalid decision trace", goerr.V("assessment_id", a.ID))
	}
	return nil
}
