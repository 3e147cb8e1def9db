package interfaces

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

// AssessmentRepository persists assessment records. Implementations
// return their package-level ErrNotFound when a record is missing.
type AssessmentRepository interface {
	// Create stores a new assessment record, assigning an ID and creation
	// time when absent, and returns the stored copy
	Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves an assessment by ID
	Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error)

	// GetByFingerprint retrieves the newest assessment for a proposal
	// fingerprint. A fingerprint with no records yields nil without an
	// error, unlike Get a miss here is the ordinary case
	GetByFingerprint(ctx context.Context, fingerprint string) (*model.Assessment, error)

	// List retrieves assessments, newest first
	List(ctx context.Context, opts ...ListAssessmentOption) ([]*model.Assessment, error)
}
