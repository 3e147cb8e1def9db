package slack

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

// Service provides interface to Slack API for assessment notifications
type Service interface {
	// NotifyAssessment posts a Block Kit summary of the assessment to the
	// configured channel. Callers decide which assessments warrant a post.
	NotifyAssessment(ctx context.Context, assessment *model.Assessment) error
}
