package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

// ValidationIssue describes one problem found in a stored assessment
type ValidationIssue struct {
	AssessmentID model.AssessmentID `json:"assessment_id"`
	Field        string             `json:"field"`
	Message      string             `json:"message"`
}

// ValidationResult summarizes a consistency check over stored assessments
type ValidationResult struct {
	Checked int               `json:"checked"`
	Issues  []ValidationIssue `json:"issues"`
}

// OK reports whether the check found no issues
func (r *ValidationResult) OK() bool {
	return len(r.Issues) == 0
}

// ValidateStore checks every stored assessment for structural problems and
// for classification drift. Drift means the current rules classify the stored
// factors differently than the stored result, which happens when records
// predate a rule change.
func (uc *AssessmentUseCase) ValidateStore(ctx context.Context, opts ...interfaces.ListAssessmentOption) (*ValidationResult, error) {
	assessments, err := uc.repo.Assessment().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments for validation")
	}

	result := &ValidationResult{Checked: len(assessments)}

	for _, a := range assessments {
		if err := a.Validate(); err != nil {
			result.Issues = append(result.Issues, ValidationIssue{
				AssessmentID: a.ID,
				Field:        "record",
				Message:      err.Error(),
			})
		}

		current := model.ClassifyRisk(a.Factors)
		if current.Level != a.Classification.Level {
			result.Issues = append(result.Issues, ValidationIssue{
				AssessmentID: a.ID,
				Field:        "classification.level",
				Message: fmt.Sprintf("stored level %s differs from current rules (%s)",
					a.Classification.Level, current.Level),
			})
		}
		if current.OrgCapTriggered != a.Classification.OrgCapTriggered {
			result.Issues = append(result.Issues, ValidationIssue{
				AssessmentID: a.ID,
				Field:        "classification.orgCapTriggered",
				Message: fmt.Sprintf("stored guardrail flag %t differs from current rules (%t)",
					a.Classification.OrgCapTriggered, current.OrgCapTriggered),
			})
		}
	}

	return result, nil
}
