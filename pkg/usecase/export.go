package usecase

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// exportRecord is the flattened JSON Lines form of a stored assessment
type exportRecord struct {
	ID              string                `json:"id"`
	Fingerprint     string                `json:"fingerprint"`
	Title           string                `json:"title"`
	Description     string                `json:"description,omitempty"`
	CategoryID      string                `json:"category_id,omitempty"`
	TeamID          string                `json:"team_id,omitempty"`
	RequestedBy     string                `json:"requested_by,omitempty"`
	SourceKind      string                `json:"source_kind,omitempty"`
	SourceRef       string                `json:"source_ref,omitempty"`
	Scope           types.Scope           `json:"scope"`
	Severity        types.Severity        `json:"severity"`
	HumanImpact     types.HumanImpact     `json:"human_impact"`
	TimeSensitivity types.TimeSensitivity `json:"time_sensitivity"`
	Level           types.RiskLevel       `json:"level"`
	OrgCapTriggered bool                  `json:"org_cap_triggered"`
	Trace           []string              `json:"trace"`
	Summary         string                `json:"summary,omitempty"`
	ModelName       string                `json:"model_name,omitempty"`
	CachedFrom      string                `json:"cached_from,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

func newExportRecord(a *model.Assessment) exportRecord {
	return exportRecord{
		ID:              string(a.ID),
		Fingerprint:     a.Fingerprint,
		Title:           a.Proposal.Title,
		Description:     a.Proposal.Description,
		CategoryID:      string(a.Proposal.CategoryID),
		TeamID:          string(a.Proposal.TeamID),
		RequestedBy:     a.Proposal.RequestedBy,
		SourceKind:      string(a.Proposal.Source.Kind),
		SourceRef:       a.Proposal.Source.Ref,
		Scope:           a.Factors.Scope,
		Severity:        a.Factors.Severity,
		HumanImpact:     a.Factors.HumanImpact,
		TimeSensitivity: a.Factors.TimeSensitivity,
		Level:           a.Classification.Level,
		OrgCapTriggered: a.Classification.OrgCapTriggered,
		Trace:           a.Trace,
		Summary:         a.Summary,
		ModelName:       a.ModelName,
		CachedFrom:      string(a.CachedFrom),
		CreatedAt:       a.CreatedAt,
	}
}

// Export writes stored assessments to w as JSON Lines, one flattened record
// per line, and returns how many were written.
func (uc *AssessmentUseCase) Export(ctx context.Context, w io.Writer, opts ...interfaces.ListAssessmentOption) (int, error) {
	assessments, err := uc.repo.Assessment().List(ctx, opts...)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list assessments for export")
	}

	enc := json.NewEncoder(w)
	for i, a := range assessments {
		if err := enc.Encode(newExportRecord(a)); err != nil {
			return i, goerr.Wrap(err, "failed to encode assessment", goerr.V(AssessmentIDKey, a.ID))
		}
	}

	return len(assessments), nil
}
