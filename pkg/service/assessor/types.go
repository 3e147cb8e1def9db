package assessor

import (
	"context"

	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
)

// Service defines the interface for drafting qualitative risk assessments
type Service interface {
	// Draft asks the LLM to rate a proposed change on the four risk
	// dimensions and to explain its reasoning. The returned values are
	// raw model output and must be normalized before classification.
	Draft(ctx context.Context, input Input) (*RawAssessment, error)

	// ModelName reports the model identifier recorded with each assessment
	ModelName() string
}

// Input represents a proposed change to assess
type Input struct {
	Proposal model.Proposal
	Category *config.Category // Optional context shown to the model
	Team     *config.Team     // Optional context shown to the model
}

// RawAssessment is the structured output from the LLM. Dimension values
// are free-form strings until normalized by the domain layer.
type RawAssessment struct {
	Scope           string   `json:"scope"`
	Severity        string   `json:"severity"`
	HumanImpact     string   `json:"human_impact"`
	TimeSensitivity string   `json:"time_sensitivity"`
	Rationale       []string `json:"rationale"`
	Summary         string   `json:"summary"`
}
