package assessor

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

//go:embed prompt/assess_system.md
var systemPrompt string

//go:embed prompt/assess_user.md
var userPromptTmpl string

var userPrompt = template.Must(template.New("assess_user").Parse(userPromptTmpl))

// DefaultModelName is recorded with assessments unless overridden
const DefaultModelName = "gemini-2.5-flash"

// client implements Service interface
type client struct {
	llmClient gollem.LLMClient
	modelName string
}

// Option is a functional option for client configuration
type Option func(*client)

// WithModelName overrides the model identifier recorded with assessments
func WithModelName(name string) Option {
	return func(c *client) {
		if name != "" {
			c.modelName = name
		}
	}
}

// New creates a new assessor service with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &client{
		llmClient: llmClient,
		modelName: DefaultModelName,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// ModelName reports the model identifier recorded with assessments
func (c *client) ModelName() string {
	return c.modelName
}

// Draft asks the LLM for a structured risk rating of the proposed change
func (c *client) Draft(ctx context.Context, input Input) (*RawAssessment, error) {
	prompt, err := buildUserPrompt(input)
	if err != nil {
		return nil, err
	}

	schema := buildResponseSchema()

	// Create session with JSON response type and system prompt
	session, err := c.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
		gollem.WithSessionSystemPrompt(systemPrompt),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate assessment")
	}

	if len(resp.Texts) == 0 {
		return nil, goerr.New("assessment generation returned empty result")
	}

	var raw RawAssessment
	if err := json.Unmarshal([]byte(resp.Texts[0]), &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse assessment JSON",
			goerr.V("response", resp.Texts[0]),
		)
	}

	return &raw, nil
}

// userPromptData holds the rendered fields for the user prompt template
type userPromptData struct {
	Title       string
	Description string
	Category    string
	Team        string
	RequestedBy string
	Source      string
}

// buildUserPrompt renders the proposal into the user prompt
func buildUserPrompt(input Input) (string, error) {
	data := userPromptData{
		Title:       input.Proposal.Title,
		Description: input.Proposal.Description,
		RequestedBy: input.Proposal.RequestedBy,
	}

	if input.Category != nil {
		data.Category = input.Category.Name
		if input.Category.Description != "" {
			data.Category = fmt.Sprintf("%s (%s)", input.Category.Name, input.Category.Description)
		}
	}
	if input.Team != nil {
		data.Team = input.Team.Name
	}
	if input.Proposal.Source.Ref != "" {
		data.Source = fmt.Sprintf("%s %s", input.Proposal.Source.Kind, input.Proposal.Source.Ref)
	}

	var buf bytes.Buffer
	if err := userPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute assessment prompt template")
	}

	return buf.String(), nil
}

// buildResponseSchema creates the JSON schema for structured output.
// Dimension values are constrained to the known ordinal labels, though
// the caller still normalizes the response before classification.
func buildResponseSchema() *gollem.Parameter {
	scopes := make([]string, 0, len(types.AllScopes()))
	for _, v := range types.AllScopes() {
		scopes = append(scopes, v.String())
	}
	severities := make([]string, 0, len(types.AllSeverities()))
	for _, v := range types.AllSeverities() {
		severities = append(severities, v.String())
	}
	impacts := make([]string, 0, len(types.AllHumanImpacts()))
	for _, v := range types.AllHumanImpacts() {
		impacts = append(impacts, v.String())
	}
	sensitivities := make([]string, 0, len(types.AllTimeSensitivities()))
	for _, v := range types.AllTimeSensitivities() {
		sensitivities = append(sensitivities, v.String())
	}

	return &gollem.Parameter{
		Title:       "ChangeRiskAssessment",
		Description: "Qualitative risk rating of a proposed organizational change",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"scope": {
				Type:        gollem.TypeString,
				Description: "Breadth of who or what the change affects",
				Enum:        scopes,
				Required:    true,
			},
			"severity": {
				Type:        gollem.TypeString,
				Description: "Worst plausible harm if the change goes wrong",
				Enum:        severities,
				Required:    true,
			},
			"human_impact": {
				Type:        gollem.TypeString,
				Description: "Degree of harm to people",
				Enum:        impacts,
				Required:    true,
			},
			"time_sensitivity": {
				Type:        gollem.TypeString,
				Description: "How quickly consequences would materialize if the change goes wrong",
				Enum:        sensitivities,
				Required:    true,
			},
			"rationale": {
				Type:        gollem.TypeArray,
				Description: "3 to 5 short statements explaining the rating, most significant first",
				Items: &gollem.Parameter{
					Type: gollem.TypeString,
				},
				Required: true,
			},
			"summary": {
				Type:        gollem.TypeString,
				Description: "One-line plain text summary of the assessed risk. No markdown.",
				Required:    true,
			},
		},
	}
}
