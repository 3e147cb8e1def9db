package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/slack-go/slack"
)

// headerTextLimit is the Slack Block Kit limit for header block text
const headerTextLimit = 150

// client implements Service interface
type client struct {
	api       *slack.Client
	channelID string
}

// Option is a functional option for client configuration
type Option func(*client)

// New creates a new Slack service posting to the given channel
func New(token, channelID string, opts ...Option) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel ID is required")
	}

	c := &client{
		api:       slack.New(token),
		channelID: channelID,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NotifyAssessment posts a Block Kit summary of the assessment
func (c *client) NotifyAssessment(ctx context.Context, assessment *model.Assessment) error {
	blocks := buildAssessmentBlocks(assessment)
	fallbackText := fmt.Sprintf("[%s] %s", strings.ToUpper(assessment.Classification.Level.String()), assessment.Proposal.Title)

	_, _, err := c.api.PostMessageContext(ctx, c.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(fallbackText, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post assessment notification",
			goerr.V("channelID", c.channelID),
			goerr.V("assessmentID", assessment.ID),
		)
	}

	return nil
}

// levelEmoji maps a risk level to its notification emoji
func levelEmoji(level types.RiskLevel) string {
	switch level {
	case types.RiskLevelCritical:
		return ":rotating_light:"
	case types.RiskLevelHigh:
		return ":warning:"
	case types.RiskLevelMedium:
		return ":large_yellow_circle:"
	default:
		return ":large_green_circle:"
	}
}

// buildAssessmentBlocks constructs Block Kit blocks for an assessment notification
func buildAssessmentBlocks(assessment *model.Assessment) []slack.Block {
	level := assessment.Classification.Level

	headerText := truncateText(levelEmoji(level)+" "+assessment.Proposal.Title, headerTextLimit)
	blocks := []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, headerText, true, false),
		),
	}

	if assessment.Summary != "" {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, assessment.Summary, false, false),
			nil, nil,
		))
	}

	factors := assessment.Factors
	factorText := fmt.Sprintf("*Level:* %s\n*Scope:* %s / *Severity:* %s\n*Human impact:* %s / *Time sensitivity:* %s",
		level, factors.Scope, factors.Severity, factors.HumanImpact, factors.TimeSensitivity)
	if assessment.Classification.OrgCapTriggered {
		factorText += "\n:shield: Organization-wide change guardrail applied"
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, factorText, false, false),
		nil, nil,
	))

	if len(assessment.Trace) > 0 {
		var sb strings.Builder
		for i, entry := range assessment.Trace {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, entry)
		}
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, strings.TrimRight(sb.String(), "\n"), false, false),
		))
	}

	metaParts := []string{fmt.Sprintf("ID: %s", assessment.ID)}
	if assessment.Proposal.RequestedBy != "" {
		metaParts = append(metaParts, "Requested by: "+assessment.Proposal.RequestedBy)
	}
	if assessment.Proposal.Source.Ref != "" {
		metaParts = append(metaParts, fmt.Sprintf("Source: %s %s", assessment.Proposal.Source.Kind, assessment.Proposal.Source.Ref))
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, strings.Join(metaParts, "  |  "), false, false),
	))

	return blocks
}

// truncateText shortens s to at most max runes, ending with an ellipsis when truncated
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
