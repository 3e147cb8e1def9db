package slack_test

import (
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	slacksvc "github.com/secmon-lab/themis/pkg/service/slack"
	goslack "github.com/slack-go/slack"
)

func testAssessment() *model.Assessment {
	return &model.Assessment{
		ID:          model.NewAssessmentID(),
		Fingerprint: strings.Repeat("a", 64),
		Proposal: model.Proposal{
			Title:       "Migrate billing database to a new region",
			Description: "Move the primary billing database",
			RequestedBy: "j.doe@example.com",
			Source: model.Source{
				Kind: model.SourceKindGitHub,
				Ref:  "https://github.com/acme/billing/pull/42",
			},
		},
		Factors: model.RiskFactors{
			Scope:           types.ScopeOrganization,
			Severity:        types.SeverityMajor,
			HumanImpact:     types.HumanImpactLimited,
			TimeSensitivity: types.TimeSensitivityShortTerm,
		},
		Classification: model.RiskClassification{
			Level:           types.RiskLevelMedium,
			OrgCapTriggered: true,
		},
		Trace: []string{
			"The change affects every internal billing consumer",
			"A failed migration is recoverable from standby replicas",
			"Risk capped at medium for a routine organization-wide change",
		},
		Summary:   "Organization-wide database migration with a tested rollback path.",
		ModelName: "gemini-2.5-flash",
		CreatedAt: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

func TestNew(t *testing.T) {
	t.Run("requires token", func(t *testing.T) {
		_, err := slacksvc.New("", "C0123456")
		gt.Error(t, err)
	})

	t.Run("requires channel", func(t *testing.T) {
		_, err := slacksvc.New("xoxb-dummy", "")
		gt.Error(t, err)
	})

	t.Run("creates service", func(t *testing.T) {
		svc, err := slacksvc.New("xoxb-dummy", "C0123456")
		gt.NoError(t, err)
		gt.Value(t, svc).NotNil()
	})
}

func TestBuildAssessmentBlocks(t *testing.T) {
	t.Run("header carries level emoji and title", func(t *testing.T) {
		blocks := slacksvc.BuildAssessmentBlocks(testAssessment())
		gt.Number(t, len(blocks)).GreaterOrEqual(3)

		header, ok := blocks[0].(*goslack.HeaderBlock)
		if !ok {
			t.Fatalf("expected header block, got %T", blocks[0])
		}
		gt.String(t, header.Text.Text).Contains("Migrate billing database")
		gt.String(t, header.Text.Text).Contains(":large_yellow_circle:")
	})

	t.Run("summary appears in its own section", func(t *testing.T) {
		blocks := slacksvc.BuildAssessmentBlocks(testAssessment())

		section, ok := blocks[1].(*goslack.SectionBlock)
		if !ok {
			t.Fatalf("expected section block, got %T", blocks[1])
		}
		gt.String(t, section.Text.Text).Contains("tested rollback path")
	})

	t.Run("factor section reports guardrail", func(t *testing.T) {
		blocks := slacksvc.BuildAssessmentBlocks(testAssessment())

		section, ok := blocks[2].(*goslack.SectionBlock)
		if !ok {
			t.Fatalf("expected section block, got %T", blocks[2])
		}
		gt.String(t, section.Text.Text).Contains("*Level:* medium")
		gt.String(t, section.Text.Text).Contains("organization")
		gt.String(t, section.Text.Text).Contains("guardrail")
	})

	t.Run("guardrail line absent when not triggered", func(t *testing.T) {
		assessment := testAssessment()
		assessment.Classification.OrgCapTriggered = false

		blocks := slacksvc.BuildAssessmentBlocks(assessment)
		section, ok := blocks[2].(*goslack.SectionBlock)
		if !ok {
			t.Fatalf("expected section block, got %T", blocks[2])
		}
		if strings.Contains(section.Text.Text, "guardrail") {
			t.Errorf("factor section should not mention guardrail: %s", section.Text.Text)
		}
	})

	t.Run("summary section omitted when empty", func(t *testing.T) {
		assessment := testAssessment()
		assessment.Summary = ""

		blocks := slacksvc.BuildAssessmentBlocks(assessment)
		section, ok := blocks[1].(*goslack.SectionBlock)
		if !ok {
			t.Fatalf("expected section block, got %T", blocks[1])
		}
		gt.String(t, section.Text.Text).Contains("*Level:*")
	})
}

func TestLevelEmoji(t *testing.T) {
	cases := map[types.RiskLevel]string{
		types.RiskLevelLow:      ":large_green_circle:",
		types.RiskLevelMedium:   ":large_yellow_circle:",
		types.RiskLevelHigh:     ":warning:",
		types.RiskLevelCritical: ":rotating_light:",
	}

	for level, want := range cases {
		gt.Value(t, slacksvc.LevelEmoji(level)).Equal(want)
	}
}

func TestTruncateText(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		gt.Value(t, slacksvc.TruncateText("hello", 10)).Equal("hello")
	})

	t.Run("exact length unchanged", func(t *testing.T) {
		gt.Value(t, slacksvc.TruncateText("hello", 5)).Equal("hello")
	})

	t.Run("long text truncated with ellipsis", func(t *testing.T) {
		got := slacksvc.TruncateText(strings.Repeat("x", 200), 150)
		gt.Number(t, len([]rune(got))).Equal(150)
		gt.Bool(t, strings.HasSuffix(got, "…")).True()
	})

	t.Run("multibyte text truncated on rune boundary", func(t *testing.T) {
		got := slacksvc.TruncateText(strings.Repeat("あ", 200), 150)
		gt.Number(t, len([]rune(got))).Equal(150)
	})
}
