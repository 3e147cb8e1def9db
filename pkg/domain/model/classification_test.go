package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestClassifyRisk(t *testing.T) {
	tests := []struct {
		name       string
		factors    model.RiskFactors
		wantLevel  types.RiskLevel
		wantOrgCap bool
	}{
		{
			name: "organization cap holds exactly at its thresholds",
			factors: model.RiskFactors{
				Scope:           types.ScopeOrganization,
				Severity:        types.SeverityMajor,
				HumanImpact:     types.HumanImpactLimited,
				TimeSensitivity: types.TimeSensitivityShortTerm,
			},
			wantLevel:  types.RiskLevelMedium,
			wantOrgCap: true,
		},
		{
			name: "single scope caps a major urgent change at medium",
			factors: model.RiskFactors{
				Scope:           types.ScopeSingle,
				Severity:        types.SeverityMajor,
				HumanImpact:     types.HumanImpactLimited,
				TimeSensitivity: types.TimeSensitivityImmediate,
			},
			wantLevel: types.RiskLevelMedium,
		},
		{
			name: "benign single scope change is low",
			factors: model.RiskFactors{
				Scope:           types.ScopeSingle,
				Severity:        types.SeverityModerate,
				HumanImpact:     types.HumanImpactNone,
				TimeSensitivity: types.TimeSensitivityShortTerm,
			},
			wantLevel: types.RiskLevelLow,
		},
		{
			name: "catastrophic severity escalates regardless of scope",
			factors: model.RiskFactors{
				Scope:           types.ScopeTeam,
				Severity:        types.SeverityCatastrophic,
				HumanImpact:     types.HumanImpactLimited,
				TimeSensitivity: types.TimeSensitivityShortTerm,
			},
			wantLevel: types.RiskLevelCritical,
		},
		{
			name: "national scope with major severity escalates",
			factors: model.RiskFactors{
				Scope:           types.ScopeNational,
				Severity:        types.SeverityMajor,
				HumanImpact:     types.HumanImpactLimited,
				TimeSensitivity: types.TimeSensitivityShortTerm,
			},
			wantLevel: types.RiskLevelCritical,
		},
		{
			name: "significant impact breaks the organization cap",
			factors: model.RiskFactors{
				Scope:           types.ScopeOrganization,
				Severity:        types.SeverityMajor,
				HumanImpact:     types.HumanImpactSignificant,
				TimeSensitivity: types.TimeSensitivityImmediate,
			},
			wantLevel: types.RiskLevelHigh,
		},
		{
			name: "national scope alone reaches high",
			factors: model.RiskFactors{
				Scope:           types.ScopeNational,
				Severity:        types.SeverityModerate,
				HumanImpact:     types.HumanImpactLimited,
				TimeSensitivity: types.TimeSensitivityShortTerm,
			},
			wantLevel: types.RiskLevelHigh,
		},
		{
			name: "mass casualty escalates regardless of everything else",
			factors: model.RiskFactors{
				Scope:           types.ScopeSingle,
				Severity:        types.SeverityMinor,
				HumanImpact:     types.HumanImpactMassCasualty,
				TimeSensitivity: types.TimeSensitivityLongTerm,
			},
			wantLevel: types.RiskLevelCritical,
		},
		{
			name: "critical urgency with major severity escalates",
			factors: model.RiskFactors{
				Scope:           types.ScopeTeam,
				Severity:        types.SeverityMajor,
				HumanImpact:     types.HumanImpactNone,
				TimeSensitivity: types.TimeSensitivityCritical,
			},
			wantLevel: types.RiskLevelCritical,
		},
		{
			name: "critical urgency with moderate severity does not escalate",
			factors: model.RiskFactors{
				Scope:           types.ScopeTeam,
				Severity:        types.SeverityModerate,
				HumanImpact:     types.HumanImpactNone,
				TimeSensitivity: types.TimeSensitivityCritical,
			},
			wantLevel: types.RiskLevelMedium,
		},
		{
			name: "single major factor lands on medium",
			factors: model.RiskFactors{
				Scope:           types.ScopeTeam,
				Severity:        types.SeverityMajor,
				HumanImpact:     types.HumanImpactNone,
				TimeSensitivity: types.TimeSensitivityShortTerm,
			},
			wantLevel: types.RiskLevelMedium,
		},
		{
			name: "two major factors land on high",
			factors: model.RiskFactors{
				Scope:           types.ScopeTeam,
				Severity:        types.SeverityModerate,
				HumanImpact:     types.HumanImpactSignificant,
				TimeSensitivity: types.TimeSensitivityImmediate,
			},
			wantLevel: types.RiskLevelHigh,
		},
		{
			name: "quiet team scope change is low",
			factors: model.RiskFactors{
				Scope:           types.ScopeTeam,
				Severity:        types.SeverityModerate,
				HumanImpact:     types.HumanImpactLimited,
				TimeSensitivity: types.TimeSensitivityShortTerm,
			},
			wantLevel: types.RiskLevelLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.ClassifyRisk(tt.factors)
			gt.V(t, got.Level).Equal(tt.wantLevel)
			gt.V(t, got.OrgCapTriggered).Equal(tt.wantOrgCap)
		})
	}
}

// The organization cap requires every dimension at or below its
// threshold. Each case flips exactly one dimension past the line.
func TestClassifyRisk_OrganizationCapBoundaries(t *testing.T) {
	capped := model.RiskFactors{
		Scope:           types.ScopeOrganization,
		Severity:        types.SeverityMajor,
		HumanImpact:     types.HumanImpactLimited,
		TimeSensitivity: types.TimeSensitivityShortTerm,
	}
	base := model.ClassifyRisk(capped)
	gt.V(t, base.Level).Equal(types.RiskLevelMedium)
	gt.B(t, base.OrgCapTriggered).True()

	t.Run("human impact past limited", func(t *testing.T) {
		f := capped
		f.HumanImpact = types.HumanImpactSignificant
		got := model.ClassifyRisk(f)
		gt.V(t, got.Level).Equal(types.RiskLevelHigh)
		gt.B(t, got.OrgCapTriggered).False()
	})

	t.Run("time sensitivity past short_term", func(t *testing.T) {
		f := capped
		f.TimeSensitivity = types.TimeSensitivityImmediate
		got := model.ClassifyRisk(f)
		gt.V(t, got.Level).Equal(types.RiskLevelHigh)
		gt.B(t, got.OrgCapTriggered).False()
	})

	t.Run("severity past major", func(t *testing.T) {
		f := capped
		f.Severity = types.SeverityCatastrophic
		got := model.ClassifyRisk(f)
		gt.V(t, got.Level).Equal(types.RiskLevelCritical)
		gt.B(t, got.OrgCapTriggered).False()
	})

	t.Run("scope past organization", func(t *testing.T) {
		f := capped
		f.Scope = types.ScopeNational
		got := model.ClassifyRisk(f)
		gt.V(t, got.Level).Equal(types.RiskLevelCritical)
		gt.B(t, got.OrgCapTriggered).False()
	})
}

// Raising severity while holding the other dimensions fixed must never
// lower the resulting level. Checked across every combination of the
// remaining dimensions.
func TestClassifyRisk_SeverityMonotonic(t *testing.T) {
	for _, scope := range types.AllScopes() {
		for _, impact := range types.AllHumanImpacts() {
			for _, ts := range types.AllTimeSensitivities() {
				prev := -1
				for _, sev := range types.AllSeverities() {
					got := model.ClassifyRisk(model.RiskFactors{
						Scope:           scope,
						Severity:        sev,
						HumanImpact:     impact,
						TimeSensitivity: ts,
					})
					rank := got.Level.Rank()
					gt.B(t, rank >= prev).
						Describef("level dropped at (%s, %s, %s, %s)", scope, sev, impact, ts).
						True()
					prev = rank
				}
			}
		}
	}
}

func TestClassifyRisk_Deterministic(t *testing.T) {
	f := model.RiskFactors{
		Scope:           types.ScopeOrganization,
		Severity:        types.SeverityMajor,
		HumanImpact:     types.HumanImpactLimited,
		TimeSensitivity: types.TimeSensitivityShortTerm,
	}

	first := model.ClassifyRisk(f)
	for i := 0; i < 100; i++ {
		gt.V(t, model.ClassifyRisk(f)).Equal(first)
	}
}

func TestRiskFactors_Validate(t *testing.T) {
	valid := model.RiskFactors{
		Scope:           types.ScopeTeam,
		Severity:        types.SeverityMinor,
		HumanImpact:     types.HumanImpactNone,
		TimeSensitivity: types.TimeSensitivityLongTerm,
	}
	gt.NoError(t, valid.Validate())

	invalid := valid
	invalid.Scope = types.Scope("galaxy")
	err := invalid.Validate()
	gt.Error(t, err)
	gt.B(t, errors.Is(err, model.ErrInvalidFactor)).True()
}
