package model

import (
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// RiskFactors is the set of ordinal dimensions a proposal is graded on
type RiskFactors struct {
	Scope           types.Scope
	Severity        types.Severity
	HumanImpact     types.HumanImpact
	TimeSensitivity types.TimeSensitivity
}

// Validate checks that every factor is a known enum member
func (f RiskFactors) Validate() error {
	if !f.Scope.IsValid() {
		return goerrInvalidFactor("scope", f.Scope.String())
	}
	if !f.Severity.IsValid() {
		return goerrInvalidFactor("severity", f.Severity.String())
	}
	if !f.HumanImpact.IsValid() {
		return goerrInvalidFactor("human_impact", f.HumanImpact.String())
	}
	if !f.TimeSensitivity.IsValid() {
		return goerrInvalidFactor("time_sensitivity", f.TimeSensitivity.String())
	}
	return nil
}

// RiskClassification is the deterministic outcome of classifying a set of
// risk factors
type RiskClassification struct {
	Level           types.RiskLevel
	OrgCapTriggered bool
}

// ClassifyRisk maps risk factors to a risk level through a fixed rule
// cascade. The first matching rule wins and the evaluation order is part
// of the contract: critical escalations, then scope caps, then the
// major-factor fallback. Thresholds are constants, not configuration.
// The function is pure and safe for concurrent use.
func ClassifyRisk(f RiskFactors) RiskClassification {
	// Rule 1: critical escalations
	if f.Severity == types.SeverityCatastrophic {
		return RiskClassification{Level: types.RiskLevelCritical}
	}
	if f.HumanImpact == types.HumanImpactMassCasualty {
		return RiskClassification{Level: types.RiskLevelCritical}
	}
	if f.Scope.Rank() >= types.ScopeNational.Rank() &&
		(f.Severity.Rank() >= types.SeverityMajor.Rank() ||
			f.HumanImpact.Rank() >= types.HumanImpactSignificant.Rank()) {
		return RiskClassification{Level: types.RiskLevelCritical}
	}
	if f.TimeSensitivity == types.TimeSensitivityCritical &&
		f.Severity.Rank() >= types.SeverityMajor.Rank() {
		return RiskClassification{Level: types.RiskLevelCritical}
	}

	// Rule 2: scope caps. A single-person change never exceeds medium;
	// mass casualty impact already escalated above.
	if f.Scope == types.ScopeSingle {
		if f.Severity.Rank() <= types.SeverityModerate.Rank() &&
			f.HumanImpact == types.HumanImpactNone &&
			f.TimeSensitivity.Rank() <= types.TimeSensitivityShortTerm.Rank() {
			return RiskClassification{Level: types.RiskLevelLow}
		}
		return RiskClassification{Level: types.RiskLevelMedium}
	}
	if f.Scope == types.ScopeOrganization &&
		f.HumanImpact.Rank() <= types.HumanImpactLimited.Rank() &&
		f.TimeSensitivity.Rank() <= types.TimeSensitivityShortTerm.Rank() &&
		f.Severity.Rank() <= types.SeverityMajor.Rank() {
		return RiskClassification{Level: types.RiskLevelMedium, OrgCapTriggered: true}
	}

	// Rule 3: high fallback
	major := f.majorFactors()
	if f.Scope.Rank() >= types.ScopeNational.Rank() {
		return RiskClassification{Level: types.RiskLevelHigh}
	}
	if f.Severity == types.SeverityMajor &&
		(f.TimeSensitivity.Rank() >= types.TimeSensitivityImmediate.Rank() ||
			f.HumanImpact.Rank() >= types.HumanImpactSignificant.Rank()) {
		return RiskClassification{Level: types.RiskLevelHigh}
	}
	if major >= 2 {
		return RiskClassification{Level: types.RiskLevelHigh}
	}

	// Rule 4: medium and low fallback
	if major == 1 {
		return RiskClassification{Level: types.RiskLevelMedium}
	}
	if f.Scope.Rank() <= types.ScopeTeam.Rank() &&
		f.Severity.Rank() <= types.SeverityModerate.Rank() &&
		f.HumanImpact.Rank() <= types.HumanImpactLimited.Rank() {
		return RiskClassification{Level: types.RiskLevelLow}
	}
	return RiskClassification{Level: types.RiskLevelMedium}
}

// majorFactors counts the dimensions at or above their major threshold:
// scope organization+, severity major+, human impact significant+, time
// sensitivity immediate+.
func (f RiskFactors) majorFactors() int {
	count := 0
	if f.Scope.Rank() >= types.ScopeOrganization.Rank() {
		count++
	}
	if f.Severity.Rank() >= types.SeverityMajor.Rank() {
		count++
	}
	if f.HumanImpact.Rank() >= types.HumanImpactSignificant.Rank() {
		count++
	}
	if f.TimeSensitivity.Rank() >= types.TimeSensitivityImmediate.Rank() {
		count++
	}
	return count
}
