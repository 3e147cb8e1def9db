package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestRankOrdering(t *testing.T) {
	t.Run("scope", func(t *testing.T) {
		scopes := types.AllScopes()
		gt.A(t, scopes).Length(5)
		for i, s := range scopes {
			gt.V(t, s.Rank()).Equal(i)
		}
	})

	t.Run("severity", func(t *testing.T) {
		severities := types.AllSeverities()
		gt.A(t, severities).Length(4)
		for i, s := range severities {
			gt.V(t, s.Rank()).Equal(i)
		}
	})

	t.Run("human impact", func(t *testing.T) {
		impacts := types.AllHumanImpacts()
		gt.A(t, impacts).Length(4)
		for i, h := range impacts {
			gt.V(t, h.Rank()).Equal(i)
		}
	})

	t.Run("time sensitivity", func(t *testing.T) {
		sensitivities := types.AllTimeSensitivities()
		gt.A(t, sensitivities).Length(4)
		for i, ts := range sensitivities {
			gt.V(t, ts.Rank()).Equal(i)
		}
	})
}

func TestNormalizeFallbacks(t *testing.T) {
	t.Run("severity falls back to moderate", func(t *testing.T) {
		got, ok := types.NormalizeSeverity("devastating")
		gt.B(t, ok).False()
		gt.V(t, got).Equal(types.SeverityModerate)
	})

	t.Run("human impact falls back to none", func(t *testing.T) {
		got, ok := types.NormalizeHumanImpact("everyone")
		gt.B(t, ok).False()
		gt.V(t, got).Equal(types.HumanImpactNone)
	})

	t.Run("time sensitivity falls back to long_term", func(t *testing.T) {
		got, ok := types.NormalizeTimeSensitivity("soon")
		gt.B(t, ok).False()
		gt.V(t, got).Equal(types.TimeSensitivityLongTerm)
	})
}

func TestNormalizeFolding(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T)
	}{
		{
			name: "hyphenated time sensitivity",
			check: func(t *testing.T) {
				got, ok := types.NormalizeTimeSensitivity("Short-Term")
				gt.B(t, ok).True()
				gt.V(t, got).Equal(types.TimeSensitivityShortTerm)
			},
		},
		{
			name: "spaced human impact",
			check: func(t *testing.T) {
				got, ok := types.NormalizeHumanImpact("mass casualty")
				gt.B(t, ok).True()
				gt.V(t, got).Equal(types.HumanImpactMassCasualty)
			},
		},
		{
			name: "uppercase severity",
			check: func(t *testing.T) {
				got, ok := types.NormalizeSeverity("CATASTROPHIC")
				gt.B(t, ok).True()
				gt.V(t, got).Equal(types.SeverityCatastrophic)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, tt.check)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := types.ParseSeverity("severe")
	gt.Error(t, err)

	_, err = types.ParseHumanImpact("mass casualty")
	gt.Error(t, err)

	_, err = types.ParseTimeSensitivity("now")
	gt.Error(t, err)
}
