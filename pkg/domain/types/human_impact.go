package types

import "fmt"

// HumanImpact represents the degree to which people are affected by a
// proposed change
type HumanImpact string

const (
	HumanImpactNone         HumanImpact = "none"
	HumanImpactLimited      HumanImpact = "limited"
	HumanImpactSignificant  HumanImpact = "significant"
	HumanImpactMassCasualty HumanImpact = "mass_casualty"
)

var humanImpactRanks = map[HumanImpact]int{
	HumanImpactNone:         0,
	HumanImpactLimited:      1,
	HumanImpactSignificant:  2,
	HumanImpactMassCasualty: 3,
}

// AllHumanImpacts returns all valid human impacts in ascending rank order
func AllHumanImpacts() []HumanImpact {
	return []HumanImpact{
		HumanImpactNone,
		HumanImpactLimited,
		HumanImpactSignificant,
		HumanImpactMassCasualty,
	}
}

// IsValid checks if the human impact is valid
func (h HumanImpact) IsValid() bool {
	_, ok := humanImpactRanks[h]
	return ok
}

// Rank returns the ordinal rank of the human impact. Unknown values rank 0.
func (h HumanImpact) Rank() int {
	return humanImpactRanks[h]
}

// String returns the string representation of the human impact
func (h HumanImpact) String() string {
	return string(h)
}

// ParseHumanImpact parses a string into a HumanImpact
func ParseHumanImpact(s string) (HumanImpact, error) {
	impact := HumanImpact(s)
	if !impact.IsValid() {
		return "", fmt.Errorf("invalid human impact: %s", s)
	}
	return impact, nil
}

// NormalizeHumanImpact maps a raw model output to a HumanImpact.
// Unrecognized values fall back to HumanImpactNone; the second return
// value is false when the fallback was taken.
func NormalizeHumanImpact(raw string) (HumanImpact, bool) {
	impact := HumanImpact(foldOrdinal(raw))
	if !impact.IsValid() {
		return HumanImpactNone, false
	}
	return impact, true
}
