package types

import "fmt"

// Scope represents how broadly a proposed change reaches
type Scope string

const (
	ScopeSingle       Scope = "single"
	ScopeTeam         Scope = "team"
	ScopeOrganization Scope = "organization"
	ScopeNational     Scope = "national"
	ScopeGlobal       Scope = "global"
)

var scopeRanks = map[Scope]int{
	ScopeSingle:       0,
	ScopeTeam:         1,
	ScopeOrganization: 2,
	ScopeNational:     3,
	ScopeGlobal:       4,
}

// AllScopes returns all valid scopes in ascending rank order
func AllScopes() []Scope {
	return []Scope{
		ScopeSingle,
		ScopeTeam,
		ScopeOrganization,
		ScopeNational,
		ScopeGlobal,
	}
}

// IsValid checks if the scope is valid
func (s Scope) IsValid() bool {
	_, ok := scopeRanks[s]
	return ok
}

// Rank returns the ordinal rank of the scope. Ranks are fixed and
// monotonic with breadth of reach. Unknown scopes rank 0.
func (s Scope) Rank() int {
	return scopeRanks[s]
}

// String returns the string representation of the scope
func (s Scope) String() string {
	return string(s)
}

// ParseScope parses a string into a Scope
func ParseScope(s string) (Scope, error) {
	scope := Scope(s)
	if !scope.IsValid() {
		return "", fmt.Errorf("invalid scope: %s", s)
	}
	return scope, nil
}

// NormalizeScope maps a raw model output to a Scope. The legacy value
// "individual" is accepted as a synonym of "single". Unrecognized values
// fall back to ScopeSingle; the second return value is false when the
// fallback was taken.
func NormalizeScope(raw string) (Scope, bool) {
	v := foldOrdinal(raw)
	if v == "individual" {
		return ScopeSingle, true
	}
	scope := Scope(v)
	if !scope.IsValid() {
		return ScopeSingle, false
	}
	return scope, true
}
