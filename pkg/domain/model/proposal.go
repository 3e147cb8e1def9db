package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// SourceKind represents where a proposal was submitted from
type SourceKind string

const (
	SourceKindAPI    SourceKind = "api"
	SourceKindCLI    SourceKind = "cli"
	SourceKindGitHub SourceKind = "github"
)

// IsValid checks if the source kind is valid
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindAPI,
		SourceKindCLI,
		SourceKindGitHub:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source kind
func (k SourceKind) String() string {
	return string(k)
}

// Source identifies the origin of a proposal
type Source struct {
	Kind SourceKind
	Ref  string // origin detail, e.g. a pull request URL
}

// Proposal describes a proposed change to be assessed
type Proposal struct {
	Title       string
	Description string
	CategoryID  types.CategoryID
	TeamID      types.TeamID
	RequestedBy string
	Source      Source
}

// Validate checks the proposal invariants. Category and team are
// optional; when present they must be well formed.
func (p Proposal) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.CategoryID != "" {
		if err := p.CategoryID.Validate(); err != nil {
			return goerr.Wrap(err, "invalid proposal category")
		}
	}
	if p.TeamID != "" {
		if err := p.TeamID.Validate(); err != nil {
			return goerr.Wrap(err, "invalid proposal team")
		}
	}
	return nil
}

// Fingerprint returns a stable SHA-256 digest of the normalized title and
// description. Case and whitespace runs are folded so a trivially
// reformatted resubmission shares the fingerprint of the original.
func (p Proposal) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(foldContent(p.Title)))
	h.Write([]byte{0})
	h.Write([]byte(foldContent(p.Description)))
	return hex.EncodeToString(h.Sum(nil))
}

func foldContent(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
