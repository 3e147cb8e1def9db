package interfaces

import "github.com/secmon-lab/themis/pkg/domain/types"

// ListAssessmentOption is a functional option for filtering assessments
// in List
type ListAssessmentOption func(*listAssessmentConfig)

type listAssessmentConfig struct {
	level *types.RiskLevel
	limit int
}

// WithLevel filters assessments by classified risk level
func WithLevel(level types.RiskLevel) ListAssessmentOption {
	return func(c *listAssessmentConfig) {
		c.level = &level
	}
}

// WithLimit caps the number of returned assessments. Zero or negative
// means no cap.
func WithLimit(limit int) ListAssessmentOption {
	return func(c *listAssessmentConfig) {
		c.limit = limit
	}
}

// BuildListAssessmentConfig builds a listAssessmentConfig from options
func BuildListAssessmentConfig(opts ...ListAssessmentOption) *listAssessmentConfig {
	cfg := &listAssessmentConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Level returns the level filter value, or nil if not set
func (c *listAssessmentConfig) Level() *types.RiskLevel {
	return c.level
}

// Limit returns the result cap, zero when unset
func (c *listAssessmentConfig) Limit() int {
	return c.limit
}
