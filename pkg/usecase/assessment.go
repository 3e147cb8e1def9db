package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/service/assessor"
	"github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/secmon-lab/themis/pkg/utils/async"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// OrgCapTraceNote is appended to the decision trace whenever the
// organization-wide change guardrail caps the risk level.
const OrgCapTraceNote = "Risk capped at medium under the organization-wide change guardrail"

// AssessmentUseCase runs the assessment pipeline and serves stored results
type AssessmentUseCase struct {
	repo     interfaces.Repository
	cfg      *config.AssessmentConfig
	assessor assessor.Service
	notifier slack.Service
	cache    *assessmentCache
}

// NewAssessmentUseCase creates a new AssessmentUseCase
func NewAssessmentUseCase(repo interfaces.Repository, cfg *config.AssessmentConfig, assessorSvc assessor.Service, notifier slack.Service, cacheTTL time.Duration) *AssessmentUseCase {
	return &AssessmentUseCase{
		repo:     repo,
		cfg:      cfg,
		assessor: assessorSvc,
		notifier: notifier,
		cache:    newAssessmentCache(cacheTTL),
	}
}

// AssessResult carries the assessment and whether it was served from a
// previous result instead of a fresh model call.
type AssessResult struct {
	Assessment *model.Assessment
	CacheHit   bool
}

// Assess runs the full assessment pipeline for a proposed change.
//
// Repeated submissions of equivalent content are answered without a fresh
// model call: first from the in-process cache, then from the newest stored
// assessment with the same fingerprint. A fingerprint reuse still creates a
// new record, marked with CachedFrom, so every submission stays auditable.
func (uc *AssessmentUseCase) Assess(ctx context.Context, proposal model.Proposal) (*AssessResult, error) {
	logger := logging.From(ctx)

	if err := proposal.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidProposal, "proposal validation failed", goerr.V("cause", err.Error()))
	}
	if err := uc.validateConfigIDs(proposal); err != nil {
		return nil, err
	}

	fingerprint := proposal.Fingerprint()

	if cached, ok := uc.cache.get(fingerprint); ok {
		logger.Info("assessment served from cache",
			"fingerprint", fingerprint,
			"assessmentID", cached.ID,
		)
		return &AssessResult{Assessment: cached, CacheHit: true}, nil
	}

	if prior := uc.lookupPrior(ctx, fingerprint); prior != nil {
		return uc.reusePrior(ctx, proposal, fingerprint, prior)
	}

	return uc.assessFresh(ctx, proposal, fingerprint)
}

// validateConfigIDs checks category and team references against the
// configured metadata. Without config, references pass through unchecked.
func (uc *AssessmentUseCase) validateConfigIDs(proposal model.Proposal) error {
	if uc.cfg == nil {
		return nil
	}

	if proposal.CategoryID != "" && !uc.cfg.HasCategory(string(proposal.CategoryID)) {
		return goerr.Wrap(ErrInvalidProposal, "category ID not found in configuration",
			goerr.V("categoryID", proposal.CategoryID))
	}
	if proposal.TeamID != "" && !uc.cfg.HasTeam(string(proposal.TeamID)) {
		return goerr.Wrap(ErrInvalidProposal, "team ID not found in configuration",
			goerr.V("teamID", proposal.TeamID))
	}

	return nil
}

// lookupPrior returns the newest stored assessment with the same fingerprint.
// Store errors are treated as a miss so a flaky backend never blocks assessment.
func (uc *AssessmentUseCase) lookupPrior(ctx context.Context, fingerprint string) *model.Assessment {
	prior, err := uc.repo.Assessment().GetByFingerprint(ctx, fingerprint)
	if err != nil {
		logging.From(ctx).Warn("fingerprint lookup failed, assessing fresh",
			"fingerprint", fingerprint,
			"error", err.Error(),
		)
		return nil
	}
	return prior
}

// reusePrior records a new assessment derived from a stored one
func (uc *AssessmentUseCase) reusePrior(ctx context.Context, proposal model.Proposal, fingerprint string, prior *model.Assessment) (*AssessResult, error) {
	trace := make([]string, len(prior.Trace))
	copy(trace, prior.Trace)

	assessment := &model.Assessment{
		ID:             model.NewAssessmentID(),
		Fingerprint:    fingerprint,
		Proposal:       proposal,
		Factors:        prior.Factors,
		Classification: prior.Classification,
		Trace:          trace,
		Summary:        prior.Summary,
		ModelName:      prior.ModelName,
		CachedFrom:     prior.ID,
		CreatedAt:      time.Now().UTC(),
	}

	stored, err := uc.repo.Assessment().Create(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store reused assessment", goerr.V(FingerprintKey, fingerprint))
	}

	uc.cache.set(stored)

	logging.From(ctx).Info("assessment reused from stored result",
		"assessmentID", stored.ID,
		"cachedFrom", prior.ID,
		"level", stored.Classification.Level,
	)

	return &AssessResult{Assessment: stored, CacheHit: true}, nil
}

// assessFresh runs the model and the classification rules end to end
func (uc *AssessmentUseCase) assessFresh(ctx context.Context, proposal model.Proposal, fingerprint string) (*AssessResult, error) {
	input := assessor.Input{Proposal: proposal}
	if uc.cfg != nil {
		input.Category = uc.cfg.CategoryByID(string(proposal.CategoryID))
		input.Team = uc.cfg.TeamByID(string(proposal.TeamID))
	}

	raw, err := uc.assessor.Draft(ctx, input)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to draft assessment", goerr.V(FingerprintKey, fingerprint))
	}

	factors := normalizeFactors(ctx, raw)
	classification := model.ClassifyRisk(factors)
	trace := buildTrace(raw.Rationale, factors, classification)

	assessment := &model.Assessment{
		ID:             model.NewAssessmentID(),
		Fingerprint:    fingerprint,
		Proposal:       proposal,
		Factors:        factors,
		Classification: classification,
		Trace:          trace,
		Summary:        strings.TrimSpace(raw.Summary),
		ModelName:      uc.assessor.ModelName(),
		CreatedAt:      time.Now().UTC(),
	}

	if err := assessment.Validate(); err != nil {
		return nil, goerr.Wrap(err, "assembled assessment is invalid", goerr.V(FingerprintKey, fingerprint))
	}

	stored, err := uc.repo.Assessment().Create(ctx, assessment)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store assessment", goerr.V(FingerprintKey, fingerprint))
	}

	uc.cache.set(stored)
	uc.notify(ctx, stored)

	logging.From(ctx).Info("assessment completed",
		"assessmentID", stored.ID,
		"level", stored.Classification.Level,
		"orgCapTriggered", stored.Classification.OrgCapTriggered,
		"traceEntries", len(stored.Trace),
	)

	return &AssessResult{Assessment: stored, CacheHit: false}, nil
}

// normalizeFactors maps raw model output onto the known ordinal labels.
// Unrecognized labels fall back to the most conservative value and are logged.
func normalizeFactors(ctx context.Context, raw *assessor.RawAssessment) model.RiskFactors {
	logger := logging.From(ctx)

	scope, ok := types.NormalizeScope(raw.Scope)
	if !ok {
		logger.Warn("unrecognized scope label, using fallback", "raw", raw.Scope, "fallback", scope)
	}
	severity, ok := types.NormalizeSeverity(raw.Severity)
	if !ok {
		logger.Warn("unrecognized severity label, using fallback", "raw", raw.Severity, "fallback", severity)
	}
	humanImpact, ok := types.NormalizeHumanImpact(raw.HumanImpact)
	if !ok {
		logger.Warn("unrecognized human impact label, using fallback", "raw", raw.HumanImpact, "fallback", humanImpact)
	}
	timeSensitivity, ok := types.NormalizeTimeSensitivity(raw.TimeSensitivity)
	if !ok {
		logger.Warn("unrecognized time sensitivity label, using fallback", "raw", raw.TimeSensitivity, "fallback", timeSensitivity)
	}

	return model.RiskFactors{
		Scope:           scope,
		Severity:        severity,
		HumanImpact:     humanImpact,
		TimeSensitivity: timeSensitivity,
	}
}

// buildTrace assembles the decision trace from the model rationale.
// Short rationales are padded with dimension summaries, and the guardrail
// note always lands as the final entry when the cap applies. The result
// stays within the trace bounds.
func buildTrace(rationale []string, factors model.RiskFactors, classification model.RiskClassification) []string {
	trace := make([]string, 0, len(rationale))
	for _, entry := range rationale {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			trace = append(trace, entry)
		}
	}

	// The guardrail note counts toward the minimum
	minEntries := model.TraceMinEntries
	if classification.OrgCapTriggered {
		minEntries--
	}
	for _, line := range dimensionSummaries(factors) {
		if len(trace) >= minEntries {
			break
		}
		trace = append(trace, line)
	}

	if classification.OrgCapTriggered {
		return model.AppendWithBound(trace, OrgCapTraceNote, model.TraceMaxEntries)
	}
	return model.BoundTrace(trace, model.TraceMaxEntries)
}

// dimensionSummaries renders one deterministic line per risk dimension
func dimensionSummaries(factors model.RiskFactors) []string {
	return []string{
		fmt.Sprintf("Scope rated %s for this change", factors.Scope),
		fmt.Sprintf("Severity rated %s", factors.Severity),
		fmt.Sprintf("Human impact rated %s", factors.HumanImpact),
		fmt.Sprintf("Time sensitivity rated %s", factors.TimeSensitivity),
	}
}

// notify posts high and critical assessments to Slack without blocking the caller
func (uc *AssessmentUseCase) notify(ctx context.Context, assessment *model.Assessment) {
	if uc.notifier == nil {
		return
	}
	if !assessment.Classification.Level.AtLeast(types.RiskLevelHigh) {
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.notifier.NotifyAssessment(ctx, assessment)
	})
}

// Get returns a stored assessment by ID
func (uc *AssessmentUseCase) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	assessment, err := uc.repo.Assessment().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrAssessmentNotFound, "assessment not found", goerr.V(AssessmentIDKey, id))
	}
	return assessment, nil
}

// List returns stored assessments, newest first
func (uc *AssessmentUseCase) List(ctx context.Context, opts ...interfaces.ListAssessmentOption) ([]*model.Assessment, error) {
	assessments, err := uc.repo.Assessment().List(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments")
	}
	return assessments, nil
}

// Sweep evicts expired assessment cache entries and reports how many were removed
func (uc *AssessmentUseCase) Sweep(now time.Time) int {
	return uc.cache.sweep(now)
}
