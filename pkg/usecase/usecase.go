package usecase

import (
	"time"

	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model/config"
	"github.com/secmon-lab/themis/pkg/service/assessor"
	"github.com/secmon-lab/themis/pkg/service/slack"
)

// UseCases bundles the use cases with their shared dependencies
type UseCases struct {
	repo     interfaces.Repository
	cfg      *config.AssessmentConfig
	assessor assessor.Service
	notifier slack.Service
	cacheTTL time.Duration

	Assessment *AssessmentUseCase
	Auth       AuthUseCaseInterface
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithConfig sets the assessment metadata configuration
func WithConfig(cfg *config.AssessmentConfig) Option {
	return func(uc *UseCases) {
		uc.cfg = cfg
	}
}

// WithAssessor sets the model-backed assessment service
func WithAssessor(svc assessor.Service) Option {
	return func(uc *UseCases) {
		uc.assessor = svc
	}
}

// WithNotifier sets the Slack notification service
func WithNotifier(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = svc
	}
}

// WithAuth sets the authentication use case
func WithAuth(auth AuthUseCaseInterface) Option {
	return func(uc *UseCases) {
		uc.Auth = auth
	}
}

// WithCacheTTL sets how long assessment results are cached in process
func WithCacheTTL(ttl time.Duration) Option {
	return func(uc *UseCases) {
		uc.cacheTTL = ttl
	}
}

// New creates a new UseCases instance. Authentication defaults to disabled
// until WithAuth provides a verifier.
func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		Auth: NewNoAuthnUseCase(""),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Assessment = NewAssessmentUseCase(uc.repo, uc.cfg, uc.assessor, uc.notifier, uc.cacheTTL)

	return uc
}
