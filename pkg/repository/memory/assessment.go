package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[model.AssessmentID]*model.Assessment
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[model.AssessmentID]*model.Assessment),
	}
}

// copyAssessment creates a deep copy of an assessment record
func copyAssessment(a *model.Assessment) *model.Assessment {
	copied := *a
	if a.Trace != nil {
		copied.Trace = make([]string, len(a.Trace))
		copy(copied.Trace, a.Trace)
	}
	return &copied
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyAssessment(assessment)
	if created.ID == "" {
		created.ID = model.NewAssessmentID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.assessments[created.ID] = created
	return copyAssessment(created), nil
}

func (r *assessmentRepository) Get(ctx context.Context, id model.AssessmentID) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("id", id))
	}

	return copyAssessment(assessment), nil
}

func (r *assessmentRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var newest *model.Assessment
	for _, a := range r.assessments {
		if a.Fingerprint != fingerprint {
			continue
		}
		if newest == nil || a.CreatedAt.After(newest.CreatedAt) {
			newest = a
		}
	}

	if newest == nil {
		return nil, nil
	}

	return copyAssessment(newest), nil
}

func (r *assessmentRepository) List(ctx context.Context, opts ...interfaces.ListAssessmentOption) ([]*model.Assessment, error) {
	cfg := interfaces.BuildListAssessmentConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Assessment, 0, len(r.assessments))
	for _, a := range r.assessments {
		if cfg.Level() != nil && a.Classification.Level != *cfg.Level() {
			continue
		}
		result = append(result, copyAssessment(a))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit := cfg.Limit(); limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
