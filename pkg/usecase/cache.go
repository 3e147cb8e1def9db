package usecase

import (
	"sync"
	"time"

	"github.com/secmon-lab/themis/pkg/domain/model"
)

// DefaultCacheTTL is the default lifetime of an in-process assessment cache entry
const DefaultCacheTTL = 10 * time.Minute

type cachedAssessment struct {
	assessment *model.Assessment
	expiresAt  time.Time
}

// assessmentCache keeps recently computed assessments keyed by proposal
// fingerprint so that repeated submissions skip the LLM entirely.
type assessmentCache struct {
	ttl   time.Duration
	cache sync.Map
}

func newAssessmentCache(ttl time.Duration) *assessmentCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &assessmentCache{ttl: ttl}
}

func (c *assessmentCache) get(fingerprint string) (*model.Assessment, bool) {
	val, ok := c.cache.Load(fingerprint)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedAssessment)
	if time.Now().After(cached.expiresAt) {
		c.cache.Delete(fingerprint)
		return nil, false
	}

	return cached.assessment, true
}

func (c *assessmentCache) set(assessment *model.Assessment) {
	cached := &cachedAssessment{
		assessment: assessment,
		expiresAt:  time.Now().Add(c.ttl),
	}
	c.cache.Store(assessment.Fingerprint, cached)
}

// sweep removes entries that expired before now and reports how many were evicted
func (c *assessmentCache) sweep(now time.Time) int {
	evicted := 0
	c.cache.Range(func(key, val any) bool {
		if cached, ok := val.(*cachedAssessment); ok && now.After(cached.expiresAt) {
			c.cache.Delete(key)
			evicted++
		}
		return true
	})
	return evicted
}
