// Package enrichment implements C7, the Enrichment Collaborator Interface: a
// pluggable post-discovery scoring step the orchestrator calls once per
// candidate after merge/dedup, grounded on the requirement/skill matching
// shape the teacher's LLM extraction prompt asks Claude to produce
// (internal/llm/providers/claude.go's requirements/responsibilities fields).
package enrichment

import (
	"context"

	"jobscout/pkg/models"
)

// Enricher scores a single job against the caller's declared skills,
// populating RequiredSkills/MatchedSkills/MissingSkills/MatchScore in place.
// Implementations must not mutate any other field and must be safe to skip
// on error: a
// failed enrichment call leaves the job's MatchScore at its zero value and
// the orchestrator proceeds without it.
type Enricher interface {
	Enrich(ctx context.Context, job *models.CanonicalJob, userSkills []string) error
}

// NoOp enriches nothing; the orchestrator uses it when it is constructed
// without an Enricher.
type NoOp struct{}

func (NoOp) Enrich(_ context.Context, _ *models.CanonicalJob, _ []string) error { return nil }
