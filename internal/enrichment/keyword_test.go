package enrichment

import (
	"context"
	"testing"

	"jobscout/pkg/models"
)

func TestKeywordScorerMatchScore(t *testing.T) {
	job := &models.CanonicalJob{Title: "Senior Go Engineer", Snippet: "Experience with Kubernetes and Docker required"}
	scorer := NewKeywordScorer()

	err := scorer.Enrich(context.Background(), job, []string{"Go", "Kubernetes", "Rust"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if job.MatchScore != 66 {
		t.Fatalf("expected 2/3 = 66, got %d", job.MatchScore)
	}
	if len(job.MatchedSkills) != 2 || len(job.MissingSkills) != 1 {
		t.Fatalf("expected 2 matched, 1 missing, got matched=%v missing=%v", job.MatchedSkills, job.MissingSkills)
	}
}

func TestKeywordScorerNoSkillsIsNoop(t *testing.T) {
	job := &models.CanonicalJob{Title: "Engineer"}
	scorer := NewKeywordScorer()

	if err := scorer.Enrich(context.Background(), job, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.MatchScore != 0 {
		t.Fatalf("expected zero-value match score with no declared skills, got %d", job.MatchScore)
	}
}
