package enrichment

import (
	"context"
	"strings"

	"jobscout/pkg/models"
)

// KeywordScorer is the default, dependency-free Enricher: it scores a job by
// literal case-insensitive substring overlap between the user's declared
// skills and the job's title/snippet/description text. It never calls out
// to the network, so it is always available even when no LLM is configured.
type KeywordScorer struct{}

// NewKeywordScorer builds the default enricher.
func NewKeywordScorer() *KeywordScorer { return &KeywordScorer{} }

// Enrich computes MatchedSkills/MissingSkills/MatchScore (0-100, the
// percentage of declared skills found in the job text).
func (KeywordScorer) Enrich(_ context.Context, job *models.CanonicalJob, userSkills []string) error {
	if len(userSkills) == 0 {
		return nil
	}

	haystack := strings.ToLower(job.Title + " " + job.Snippet + " " + job.Description)

	var matched, missing []string
	for _, skill := range userSkills {
		if skill == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(skill)) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	job.MatchedSkills = matched
	job.MissingSkills = missing
	job.RequiredSkills = userSkills

	total := len(matched) + len(missing)
	if total == 0 {
		job.MatchScore = 0
		return nil
	}
	job.MatchScore = (len(matched) * 100) / total
	return nil
}
