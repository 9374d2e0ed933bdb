package models

import "time"

// JobSource identifies which adapter discovered a CanonicalJob.
type JobSource string

const (
	SourcePrimary  JobSource = "primary"
	SourceFallback JobSource = "fallback"
)

// ValidationTier tracks how much verification a CanonicalJob has been through.
// Tiers only move forward: TierNone < TierSnippet < TierHTML < TierBrowser.
type ValidationTier string

const (
	TierNone    ValidationTier = "none"
	TierSnippet ValidationTier = "snippet"
	TierHTML    ValidationTier = "html"
	TierBrowser ValidationTier = "browser"
)

// tierRank gives validation tiers a total order for merge/replace decisions.
var tierRank = map[ValidationTier]int{
	TierNone:    0,
	TierSnippet: 1,
	TierHTML:    2,
	TierBrowser: 3,
}

// Rank returns the tier's position in the none < snippet < html < browser order.
func (t ValidationTier) Rank() int {
	return tierRank[t]
}

// TriState models isClosed/isReposted: unknown until a tier actually checks.
type TriState int

const (
	TriUnknown TriState = iota
	TriFalse
	TriTrue
)

// CanonicalJob is the unified record produced by any source and progressively
// enriched by the validation tiers.
type CanonicalJob struct {
	// Identity
	ExternalID string `json:"externalId,omitempty"`
	URL        string `json:"url"`

	// Descriptive
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Snippet     string `json:"snippet,omitempty"`
	Description string `json:"description,omitempty"`
	PostedLabel string `json:"postedLabel,omitempty"`

	// Structured
	Applicants     *int      `json:"applicants"`
	PostedHoursAgo *int      `json:"postedHoursAgo"`
	Source         JobSource `json:"source"`
	DiscoveredAt   time.Time `json:"discoveredAt"`

	// Validation
	ValidationTier   ValidationTier `json:"validationTier"`
	IsClosed         TriState       `json:"-"`
	IsReposted       TriState       `json:"-"`
	PassesValidation bool           `json:"passesValidation"`
	ValidationReason string         `json:"validationReason,omitempty"`

	// Enrichment (C7, optional)
	RequiredSkills []string `json:"requiredSkills,omitempty"`
	MatchedSkills  []string `json:"matchedSkills,omitempty"`
	MissingSkills  []string `json:"missingSkills,omitempty"`
	MatchScore     int      `json:"matchScore"`
}

// IsClosedBool reports the closed tri-state as a plain bool for invariant checks
// (unknown is treated as "not known to be closed").
func (j *CanonicalJob) IsClosedBool() bool {
	return j.IsClosed == TriTrue
}

// IsRepostedBool reports the reposted tri-state as a plain bool.
func (j *CanonicalJob) IsRepostedBool() bool {
	return j.IsReposted == TriTrue
}

// completeness is a tie-break score for dedup merges: counts populated optional fields.
func (j *CanonicalJob) completeness() int {
	score := 0
	if j.Description != "" {
		score++
	}
	if j.Applicants != nil {
		score++
	}
	if j.PostedHoursAgo != nil {
		score++
	}
	if j.Snippet != "" {
		score++
	}
	if j.Location != "" {
		score++
	}
	return score
}

// richerThan implements the orchestrator's "richer record wins" tie-break:
// higher validation tier first, then more complete (non-null) fields.
func (j *CanonicalJob) richerThan(other *CanonicalJob) bool {
	if j.ValidationTier.Rank() != other.ValidationTier.Rank() {
		return j.ValidationTier.Rank() > other.ValidationTier.Rank()
	}
	return j.completeness() > other.completeness()
}

// MergeJobs implements C8 step 5: dedup by externalId first, then by URL;
// first writer wins except that a richer record replaces a poorer one.
func MergeJobs(lists ...[]*CanonicalJob) []*CanonicalJob {
	byID := make(map[string]*CanonicalJob)
	byURL := make(map[string]*CanonicalJob)
	var order []*CanonicalJob

	upsert := func(job *CanonicalJob) {
		var existing *CanonicalJob
		if job.ExternalID != "" {
			existing = byID[job.ExternalID]
		}
		if existing == nil && job.URL != "" {
			existing = byURL[job.URL]
		}

		if existing == nil {
			order = append(order, job)
		} else if job.richerThan(existing) {
			for i, o := range order {
				if o == existing {
					order[i] = job
					break
				}
			}
		} else {
			job = existing
		}

		if job.ExternalID != "" {
			byID[job.ExternalID] = job
		}
		if job.URL != "" {
			byURL[job.URL] = job
		}
	}

	for _, list := range lists {
		for _, job := range list {
			upsert(job)
		}
	}
	return order
}
