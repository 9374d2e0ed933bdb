// Package orchestrator implements C8: it composes C3-C7 into a single run,
// merges and deduplicates candidates, applies the applicant/age budget, and
// reports progress into a ScrapeRun owned by the registry (C9). Grounded on
// the original's orchestrator.py (ScrapingOrchestrator.run_scrape), with the
// merge step generalized from a fixed source preference to a tier/
// completeness-based tie-break (see the grounding ledger).
package orchestrator

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jobscout/internal/enrichment"
	"jobscout/internal/filter"
	"jobscout/internal/registry"
	"jobscout/internal/source/fallback"
	"jobscout/internal/source/primary"
	"jobscout/internal/validator/browser"
	html "jobscout/internal/validator/html"
	"jobscout/pkg/apperrors"
	"jobscout/pkg/models"
)

// enrichPacing is the minimum delay between successive Enrich calls, per §4.7.
const enrichPacing = 500 * time.Millisecond

// Orchestrator is C8.
type Orchestrator struct {
	registry  *registry.Registry
	primary   *primary.Adapter
	fallback  *fallback.Adapter
	htmlVal   *html.Validator
	browserVal *browser.Validator
	enricher  enrichment.Enricher
	log       *logrus.Entry
}

// New wires C8 over its collaborators. browserVal may be nil when no
// browser pool is configured; tier-3 validation is then skipped entirely
// regardless of the request's ValidateBrowser flag.
func New(
	reg *registry.Registry,
	primaryAdapter *primary.Adapter,
	fallbackAdapter *fallback.Adapter,
	htmlValidator *html.Validator,
	browserValidator *browser.Validator,
	enricher enrichment.Enricher,
	log *logrus.Entry,
) *Orchestrator {
	if enricher == nil {
		enricher = enrichment.NoOp{}
	}
	return &Orchestrator{
		registry:   reg,
		primary:    primaryAdapter,
		fallback:   fallbackAdapter,
		htmlVal:    htmlValidator,
		browserVal: browserValidator,
		enricher:   enricher,
		log:        log.WithField("component", "orchestrator"),
	}
}

// StartScrape registers a new run and launches its background body,
// returning the runId immediately per §4.8's non-blocking contract.
func (o *Orchestrator) StartScrape(spec *models.FilterSpec, ownerID string) string {
	runID := uuid.NewString()
	runCtx, cancel := context.WithCancel(context.Background())

	run := &models.ScrapeRun{
		RunID:     runID,
		OwnerID:   ownerID,
		Spec:      *spec,
		Status:    models.RunQueued,
		StartedAt: time.Now(),
	}
	run.SetCancelFunc(cancel)
	o.registry.Put(run)

	go o.execute(runCtx, run)

	return runID
}

// execute is C8's background body, steps 1-10 of §4.8.
func (o *Orchestrator) execute(ctx context.Context, run *models.ScrapeRun) {
	defer func() {
		if r := recover(); r != nil {
			o.log.WithField("panic", r).Error("orchestrator run panicked")
			o.fail(run, "Scrape failed")
		}
	}()

	spec := &run.Spec
	maxHours := spec.PostedWithinDays * 24

	run.Update(func(r *models.ScrapeRun) {
		r.Status = models.RunRunning
		r.Progress = 10
	})

	var candidates []*models.CanonicalJob

	primaryResult := o.primary.Search(ctx, spec)
	if primaryResult.Success && len(primaryResult.Jobs) > 0 {
		candidates = applyStructuralCap(primaryResult.Jobs, spec, maxHours)
		run.Update(func(r *models.ScrapeRun) {
			r.SearchMethod = "primary"
			r.FallbackUsed = false
			r.Sources.Primary = len(candidates)
		})
	} else {
		fallbackResult := o.fallback.Search(ctx, spec)
		fallbackJobs := fallbackResult.Jobs

		stats := o.htmlVal.ValidateBatch(ctx, fallbackJobs, spec.MaxApplicants, maxHours)

		var survivors []*models.CanonicalJob
		for _, job := range fallbackJobs {
			if job.PassesValidation {
				survivors = append(survivors, job)
			}
		}
		candidates = survivors

		run.Update(func(r *models.ScrapeRun) {
			r.SearchMethod = "fallback"
			r.FallbackUsed = true
			r.FilterStats = stats
			r.Sources.Fallback = len(candidates)
		})
	}

	if isCancelled(ctx) {
		o.cancelRun(run)
		return
	}

	candidates = models.MergeJobs(candidates)
	run.Update(func(r *models.ScrapeRun) { r.Progress = 30 })

	if spec.ValidateHTML {
		var pending []*models.CanonicalJob
		for _, job := range candidates {
			if job.ValidationTier == models.TierNone || job.ValidationTier == models.TierSnippet {
				pending = append(pending, job)
			}
		}
		if len(pending) > 0 {
			batchStats := o.htmlVal.ValidateBatch(ctx, pending, spec.MaxApplicants, maxHours)
			run.Update(func(r *models.ScrapeRun) { mergeStats(&r.FilterStats, batchStats) })
		}
		candidates = filterPassed(candidates)
	}
	run.Update(func(r *models.ScrapeRun) { r.Progress = 60 })

	if isCancelled(ctx) {
		o.cancelRun(run)
		return
	}

	if spec.ValidateBrowser && o.browserVal != nil {
		sortBySignalStrength(candidates)
		top := candidates
		if len(top) > spec.ValidateTopN {
			top = top[:spec.ValidateTopN]
		}
		o.browserVal.ValidateBatch(ctx, top, spec.MaxApplicants, maxHours)
		candidates = filterPassed(candidates)
	}
	run.Update(func(r *models.ScrapeRun) { r.Progress = 85 })

	if isCancelled(ctx) {
		o.cancelRun(run)
		return
	}

	if len(spec.UserSkills) > 0 {
		for _, job := range candidates {
			text := job.Description
			if text == "" {
				text = job.Snippet
			}
			if text == "" {
				continue
			}
			if err := o.enricher.Enrich(ctx, job, spec.UserSkills); err != nil {
				o.log.WithError(err).WithField("job_url", job.URL).Debug("enrichment failed, continuing unenriched")
			}
			select {
			case <-time.After(enrichPacing):
			case <-ctx.Done():
			}
		}
	}

	if isCancelled(ctx) {
		o.cancelRun(run)
		return
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].MatchScore > candidates[j].MatchScore })

	completedAt := time.Now()
	run.Update(func(r *models.ScrapeRun) {
		r.Jobs = candidates
		r.JobsFound = len(candidates)
		r.CompletedAt = &completedAt
		r.Progress = 100
		r.Status = models.RunCompleted
	})
}

func (o *Orchestrator) fail(run *models.ScrapeRun, reason string) {
	completedAt := time.Now()
	run.Update(func(r *models.ScrapeRun) {
		r.Status = models.RunFailed
		r.Error = reason
		r.CompletedAt = &completedAt
	})
}

func (o *Orchestrator) cancelRun(run *models.ScrapeRun) {
	completedAt := time.Now()
	run.Update(func(r *models.ScrapeRun) {
		r.Status = models.RunCancelled
		r.CompletedAt = &completedAt
	})
}

func isCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// applyStructuralCap filters the primary adapter's raw results through C1's
// structural check before they ever enter merge/dedup. A primary-only run
// never runs C5/C6, so the card-level closed/reposted signal C3 already read
// off the card text (title/snippet/postedLabel) is the only chance to honor
// the unconditional "no job in a completed run has isClosed=true" invariant;
// it is enforced here ahead of the applicant/age check.
func applyStructuralCap(jobs []*models.CanonicalJob, spec *models.FilterSpec, maxHours int) []*models.CanonicalJob {
	var kept []*models.CanonicalJob
	for _, job := range jobs {
		if job.IsClosedBool() {
			job.PassesValidation = false
			job.ValidationReason = apperrors.ReasonClosed
			continue
		}
		if job.IsRepostedBool() {
			job.PassesValidation = false
			job.ValidationReason = apperrors.ReasonReposted
			continue
		}

		ok, reason := filter.JobPassesStructural(job.Applicants, job.PostedHoursAgo, spec.MaxApplicants, maxHours)
		job.PassesValidation = ok
		job.ValidationReason = reason
		if ok {
			kept = append(kept, job)
		}
	}
	return kept
}

func filterPassed(jobs []*models.CanonicalJob) []*models.CanonicalJob {
	var kept []*models.CanonicalJob
	for _, job := range jobs {
		if job.PassesValidation {
			kept = append(kept, job)
		}
	}
	return kept
}

// sortBySignalStrength orders candidates for tier-3 selection: known-low
// applicants first, then newest, then unknown, per §4.8 step 7.
func sortBySignalStrength(jobs []*models.CanonicalJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		a, b := jobs[i], jobs[j]
		aKnown := a.Applicants != nil
		bKnown := b.Applicants != nil
		if aKnown != bKnown {
			return aKnown
		}
		if aKnown && bKnown && *a.Applicants != *b.Applicants {
			return *a.Applicants < *b.Applicants
		}
		aAge, bAge := a.PostedHoursAgo, b.PostedHoursAgo
		if (aAge != nil) != (bAge != nil) {
			return aAge != nil
		}
		if aAge != nil && bAge != nil {
			return *aAge < *bAge
		}
		return false
	})
}

func mergeStats(into *models.FilterStats, add models.FilterStats) {
	into.Total += add.Total
	into.Validated += add.Validated
	into.Passed += add.Passed
	into.FilteredClosed += add.FilteredClosed
	into.FilteredReposted += add.FilteredReposted
	into.FilteredApplicants += add.FilteredApplicants
	into.FilteredAge += add.FilteredAge
	into.Errors += add.Errors
}

// Get/List/Cancel delegate to the registry; kept here so API handlers depend
// on one orchestrator facade rather than both packages.

func (o *Orchestrator) Get(runID, ownerID string) (*models.ScrapeRun, error) {
	return o.registry.Get(runID, ownerID)
}

func (o *Orchestrator) List(ownerID string) []*models.ScrapeRun {
	return o.registry.List(ownerID)
}

func (o *Orchestrator) Cancel(runID, ownerID string) error {
	return o.registry.Cancel(runID, ownerID)
}

// QuickSearch implements the synchronous /scraper/quick path: discovery only
// via the fallback (aggregated-search) adapter, no registry entry, no
// enrichment, per the original's quick_discovery.
func (o *Orchestrator) QuickSearch(ctx context.Context, spec *models.FilterSpec) ([]*models.CanonicalJob, string) {
	result := o.fallback.Search(ctx, spec)
	if !result.Success {
		return nil, "fallback"
	}
	jobs := models.MergeJobs(result.Jobs)
	if len(jobs) > spec.MaxResults {
		jobs = jobs[:spec.MaxResults]
	}
	return jobs, "fallback"
}
