// Package html implements C5, the Tier-2 HTML Validator: a bounded-concurrency
// per-candidate fetch-and-inspect pass that raises survivors from
// validationTier=snippet/none to validationTier=html, grounded on the
// original's html_validator.py (validate_job_html / validate_jobs_html).
package html

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"jobscout/internal/filter"
	"jobscout/internal/ratelimit"
	"jobscout/pkg/apperrors"
	"jobscout/pkg/models"
)

const (
	fetchTimeout         = 15 * time.Second
	defaultMaxConcurrent = 5
)

// Validator is C5.
type Validator struct {
	client        *http.Client
	maxConcurrent int
	outbound      *ratelimit.OutboundLimiter
	log           *logrus.Entry
}

// New builds an HTML validator with the given concurrency bound. A
// maxConcurrent <= 0 falls back to the spec default of 5.
func New(maxConcurrent int, outbound *ratelimit.OutboundLimiter, log *logrus.Entry) *Validator {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Validator{
		client:        &http.Client{Timeout: fetchTimeout},
		maxConcurrent: maxConcurrent,
		outbound:      outbound,
		log:           log.WithField("component", "html_validator"),
	}
}

// ValidateOne fetches a single candidate's posting page and applies the
// ordered checks: closed, reposted, applicants, age. Any fetch failure,
// timeout, or 429 response fails open (passes = true) per §4.5 — a
// validator that cannot see the page must never be the reason a candidate
// is dropped. Any other non-200 status fails the candidate with reason
// http_<code>. A denied C2 outbound permit fails open, without ever
// reaching the network.
func (v *Validator) ValidateOne(ctx context.Context, job *models.CanonicalJob, maxApplicants, maxHours int) {
	if !v.outbound.CanRequest() {
		v.passOpen(job, apperrors.ReasonRateLimited)
		return
	}
	v.outbound.WaitAndIncrement(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.URL, nil)
	if err != nil {
		v.passOpen(job, apperrors.ReasonError(err))
		return
	}
	for k, val := range ratelimit.BrowserHeaders() {
		req.Header.Set(k, val)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		v.passOpen(job, apperrors.ReasonTimeout)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		v.passOpen(job, apperrors.ReasonHTTPStatus(resp.StatusCode))
		return
	}
	if resp.StatusCode != http.StatusOK {
		job.PassesValidation = false
		job.ValidationReason = apperrors.ReasonHTTPStatus(resp.StatusCode)
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		v.passOpen(job, apperrors.ReasonError(err))
		return
	}

	text := string(body)

	if filter.DetectClosed(text) {
		job.ValidationTier = models.TierHTML
		job.IsClosed = models.TriTrue
		job.PassesValidation = false
		job.ValidationReason = apperrors.ReasonClosed
		return
	}
	if filter.DetectReposted(text) {
		job.ValidationTier = models.TierHTML
		job.IsReposted = models.TriTrue
		job.PassesValidation = false
		job.ValidationReason = apperrors.ReasonReposted
		return
	}

	if applicants := filter.ParseApplicants(text); applicants != nil {
		job.Applicants = applicants
	}
	if hours := filter.ParsePostedHours(text); hours != nil {
		job.PostedHoursAgo = hours
	}

	ok, reason := filter.JobPassesStructural(job.Applicants, job.PostedHoursAgo, maxApplicants, maxHours)
	job.ValidationTier = models.TierHTML
	job.IsClosed = models.TriFalse
	job.IsReposted = models.TriFalse
	job.PassesValidation = ok
	job.ValidationReason = reason
}

func (v *Validator) passOpen(job *models.CanonicalJob, reason string) {
	job.PassesValidation = true
	job.ValidationReason = reason
}

// BatchStats is the aggregate outcome of a ValidateBatch call, mirroring
// validate_jobs_html's stats dict.
type BatchStats = models.FilterStats

// ValidateBatch runs ValidateOne over every candidate with at most
// maxConcurrent in flight, and returns the batch statistics alongside the
// (mutated in place) job slice.
func (v *Validator) ValidateBatch(ctx context.Context, jobs []*models.CanonicalJob, maxApplicants, maxHours int) BatchStats {
	stats := BatchStats{Total: len(jobs)}
	if len(jobs) == 0 {
		return stats
	}

	sem := make(chan struct{}, v.maxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, job := range jobs {
		job := job
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			select {
			case <-ctx.Done():
				return
			default:
			}

			v.ValidateOne(ctx, job, maxApplicants, maxHours)

			mu.Lock()
			defer mu.Unlock()
			stats.Validated++
			classify(&stats, job)
		}()
	}
	wg.Wait()

	return stats
}

// classify tallies a single validated job into the batch's outcome buckets.
func classify(stats *BatchStats, job *models.CanonicalJob) {
	switch {
	case job.IsClosedBool():
		stats.FilteredClosed++
	case job.IsRepostedBool():
		stats.FilteredReposted++
	case job.PassesValidation:
		stats.Passed++
	case strings.HasPrefix(job.ValidationReason, "too_many_applicants:"):
		stats.FilteredApplicants++
	case strings.HasPrefix(job.ValidationReason, "too_old:"):
		stats.FilteredAge++
	default:
		stats.Errors++
	}
}
