package browser

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"

	"jobscout/internal/filter"
	"jobscout/pkg/apperrors"
	"jobscout/pkg/models"
)

const navigationTimeout = 20 * time.Second

// selector cascades mirror LINKEDIN_SELECTORS: an ordered list tried in turn,
// first non-empty match wins.
var (
	applicantsSelectors = []string{
		".num-applicants__caption",
		".topcard__flavor--bullet",
		"[class*=applicant]",
	}
	applyButtonSelectors = []string{
		".jobs-apply-button",
		"button[data-control-name=jobdetails_topcard_inapply]",
	}
	postedTimeSelectors = []string{
		".posted-time-ago__text",
		".jobs-unified-top-card__posted-date",
		"time[datetime]",
	}
	// closedSelectors / repostedSelectors mirror LINKEDIN_SELECTORS["closed"]
	// and ["reposted"]: element presence alone is the signal, independent of
	// the literal-text check against bodyText.
	closedSelectors = []string{
		".jobs-unified-top-card__capped-applications-badge",
		"[class*=closed]",
	}
	repostedSelectors = []string{
		"[class*=reposted]",
	}
)

// Validator is C6: navigates to a candidate's posting page in a real
// rendered browser and re-derives the same closed/reposted/applicants/age
// signals C5 reads from raw HTML.
type Validator struct {
	pool *Pool
	log  *logrus.Entry
}

// New builds a browser validator over the given pool.
func New(pool *Pool, log *logrus.Entry) *Validator {
	return &Validator{pool: pool, log: log.WithField("component", "browser_validator")}
}

// ValidateOne navigates to job.URL, reads the rendered DOM, and raises
// job.ValidationTier to TierBrowser. As with C5, any navigation failure or
// timeout fails open: the candidate is never dropped solely because the
// browser could not render its page.
func (v *Validator) ValidateOne(ctx context.Context, job *models.CanonicalJob, maxApplicants, maxHours int) {
	browser, err := v.pool.acquire(ctx)
	if err != nil {
		job.PassesValidation = true
		job.ValidationReason = apperrors.ReasonTimeout
		return
	}
	defer v.pool.release(browser)

	page, err := newStealthPage(browser)
	if err != nil {
		v.log.WithError(err).Warn("failed to open stealth page")
		job.PassesValidation = true
		job.ValidationReason = apperrors.ReasonError(err)
		return
	}
	defer page.Close()

	page = page.Context(ctx)
	page = page.Timeout(navigationTimeout)

	if err := page.Navigate(job.URL); err != nil {
		job.PassesValidation = true
		job.ValidationReason = apperrors.ReasonTimeout
		return
	}
	if err := page.WaitStable(2 * time.Second); err != nil {
		v.log.WithError(err).Debug("page did not settle before timeout")
	}

	bodyText, err := v.extractText(page, "body")
	if err != nil {
		job.PassesValidation = true
		job.ValidationReason = apperrors.ReasonTimeout
		return
	}

	if v.hasMatch(page, closedSelectors) || filter.DetectClosed(bodyText) {
		job.ValidationTier = models.TierBrowser
		job.IsClosed = models.TriTrue
		job.PassesValidation = false
		job.ValidationReason = apperrors.ReasonClosed
		return
	}
	if v.hasMatch(page, repostedSelectors) || filter.DetectReposted(bodyText) {
		job.ValidationTier = models.TierBrowser
		job.IsReposted = models.TriTrue
		job.PassesValidation = false
		job.ValidationReason = apperrors.ReasonReposted
		return
	}

	// No closed/reposted signal fired. An apply-button selector failing to
	// match (different markup, slow render, A/B layout) is not itself a
	// closed signal — absent any explicit indicator, the posting is assumed
	// active, matching the source's "if no apply button found but no closed
	// indicator, assume active".
	if !v.hasMatch(page, applyButtonSelectors) {
		v.log.Debug("no apply-button selector matched; assuming active")
	}

	if text := v.firstMatch(page, applicantsSelectors); text != "" {
		if n := filter.ParseApplicants(text); n != nil {
			job.Applicants = n
		}
	}
	if h := v.extractPostedHours(page); h != nil {
		job.PostedHoursAgo = h
	}

	ok, reason := filter.JobPassesStructural(job.Applicants, job.PostedHoursAgo, maxApplicants, maxHours)
	job.ValidationTier = models.TierBrowser
	job.IsClosed = models.TriFalse
	job.IsReposted = models.TriFalse
	job.PassesValidation = ok
	job.ValidationReason = reason
}

// hasMatch reports whether any selector in the cascade matches an element on
// the page, regardless of its text content.
func (v *Validator) hasMatch(page *rod.Page, selectors []string) bool {
	for _, sel := range selectors {
		if el, err := page.Element(sel); err == nil && el != nil {
			return true
		}
	}
	return false
}

// extractPostedHours prefers the ISO datetime attribute on a matching
// <time>/posted-date element, falling back to parsing its rendered text.
func (v *Validator) extractPostedHours(page *rod.Page) *int {
	for _, sel := range postedTimeSelectors {
		el, err := page.Element(sel)
		if err != nil || el == nil {
			continue
		}
		if attr, err := el.Attribute("datetime"); err == nil && attr != nil && *attr != "" {
			if posted, err := time.Parse(time.RFC3339, *attr); err == nil {
				hours := int(time.Since(posted).Hours())
				return &hours
			}
		}
		if text, err := el.Text(); err == nil {
			if h := filter.ParsePostedHours(strings.TrimSpace(text)); h != nil {
				return h
			}
		}
	}
	return nil
}

// firstMatch tries each selector in order and returns the first element's
// trimmed text, or "" if none matched within the page's timeout.
func (v *Validator) firstMatch(page *rod.Page, selectors []string) string {
	for _, sel := range selectors {
		el, err := page.Element(sel)
		if err != nil || el == nil {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func (v *Validator) extractText(page *rod.Page, selector string) (string, error) {
	el, err := page.Element(selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// ValidateBatch runs ValidateOne concurrently, one goroutine per job, with at
// most the pool's maxInstances in flight (a channel semaphore sized to the
// pool), since browser instances are an expensive, capped resource.
func (v *Validator) ValidateBatch(ctx context.Context, jobs []*models.CanonicalJob, maxApplicants, maxHours int) models.FilterStats {
	stats := models.FilterStats{Total: len(jobs)}
	done := make(chan struct{}, v.pool.maxInstances)
	var results = make(chan *models.CanonicalJob, len(jobs))

	for _, job := range jobs {
		job := job
		done <- struct{}{}
		go func() {
			defer func() { <-done }()
			v.ValidateOne(ctx, job, maxApplicants, maxHours)
			results <- job
		}()
	}

	for range jobs {
		job := <-results
		stats.Validated++
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

	return stats
}
