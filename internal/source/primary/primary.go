// Package primary implements C3, the Primary Source Adapter: a paginated GET
// against the native job-listings endpoint, grounded on the original's
// linkedin_guest_api.py (LinkedInGuestAPI.search_jobs / _parse_job_card).
package primary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"jobscout/internal/filter"
	"jobscout/internal/ratelimit"
	"jobscout/pkg/models"
)

const (
	guestAPIBase = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"
	pageSize     = 25
	fetchTimeout = 30 * time.Second
)

var (
	entityURNPattern = regexp.MustCompile(`jobPosting:(\d+)`)
	jobViewHrefPattern = regexp.MustCompile(`/jobs/view/(\d+)`)
)

// Adapter is C3: a stateless HTTP client over the native endpoint, paced by
// a shared outbound limiter.
type Adapter struct {
	client   *http.Client
	outbound *ratelimit.OutboundLimiter
	log      *logrus.Entry
}

// New builds a primary adapter over the given outbound limiter.
func New(outbound *ratelimit.OutboundLimiter, log *logrus.Entry) *Adapter {
	return &Adapter{
		client:   &http.Client{Timeout: fetchTimeout},
		outbound: outbound,
		log:      log.WithField("component", "primary_adapter"),
	}
}

// Result is C3's output: the parsed candidates plus a success flag. Success
// is false when the endpoint signaled blocked (429) or any other non-200,
// which tells the orchestrator to fall back.
type Result struct {
	Jobs    []*models.CanonicalJob
	Success bool
	Blocked bool
}

// Search issues paginated GETs until maxResults is reached or a page yields
// no new records, per §4.3.
func (a *Adapter) Search(ctx context.Context, spec *models.FilterSpec) Result {
	var jobs []*models.CanonicalJob
	seenIDs := make(map[string]bool)

	for page := 0; len(jobs) < spec.MaxResults; page++ {
		if !a.outbound.CanRequest() {
			a.log.Debug("outbound session budget exhausted")
			break
		}
		a.outbound.WaitAndIncrement(ctx)

		body, status, err := a.fetchPage(ctx, spec, page)
		if err != nil {
			a.log.WithError(err).Warn("primary fetch failed")
			return Result{Jobs: jobs, Success: len(jobs) > 0, Blocked: false}
		}

		if status == http.StatusTooManyRequests {
			a.log.Info("primary endpoint returned 429, signaling blocked")
			return Result{Jobs: jobs, Success: false, Blocked: true}
		}
		if status != http.StatusOK {
			a.log.WithField("status", status).Info("primary endpoint non-200")
			return Result{Jobs: jobs, Success: false, Blocked: true}
		}

		pageJobs, err := parseCards(body)
		if err != nil {
			a.log.WithError(err).Warn("failed to parse card list")
			break
		}
		if len(pageJobs) == 0 {
			break
		}

		added := 0
		for _, job := range pageJobs {
			if job.ExternalID != "" && seenIDs[job.ExternalID] {
				continue
			}
			if job.ExternalID != "" {
				seenIDs[job.ExternalID] = true
			}
			jobs = append(jobs, job)
			added++
			if len(jobs) >= spec.MaxResults {
				break
			}
		}
		if added == 0 {
			break
		}
	}

	return Result{Jobs: jobs, Success: true, Blocked: false}
}

func (a *Adapter) fetchPage(ctx context.Context, spec *models.FilterSpec, page int) ([]byte, int, error) {
	params := filter.ToPrimaryParams(spec, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, guestAPIBase, nil)
	if err != nil {
		return nil, 0, err
	}
	q := req.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	req.URL.RawQuery = q.Encode()

	for k, v := range ratelimit.BrowserHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return buf, resp.StatusCode, nil
}

// parseCards parses the guest endpoint's HTML card list, grounded on
// _parse_job_card's data-entity-urn / base-card__full-link fallback chain.
func parseCards(body []byte) ([]*models.CanonicalJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	var jobs []*models.CanonicalJob
	doc.Find("li, .base-card, .job-search-card").Each(func(_ int, card *goquery.Selection) {
		job := parseCard(card)
		if job != nil {
			jobs = append(jobs, job)
		}
	})
	return jobs, nil
}

func parseCard(card *goquery.Selection) *models.CanonicalJob {
	externalID := extractCardID(card)
	if externalID == "" {
		return nil
	}

	title := textOrDefault(card, "h3.base-search-card__title, .job-search-card__title", "Unknown Title")
	company := textOrDefault(card, "h4.base-search-card__subtitle, .job-search-card__subtitle", "Unknown Company")
	location := textOrDefault(card, ".job-search-card__location, .base-search-card__metadata", "")
	postedLabel := textOrDefault(card, "time, .job-search-card__listdate", "")
	snippet := textOrDefault(card, ".job-search-card__snippet", "")

	var applicants *int
	if applicantText := textOrDefault(card, ".job-search-card__num-applicants", ""); applicantText != "" {
		applicants = filter.ParseApplicants(applicantText)
	}

	job := &models.CanonicalJob{
		ExternalID:     externalID,
		URL:            fmt.Sprintf("https://www.linkedin.com/jobs/view/%s", externalID),
		Title:          title,
		Company:        company,
		Location:       location,
		PostedLabel:    postedLabel,
		Snippet:        snippet,
		Applicants:     applicants,
		PostedHoursAgo: filter.ParsePostedHours(postedLabel),
		Source:         models.SourcePrimary,
		DiscoveredAt:   time.Now(),
		ValidationTier: models.TierNone,
	}

	// Card-level closed/reposted detection: a run with no validation pass
	// (validateHtml=validateBrowser=false) must still honor the unconditional
	// "no job in a completed run has isClosed=true" invariant, so these
	// signals are read from whatever text the card itself carries rather
	// than deferred entirely to C5/C6.
	combined := title + " " + snippet + " " + postedLabel
	if filter.DetectClosed(combined) {
		job.IsClosed = models.TriTrue
	}
	if filter.DetectReposted(combined) {
		job.IsReposted = models.TriTrue
	}

	return job
}

func extractCardID(card *goquery.Selection) string {
	if urn, ok := card.Attr("data-entity-urn"); ok {
		if m := entityURNPattern.FindStringSubmatch(urn); m != nil {
			return m[1]
		}
	}
	if href, ok := card.Find("a.base-card__full-link").Attr("href"); ok {
		if m := jobViewHrefPattern.FindStringSubmatch(href); m != nil {
			return m[1]
		}
	}
	return ""
}

func textOrDefault(card *goquery.Selection, selector, fallback string) string {
	text := strings.TrimSpace(card.Find(selector).First().Text())
	if text == "" {
		return fallback
	}
	return text
}
