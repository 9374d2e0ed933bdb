// Package fallback implements C4, the Fallback Source Adapter: an
// aggregated-web-search query with boolean exclusions, snippet parsing, and
// tier-1 pre-filtering, grounded on filters.py's build_ddg_exclude_query and
// the card/snippet shapes search engines return for linkedin.com/jobs results.
package fallback

import (
	"context"
	"io"
	"net/http"
	"net/url"
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
	searchEndpoint = "https://html.duckduckgo.com/html/"
	fetchTimeout   = 30 * time.Second
	maxOversample  = 60
)

var (
	hiringInPattern = regexp.MustCompile(`(?i)^(.+?)\s+hiring\s+(.+?)\s+in\s+(.+)$`)
	atCompanyPattern = regexp.MustCompile(`(?i)^(.+?)\s+at\s+(.+)$`)
	dashCompanyPattern = regexp.MustCompile(`(?i)^(.+?)\s*-\s*(.+)$`)
	brandSuffixPattern = regexp.MustCompile(`(?i)\s*[\|\-–]\s*LinkedIn\s*$`)
	indexPagePattern = regexp.MustCompile(`/jobs/(search|collections)`)
)

// Adapter is C4: issues one oversampled aggregated-search query and parses
// heterogeneous result snippets into CanonicalJob candidates.
type Adapter struct {
	client   *http.Client
	outbound *ratelimit.OutboundLimiter
	log      *logrus.Entry
}

// New builds a fallback adapter over the given outbound limiter.
func New(outbound *ratelimit.OutboundLimiter, log *logrus.Entry) *Adapter {
	return &Adapter{
		client:   &http.Client{Timeout: fetchTimeout},
		outbound: outbound,
		log:      log.WithField("component", "fallback_adapter"),
	}
}

// Result is C4's output.
type Result struct {
	Jobs    []*models.CanonicalJob
	Success bool
}

// Search issues the aggregated-search query and parses survivors per §4.4.
func (a *Adapter) Search(ctx context.Context, spec *models.FilterSpec) Result {
	if !a.outbound.CanRequest() {
		return Result{Success: false}
	}
	a.outbound.WaitAndIncrement(ctx)

	query := filter.ToFallbackQuery(spec)
	oversample := spec.MaxResults * 4
	if oversample > maxOversample {
		oversample = maxOversample
	}

	body, status, err := a.fetch(ctx, query)
	if err != nil || status != http.StatusOK {
		a.log.WithError(err).WithField("status", status).Warn("fallback search failed")
		return Result{Success: false}
	}

	candidates, err := parseResults(body)
	if err != nil {
		return Result{Success: false}
	}

	var survivors []*models.CanonicalJob
	for _, c := range candidates {
		if indexPagePattern.MatchString(c.URL) {
			continue
		}

		combined := c.Title + " " + c.Snippet
		if filter.DetectClosed(combined) {
			continue
		}
		if filter.DetectReposted(combined) {
			continue
		}
		if filter.ExcludesLocation(spec.Location, combined) {
			continue
		}

		ok, _ := filter.JobPassesStructural(c.Applicants, c.PostedHoursAgo, spec.MaxApplicants, spec.PostedWithinDays*24)
		if !ok {
			continue
		}

		survivors = append(survivors, c)
		if len(survivors) >= oversample {
			break
		}
	}

	if len(survivors) > spec.MaxResults {
		survivors = survivors[:spec.MaxResults]
	}

	return Result{Jobs: survivors, Success: true}
}

func (a *Adapter) fetch(ctx context.Context, query string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchEndpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	q := req.URL.Query()
	q.Set("q", query)
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

// parseResults parses the aggregated-search result list into candidates with
// source=fallback, validationTier=snippet (the tier-1 pre-filter already ran
// by the time callers see the CanonicalJob).
func parseResults(body []byte) ([]*models.CanonicalJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}

	var jobs []*models.CanonicalJob
	doc.Find(".result, .web-result").Each(func(_ int, result *goquery.Selection) {
		linkEl := result.Find("a.result__a, a.result__url").First()
		href, _ := linkEl.Attr("href")
		rawTitle := strings.TrimSpace(linkEl.Text())
		snippet := strings.TrimSpace(result.Find(".result__snippet").First().Text())

		if href == "" || rawTitle == "" {
			return
		}
		if resolved, ok := resolveRedirect(href); ok {
			href = resolved
		}
		if !strings.Contains(href, "linkedin.com/jobs") {
			return
		}

		company, title := splitTitle(rawTitle)
		location := extractLocationHeuristic(snippet)

		jobs = append(jobs, &models.CanonicalJob{
			URL:            href,
			Title:          title,
			Company:        company,
			Location:       location,
			Snippet:        snippet,
			Applicants:     filter.ParseApplicants(snippet),
			PostedHoursAgo: filter.ParsePostedHours(snippet),
			Source:         models.SourceFallback,
			DiscoveredAt:   time.Now(),
			ValidationTier: models.TierSnippet,
		})
	})
	return jobs, nil
}

// resolveRedirect unwraps a search engine's outbound-redirect link
// (?uddg=<encoded target>) to the real destination URL.
func resolveRedirect(href string) (string, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return href, false
	}
	if target := u.Query().Get("uddg"); target != "" {
		if decoded, err := url.QueryUnescape(target); err == nil {
			return decoded, true
		}
	}
	return href, false
}

// splitTitle recognizes the three textual shapes a result title may take:
// "X hiring Y in Z", "Y at X", "Y - X"; strips a trailing " - LinkedIn" suffix.
func splitTitle(raw string) (company, title string) {
	raw = brandSuffixPattern.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(raw)

	if m := hiringInPattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if m := atCompanyPattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1])
	}
	if m := dashCompanyPattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1])
	}
	return "", raw
}

// extractLocationHeuristic returns the text before the first " · "
// separator of a snippet ("<location> · ..."), or "" when there is none.
// "in <location>" phrasing is not recognized.
func extractLocationHeuristic(snippet string) string {
	if idx := strings.Index(snippet, " · "); idx > 0 {
		return strings.TrimSpace(snippet[:idx])
	}
	return ""
}
