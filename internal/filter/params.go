// Package filter implements C1, the Filter Model: pure functions with no I/O
// that translate user-level search criteria into source-specific parameters
// and that own every regex pattern used to detect closed/reposted listings
// and to parse applicant counts and posted times.
package filter

import (
	"fmt"
	"strings"

	"jobscout/pkg/models"
)

// Facet code tables, grounded on the native Guest API's f_E/f_JT/f_WT codes.
var (
	experienceLevelCodes = map[string]string{
		"internship": "1",
		"entry":      "2",
		"associate":  "3",
		"mid-senior": "4",
		"director":   "5",
		"executive":  "6",
	}

	jobTypeCodes = map[string]string{
		"full-time": "F",
		"part-time": "P",
		"contract":  "C",
		"temporary": "T",
		"internship": "I",
		"volunteer": "V",
	}

	workplaceTypeCodes = map[string]string{
		"on-site": "1",
		"remote":  "2",
		"hybrid":  "3",
	}
)

// DaysToTimeParam converts a day count to the primary endpoint's f_TPR value
// (seconds since posting, r-prefixed). Clamps 0 -> 1 and > 30 -> 30
// regardless of caller, matching the source's defensive clamp.
func DaysToTimeParam(days int) string {
	if days <= 0 {
		days = 1
	}
	if days > 30 {
		days = 30
	}
	return fmt.Sprintf("r%d", days*86400)
}

// ToPrimaryParams produces the exact parameter set the primary endpoint
// accepts for a given page (0-indexed). Idempotent: equal specs and page
// numbers always produce an equal map.
func ToPrimaryParams(spec *models.FilterSpec, page int) map[string]string {
	params := map[string]string{
		"keywords": spec.Keywords,
		"f_TPR":    DaysToTimeParam(spec.PostedWithinDays),
		"sortBy":   "DD",
		"start":    fmt.Sprintf("%d", page*25),
	}

	if spec.Location != "" {
		params["location"] = spec.Location
	}

	if codes := joinCodes(spec.ExperienceLevels, experienceLevelCodes); codes != "" {
		params["f_E"] = codes
	}
	if codes := joinCodes(spec.JobTypes, jobTypeCodes); codes != "" {
		params["f_JT"] = codes
	}
	if codes := joinCodes(spec.WorkplaceTypes, workplaceTypeCodes); codes != "" {
		params["f_WT"] = codes
	}
	if spec.EasyApply {
		params["f_AL"] = "true"
	}

	return params
}

// joinCodes maps each facet value to its code and comma-joins the non-empty
// results. An empty or unset facet list never produces a parameter (open
// question resolution: unset = no filter on that facet).
func joinCodes(values []string, table map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	codes := make([]string, 0, len(values))
	for _, v := range values {
		if code, ok := table[strings.ToLower(v)]; ok {
			codes = append(codes, code)
		}
	}
	return strings.Join(codes, ",")
}

// usGeoTokens / ukGeoTokens / indiaGeoTokens are the curated location-exclusion
// token sets used by ExcludesLocation's symmetric UK/US exclusion (§4.4 step 5).
// Both the UK and US branches also exclude the India tokens, matching the
// source's LOCATION_EXCLUSIONS["uk"]/["us"] (both list "india", "bangalore",
// "hyderabad", "mumbai", ...).
var (
	usGeoTokens    = []string{"united states", "usa", "new york", "california", "texas", "san francisco"}
	ukGeoTokens    = []string{"united kingdom", "london", "manchester", "england", "scotland", "wales"}
	indiaGeoTokens = []string{"india", "bangalore", "hyderabad", "mumbai", "delhi", "pune"}
)

// locationSynonyms expands a curated set of short location hints into a
// phrase the search engine is more likely to match literally.
var locationSynonyms = map[string]string{
	"uk": "United Kingdom",
	"us": "United States",
}

// ToFallbackQuery composes a site-restricted aggregated-search query with the
// literal keyword phrase, a location hint, and four boolean exclusions.
// Recency hints are appended only for short windows (<= 7 days).
func ToFallbackQuery(spec *models.FilterSpec) string {
	location := spec.Location
	if expanded, ok := locationSynonyms[strings.ToLower(location)]; ok {
		location = expanded
	}

	var b strings.Builder
	b.WriteString(`site:linkedin.com/jobs "`)
	b.WriteString(spec.Keywords)
	b.WriteString(`"`)
	if location != "" {
		b.WriteString(" ")
		b.WriteString(location)
	}

	if spec.PostedWithinDays <= 1 {
		b.WriteString(` "posted today"`)
	} else if spec.PostedWithinDays <= 7 {
		b.WriteString(` "days ago"`)
	}

	for _, term := range []string{"no longer accepting", "reposted", "closed", "expired"} {
		b.WriteString(` -"`)
		b.WriteString(term)
		b.WriteString(`"`)
	}

	return b.String()
}

// ExcludesLocation reports whether combined text should be dropped under
// the symmetric UK/US geographic exclusion: target "UK" drops anything
// mentioning a curated US or India token, and target "US" drops anything
// mentioning a curated UK or India token; "remote" is unconstrained.
func ExcludesLocation(targetLocation, combinedText string) bool {
	target := strings.ToLower(strings.TrimSpace(targetLocation))
	text := strings.ToLower(combinedText)

	switch target {
	case "uk", "united kingdom":
		return containsAny(text, usGeoTokens) || containsAny(text, indiaGeoTokens)
	case "us", "usa", "united states":
		return containsAny(text, ukGeoTokens) || containsAny(text, indiaGeoTokens)
	default:
		return false
	}
}

func containsAny(text string, tokens []string) bool {
	for _, t := range tokens {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
