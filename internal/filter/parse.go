package filter

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	earlyApplicantPattern = regexp.MustCompile(`(?i)early applicant|be among the first`)
	overApplicantsPattern = regexp.MustCompile(`(?i)(?:over|plus de|\+)\s*([\d,]+)\s*(?:applicants?|candidats?|candidatures?)`)
	plusApplicantsPattern = regexp.MustCompile(`(?i)([\d,]+)\+\s*(?:applicants?|candidats?|candidatures?)?`)
	stdApplicantsPattern  = regexp.MustCompile(`(?i)([\d,]+)\s*(?:applicants?|candidats?|candidaturas?|postulantes?)`)

	postedAgoPattern = regexp.MustCompile(`(?i)(\d+)\s*(hour|day|week|month)s?\s*ago`)
)

var hoursPerUnit = map[string]int{
	"hour":  1,
	"day":   24,
	"week":  168,
	"month": 720,
}

// ParseApplicants detects applicant counts from free text, in this exact
// precedence order: "early applicant" -> 0; "over N"/"plus de N"/"N+" -> N+1;
// plain "N applicants"/"N candidats"/"N candidaturas"/"N postulantes" -> N.
// Returns nil when no pattern matches.
func ParseApplicants(text string) *int {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)

	if earlyApplicantPattern.MatchString(lower) {
		return intPtr(0)
	}

	if m := overApplicantsPattern.FindStringSubmatch(lower); m != nil {
		if n, ok := parseThousands(m[1]); ok {
			return intPtr(n + 1)
		}
	}

	if m := plusApplicantsPattern.FindStringSubmatch(lower); m != nil {
		if n, ok := parseThousands(m[1]); ok {
			return intPtr(n + 1)
		}
	}

	if m := stdApplicantsPattern.FindStringSubmatch(lower); m != nil {
		if n, ok := parseThousands(m[1]); ok {
			return intPtr(n)
		}
	}

	return nil
}

// ParsePostedHours parses "N hour(s)/day(s)/week(s)/month(s) ago" into hours
// since posting.
func ParsePostedHours(text string) *int {
	if text == "" {
		return nil
	}
	m := postedAgoPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	multiplier, ok := hoursPerUnit[m[2]]
	if !ok {
		multiplier = 24
	}
	return intPtr(n * multiplier)
}

func parseThousands(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

func intPtr(n int) *int {
	return &n
}
