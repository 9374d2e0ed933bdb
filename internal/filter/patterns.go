package filter

import "regexp"

// ClosedPatterns detect a listing explicitly saying applications are no
// longer accepted, in English, French, and Spanish. Kept as data (not
// control flow) so a new language is a slice append, not a patch.
var ClosedPatterns = compileAll([]string{
	`no longer accepting`,
	`applications?\s+(are\s+)?closed`,
	`(this\s+)?job\s+(is\s+)?no longer available`,
	`posting\s+(has\s+)?expired`,
	`plus\s+d.applications?\s+accept[ée]es`, // French
	`candidatures?\s+ferm[ée]es`,            // French
	`ya no acepta`,                          // Spanish
})

// RepostedPatterns detect a listing that is a re-publication of an earlier one.
var RepostedPatterns = compileAll([]string{
	`reposted\s+\d+\s*(day|week|month|year)s?\s*ago`,
	`repost[ée]`, // French
	`reposted`,
	`republished`,
})

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
	}
	return compiled
}

// DetectClosed reports whether text matches any closed-listing pattern.
func DetectClosed(text string) bool {
	return matchesAny(ClosedPatterns, text)
}

// DetectReposted reports whether text matches any reposted-listing pattern.
func DetectReposted(text string) bool {
	return matchesAny(RepostedPatterns, text)
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
