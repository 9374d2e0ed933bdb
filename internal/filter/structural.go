package filter

import "jobscout/pkg/apperrors"

// JobPassesStructural applies the applicant and age checks common to every
// tier: null fields never cause a drop, and applicants == 0 always passes
// (the "early applicant" case).
func JobPassesStructural(applicants, postedHoursAgo *int, maxApplicants, maxHours int) (bool, string) {
	if applicants != nil && *applicants > 0 && *applicants > maxApplicants {
		return false, apperrors.ReasonTooManyApplicants(*applicants)
	}
	if postedHoursAgo != nil && *postedHoursAgo > maxHours {
		return false, apperrors.ReasonTooOld(*postedHoursAgo)
	}
	return true, "passed"
}
