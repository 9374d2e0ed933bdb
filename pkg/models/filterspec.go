package models

// FilterSpec is the immutable input to a scrape, built from a validated and
// sanitized StartScrapeRequest. Construction clamps and defaults every field
// so that downstream components never have to re-validate.
type FilterSpec struct {
	Keywords         string
	Location         string
	MaxResults       int
	PostedWithinDays int
	MaxApplicants    int
	ExperienceLevels []string
	JobTypes         []string
	WorkplaceTypes   []string
	EasyApply        bool
	ValidateHTML     bool
	ValidateBrowser  bool
	ValidateTopN     int
	UserSkills       []string
}

const (
	defaultMaxResults       = 25
	defaultPostedWithinDays = 7
	defaultMaxApplicants    = 100
	defaultValidateTopN     = 10
)

// NewFilterSpec applies defaults and the postedWithinDays boundary handling
// to a raw request: a value above 30 is clamped to 30, and an unset or
// non-positive value becomes the 7-day default. An explicit 0 is not told
// apart from unset, so it also becomes 7 rather than 1.
func NewFilterSpec(req *StartScrapeRequest) *FilterSpec {
	spec := &FilterSpec{
		Keywords:         req.Keywords,
		Location:         req.Location,
		MaxResults:       req.MaxResults,
		PostedWithinDays: req.PostedWithinDays,
		MaxApplicants:    defaultMaxApplicants,
		ExperienceLevels: req.ExperienceLevels,
		JobTypes:         req.JobTypes,
		WorkplaceTypes:   req.WorkplaceTypes,
		EasyApply:        req.EasyApply,
		ValidateHTML:     req.ValidateHTML,
		ValidateBrowser:  req.ValidateBrowser,
		ValidateTopN:     req.ValidateTopN,
		UserSkills:       req.UserSkills,
	}

	if spec.MaxResults <= 0 {
		spec.MaxResults = defaultMaxResults
	}
	if req.MaxApplicants != nil {
		spec.MaxApplicants = *req.MaxApplicants
	}
	if spec.PostedWithinDays <= 0 {
		spec.PostedWithinDays = defaultPostedWithinDays
	}
	if spec.PostedWithinDays > 30 {
		spec.PostedWithinDays = 30
	}

	if spec.ValidateTopN <= 0 {
		spec.ValidateTopN = defaultValidateTopN
	}
	if spec.ValidateTopN > spec.MaxResults {
		spec.ValidateTopN = spec.MaxResults
	}

	return spec
}

// NewQuickFilterSpec builds the minimal spec the /scraper/quick path needs:
// discovery only, no validation tiers, no enrichment.
func NewQuickFilterSpec(req *QuickScrapeRequest) *FilterSpec {
	spec := &FilterSpec{
		Keywords:         req.Keywords,
		Location:         req.Location,
		MaxResults:       req.MaxResults,
		PostedWithinDays: req.PostedWithinDays,
		MaxApplicants:    defaultMaxApplicants,
		ValidateTopN:     defaultValidateTopN,
	}

	if spec.MaxResults <= 0 {
		spec.MaxResults = defaultMaxResults
	}
	if spec.PostedWithinDays <= 0 {
		spec.PostedWithinDays = defaultPostedWithinDays
	}

	return spec
}
