package models

// StartScrapeRequest is the body of POST /scraper/start. It is translated into
// a FilterSpec by the handler after validation and sanitization.
type StartScrapeRequest struct {
	Keywords          string   `json:"keywords" validate:"required,min=1,max=100"`
	Location          string   `json:"location" validate:"max=100"`
	MaxResults        int      `json:"maxResults" validate:"omitempty,min=1,max=100"`
	PostedWithinDays  int      `json:"postedWithinDays" validate:"omitempty,min=1,max=30"`
	MaxApplicants     *int     `json:"maxApplicants,omitempty" validate:"omitempty,min=0"`
	ExperienceLevels  []string `json:"experienceLevels,omitempty" validate:"omitempty,dive,oneof=internship entry associate mid-senior director executive"`
	JobTypes          []string `json:"jobTypes,omitempty" validate:"omitempty,dive,oneof=full-time part-time contract temporary internship volunteer"`
	WorkplaceTypes    []string `json:"workplaceTypes,omitempty" validate:"omitempty,dive,oneof=on-site remote hybrid"`
	EasyApply         bool     `json:"easyApply,omitempty"`
	ValidateHTML      bool     `json:"validateHtml,omitempty"`
	ValidateBrowser   bool     `json:"validateBrowser,omitempty"`
	ValidateTopN      int      `json:"validateTopN,omitempty" validate:"omitempty,min=1"`
	UserSkills        []string `json:"userSkills,omitempty" validate:"omitempty,max=50,dive,max=50"`
}

// QuickScrapeRequest is the body of POST /scraper/quick: a lighter, optionally
// anonymous variant that skips tier-2/tier-3 validation and enrichment.
type QuickScrapeRequest struct {
	Keywords         string `json:"keywords" validate:"required,min=1,max=100"`
	Location         string `json:"location" validate:"max=100"`
	MaxResults       int    `json:"maxResults" validate:"omitempty,min=1,max=50"`
	PostedWithinDays int    `json:"postedWithinDays" validate:"omitempty,oneof=1 7 30"`
}
