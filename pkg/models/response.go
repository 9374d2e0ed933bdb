package models

import "time"

// StartScrapeResponse is returned immediately by POST /scraper/start.
type StartScrapeResponse struct {
	RunID  string     `json:"runId"`
	Status RunStatus  `json:"status"`
}

// QuickScrapeResponse is returned synchronously by POST /scraper/quick.
type QuickScrapeResponse struct {
	Jobs          []*CanonicalJob `json:"jobs"`
	JobsFound     int             `json:"jobsFound"`
	SearchMethod  string          `json:"searchMethod"`
}

// CancelResponse is returned by POST /scraper/cancel/{runId}.
type CancelResponse struct {
	Message string `json:"message"`
	RunID   string `json:"runId"`
}

// QuotaResponse is returned by GET /scraper/quota.
type QuotaResponse struct {
	RequestsRemaining int  `json:"requestsRemaining"`
	MonthlyLimit      int  `json:"monthlyLimit"`
	APIConfigured     bool `json:"apiConfigured"`
}

// RunListEntry is the shape returned by GET /scraper/runs: a ScrapeRun without
// its jobs payload.
type RunListEntry struct {
	RunID       string     `json:"runId"`
	Status      RunStatus  `json:"status"`
	Progress    int        `json:"progress"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	JobsFound   int        `json:"jobsFound"`
	Error       string     `json:"error,omitempty"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}
