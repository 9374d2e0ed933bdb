package models

import (
	"sync"
	"time"
)

// RunStatus is the lifecycle state of a ScrapeRun. It transitions
// queued -> running exactly once, then to exactly one terminal state.
type RunStatus string

const (
	RunQueued    RunStatus = "queued"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
	RunCancelled RunStatus = "cancelled"
)

// IsTerminal reports whether the status is one a run can no longer leave.
func (s RunStatus) IsTerminal() bool {
	return s == RunCompleted || s == RunFailed || s == RunCancelled
}

// SourceCounts tracks how many candidates each adapter contributed.
type SourceCounts struct {
	Primary  int `json:"primary"`
	Fallback int `json:"fallback"`
}

// FilterStats tracks how many candidates were dropped, and why, across the
// whole run (folds in C5's batch validation stats; candidates dropped by C4's
// snippet pre-filter are not counted).
type FilterStats struct {
	Total              int `json:"total"`
	Validated          int `json:"validated"`
	Passed             int `json:"passed"`
	FilteredClosed     int `json:"filteredClosed"`
	FilteredReposted   int `json:"filteredReposted"`
	FilteredApplicants int `json:"filteredApplicants"`
	FilteredAge        int `json:"filteredAge"`
	Errors             int `json:"errors"`
}

// ScrapeRun is the mutable state C9 stores for one scrape. Its owning
// orchestrator task mutates Status/Progress/Jobs/... from a single background
// goroutine while registry lookups (Get/List, and the status/list/cancel API
// handlers behind them) read the same record concurrently; mu guards every
// field below StartedAt against that race so a lookup always observes a
// consistent status/progress/jobs triple rather than a torn read.
type ScrapeRun struct {
	mu sync.RWMutex

	RunID     string     `json:"runId"`
	OwnerID   string     `json:"ownerId"`
	Spec      FilterSpec `json:"spec"`
	StartedAt time.Time  `json:"startedAt"`

	Status      RunStatus  `json:"status"`
	Progress    int        `json:"progress"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	JobsFound int             `json:"jobsFound"`
	Jobs      []*CanonicalJob `json:"jobs,omitempty"`

	SearchMethod string       `json:"searchMethod,omitempty"`
	FallbackUsed bool         `json:"fallbackUsed"`
	Sources      SourceCounts `json:"sources"`
	FilterStats  FilterStats  `json:"filterStats"`

	Error string `json:"error,omitempty"`

	// cancel is invoked through Cancel (the registry's owner-scoped Cancel);
	// it is not serialized and is nil until SetCancelFunc wires it.
	cancel func()
}

// SetCancelFunc wires the context-cancellation hook the registry's Cancel
// operation will invoke. Called once by the orchestrator before the run
// transitions to running.
func (r *ScrapeRun) SetCancelFunc(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = fn
}

// Cancel invokes the wired cancellation hook, if any. Safe to call multiple
// times or before the hook is set.
func (r *ScrapeRun) Cancel() {
	r.mu.RLock()
	fn := r.cancel
	r.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Update applies fn to the run's mutable fields under mu. The owning
// orchestrator task must route every in-place mutation through this method
// rather than assigning fields directly.
func (r *ScrapeRun) Update(fn func(*ScrapeRun)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

// StatusIsTerminal reports the current status's terminal-ness under mu.
func (r *ScrapeRun) StatusIsTerminal() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status.IsTerminal()
}

// Snapshot returns a point-in-time copy of the run's state, safe to read or
// JSON-serialize without racing the owning goroutine's in-place mutations.
// The registry returns snapshots from Get/List rather than the live pointer.
func (r *ScrapeRun) Snapshot() *ScrapeRun {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &ScrapeRun{
		RunID:        r.RunID,
		OwnerID:      r.OwnerID,
		Spec:         r.Spec,
		StartedAt:    r.StartedAt,
		Status:       r.Status,
		Progress:     r.Progress,
		CompletedAt:  r.CompletedAt,
		JobsFound:    r.JobsFound,
		Jobs:         r.Jobs,
		SearchMethod: r.SearchMethod,
		FallbackUsed: r.FallbackUsed,
		Sources:      r.Sources,
		FilterStats:  r.FilterStats,
		Error:        r.Error,
		cancel:       r.cancel,
	}
}

// ToListEntry projects a ScrapeRun into the summary shape GET /scraper/runs
// returns (no jobs payload). Called on an already-snapshotted run.
func (r *ScrapeRun) ToListEntry() RunListEntry {
	return RunListEntry{
		RunID:       r.RunID,
		Status:      r.Status,
		Progress:    r.Progress,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		JobsFound:   r.JobsFound,
		Error:       r.Error,
	}
}
