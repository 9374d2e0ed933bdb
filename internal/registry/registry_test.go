package registry

import (
	"testing"
	"time"

	"jobscout/pkg/models"
)

func newRun(runID, owner string, status models.RunStatus, startedAt time.Time) *models.ScrapeRun {
	return &models.ScrapeRun{
		RunID:     runID,
		OwnerID:   owner,
		Status:    status,
		StartedAt: startedAt,
	}
}

func TestCrossOwnerIsolation(t *testing.T) {
	reg := New()
	run := newRun("run-1", "alice", models.RunRunning, time.Now())
	reg.Put(run)

	if _, err := reg.Get("run-1", "bob"); err == nil {
		t.Fatal("expected not_found for cross-owner Get")
	}
	if err := reg.Cancel("run-1", "bob"); err == nil {
		t.Fatal("expected not_found for cross-owner Cancel")
	}
	if run.Status != models.RunRunning {
		t.Fatalf("bob's cancel attempt must not affect alice's run, got status %q", run.Status)
	}

	got, err := reg.Get("run-1", "alice")
	if err != nil || got.RunID != "run-1" {
		t.Fatalf("owner lookup should succeed, got %v, %v", got, err)
	}
}

func TestListOrderedMostRecentFirst(t *testing.T) {
	reg := New()
	now := time.Now()
	reg.Put(newRun("older", "alice", models.RunCompleted, now.Add(-time.Hour)))
	reg.Put(newRun("newer", "alice", models.RunCompleted, now))
	reg.Put(newRun("other-owner", "bob", models.RunCompleted, now))

	runs := reg.List("alice")
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs for alice, got %d", len(runs))
	}
	if runs[0].RunID != "newer" || runs[1].RunID != "older" {
		t.Fatalf("expected [newer, older], got [%s, %s]", runs[0].RunID, runs[1].RunID)
	}
}

func TestCancelNoopOnTerminalRun(t *testing.T) {
	reg := New()
	called := false
	run := newRun("run-1", "alice", models.RunCompleted, time.Now())
	run.SetCancelFunc(func() { called = true })
	reg.Put(run)

	if err := reg.Cancel("run-1", "alice"); err != nil {
		t.Fatalf("cancel on a terminal run should not error: %v", err)
	}
	if called {
		t.Fatal("cancel hook must not fire for an already-terminal run")
	}
}

func TestEvictionNeverDropsNonTerminalRuns(t *testing.T) {
	reg := New()
	now := time.Now()

	for i := 0; i < maxRetainedRuns+10; i++ {
		status := models.RunCompleted
		if i < 10 {
			status = models.RunRunning
		}
		reg.Put(newRun(idFor(i), "alice", status, now.Add(time.Duration(i)*time.Second)))
	}

	for i := 0; i < 10; i++ {
		if _, err := reg.Get(idFor(i), "alice"); err != nil {
			t.Fatalf("non-terminal run %d must never be evicted: %v", i, err)
		}
	}
	if len(reg.runs) > maxRetainedRuns {
		t.Fatalf("expected registry to stay at or under cap, got %d entries", len(reg.runs))
	}
}

func idFor(i int) string {
	return "run-" + string(rune('a'+i%26)) + string(rune('0'+i/26))
}
