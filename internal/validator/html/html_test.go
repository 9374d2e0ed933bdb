package html

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"jobscout/internal/ratelimit"
	"jobscout/pkg/models"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func TestValidateOneDetectsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>We are no longer accepting applications</body></html>"))
	}))
	defer srv.Close()

	v := New(1, ratelimit.NewOutboundLimiter(), testLogger())
	job := &models.CanonicalJob{URL: srv.URL}
	v.ValidateOne(context.Background(), job, 100, 168)

	if !job.IsClosedBool() {
		t.Fatal("expected job to be marked closed")
	}
	if job.PassesValidation {
		t.Fatal("a closed job must not pass validation")
	}
	if job.ValidationTier != models.TierHTML {
		t.Fatalf("expected validationTier=html, got %q", job.ValidationTier)
	}
}

func TestValidateOneAppliesApplicantCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>45 applicants for this role</body></html>"))
	}))
	defer srv.Close()

	v := New(1, ratelimit.NewOutboundLimiter(), testLogger())
	job := &models.CanonicalJob{URL: srv.URL}
	v.ValidateOne(context.Background(), job, 30, 168)

	if job.PassesValidation {
		t.Fatal("expected applicant cap to drop this job")
	}
	if job.ValidationReason != "too_many_applicants:45" {
		t.Fatalf("expected too_many_applicants:45, got %q", job.ValidationReason)
	}
}

func TestValidateOneFailsOpenOn429(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	v := New(1, ratelimit.NewOutboundLimiter(), testLogger())
	job := &models.CanonicalJob{URL: srv.URL}
	v.ValidateOne(context.Background(), job, 30, 168)

	if !job.PassesValidation {
		t.Fatal("a validator that cannot fetch the page must fail open")
	}
}

func TestValidateOneFailsOpenOnUnreachableHost(t *testing.T) {
	v := New(1, ratelimit.NewOutboundLimiter(), testLogger())
	job := &models.CanonicalJob{URL: "http://127.0.0.1:1"}
	v.ValidateOne(context.Background(), job, 30, 168)

	if !job.PassesValidation {
		t.Fatal("a validator that cannot connect must fail open")
	}
}

func TestValidateOneFailsOpenOnDeniedOutboundPermit(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte("<html><body>We are no longer accepting applications</body></html>"))
	}))
	defer srv.Close()

	outbound := ratelimit.NewOutboundLimiter()
	for outbound.CanRequest() {
		outbound.WaitAndIncrement(context.Background())
	}

	v := New(1, outbound, testLogger())
	job := &models.CanonicalJob{URL: srv.URL}
	v.ValidateOne(context.Background(), job, 100, 168)

	if called {
		t.Fatal("expected the validator to never reach the network once the outbound budget is exhausted")
	}
	if !job.PassesValidation {
		t.Fatal("a denied outbound permit must fail open")
	}
	if job.ValidationReason != "rate_limit_exceeded" {
		t.Fatalf("expected rate_limit_exceeded, got %q", job.ValidationReason)
	}
}

func TestValidateBatchBoundsConcurrencyAndTalliesStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>Be an early applicant</body></html>"))
	}))
	defer srv.Close()

	v := New(2, ratelimit.NewOutboundLimiter(), testLogger())
	jobs := []*models.CanonicalJob{
		{URL: srv.URL}, {URL: srv.URL}, {URL: srv.URL},
	}

	stats := v.ValidateBatch(context.Background(), jobs, 100, 168)

	if stats.Total != 3 || stats.Validated != 3 {
		t.Fatalf("expected total=validated=3, got %+v", stats)
	}
	if stats.Passed != 3 {
		t.Fatalf("expected all 3 to pass, got %+v", stats)
	}
}
