package filter

import "testing"

func TestJobPassesStructuralApplicantCap(t *testing.T) {
	over := 45
	ok, reason := JobPassesStructural(&over, nil, 30, 168)
	if ok || reason != "too_many_applicants:45" {
		t.Fatalf("expected drop with too_many_applicants:45, got ok=%v reason=%q", ok, reason)
	}

	zero := 0
	ok, _ = JobPassesStructural(&zero, nil, 0, 168)
	if !ok {
		t.Fatal("applicants=0 must pass any cap, including maxApplicants=0")
	}
}

func TestJobPassesStructuralAgeCap(t *testing.T) {
	old := 336
	ok, reason := JobPassesStructural(nil, &old, 100, 168)
	if ok || reason != "too_old:336h" {
		t.Fatalf("expected drop with too_old:336h, got ok=%v reason=%q", ok, reason)
	}

	recent := 72
	ok, _ = JobPassesStructural(nil, &recent, 100, 168)
	if !ok {
		t.Fatal("72h posting with 168h cap must pass")
	}
}

func TestJobPassesStructuralNilNeverDrops(t *testing.T) {
	ok, _ := JobPassesStructural(nil, nil, 0, 0)
	if !ok {
		t.Fatal("nil applicants/postedHoursAgo must never cause a drop")
	}
}

func TestDetectClosedMultilingual(t *testing.T) {
	cases := []string{
		"No longer accepting applications",
		"Applications closed",
		"Plus d'applications acceptées",
		"Ya no acepta solicitudes",
	}
	for _, text := range cases {
		if !DetectClosed(text) {
			t.Errorf("expected DetectClosed to match %q", text)
		}
	}
}

func TestDetectRepostedMultilingual(t *testing.T) {
	cases := []string{
		"Reposted 5 years ago - 200+ applicants",
		"Reposté il y a 3 jours",
	}
	for _, text := range cases {
		if !DetectReposted(text) {
			t.Errorf("expected DetectReposted to match %q", text)
		}
	}
}
