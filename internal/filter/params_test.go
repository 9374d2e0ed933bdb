package filter

import (
	"testing"

	"jobscout/pkg/models"
)

func TestToPrimaryParamsIdempotent(t *testing.T) {
	spec := &models.FilterSpec{
		Keywords:         "Software Engineer",
		Location:         "London",
		PostedWithinDays: 7,
		ExperienceLevels: []string{"mid-senior", "director"},
		JobTypes:         []string{"full-time"},
	}

	a := ToPrimaryParams(spec, 0)
	b := ToPrimaryParams(spec, 0)

	if len(a) != len(b) {
		t.Fatalf("param maps differ in size: %v vs %v", a, b)
	}
	for k, v := range a {
		if b[k] != v {
			t.Fatalf("param %q differs: %q vs %q", k, v, b[k])
		}
	}
}

func TestToPrimaryParamsEmptyFacetsOmitted(t *testing.T) {
	spec := &models.FilterSpec{Keywords: "Engineer", PostedWithinDays: 7}
	params := ToPrimaryParams(spec, 0)

	for _, key := range []string{"f_E", "f_JT", "f_WT"} {
		if _, ok := params[key]; ok {
			t.Fatalf("expected %q to be omitted when facet list is unset, got %q", key, params[key])
		}
	}
}

func TestDaysToTimeParamClamps(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, "r86400"},
		{-5, "r86400"},
		{1, "r86400"},
		{31, "r2592000"},
		{365, "r2592000"},
	}
	for _, tc := range cases {
		got := DaysToTimeParam(tc.days)
		if got != tc.want {
			t.Fatalf("DaysToTimeParam(%d) = %q, want %q", tc.days, got, tc.want)
		}
	}
}

func TestExcludesLocationSymmetric(t *testing.T) {
	if !ExcludesLocation("UK", "Great opportunity in New York, USA") {
		t.Fatal("expected UK target to exclude a US-geo-tagged listing")
	}
	if !ExcludesLocation("US", "Fantastic role based in London, England") {
		t.Fatal("expected US target to exclude a UK-geo-tagged listing")
	}
	if ExcludesLocation("remote", "Remote role, work from anywhere") {
		t.Fatal("remote target must never be excluded")
	}
}

func TestExcludesLocationIndiaTokenExcludedFromBoth(t *testing.T) {
	if !ExcludesLocation("UK", "Great opportunity in Bangalore, India") {
		t.Fatal("expected UK target to exclude an India-geo-tagged listing")
	}
	if !ExcludesLocation("US", "Fantastic role based in Hyderabad, India") {
		t.Fatal("expected US target to exclude an India-geo-tagged listing")
	}
}
