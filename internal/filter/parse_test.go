package filter

import "testing"

func TestParseApplicantsPrecedence(t *testing.T) {
	cases := []struct {
		name string
		text string
		want *int
	}{
		{"early applicant", "Be an early applicant", intPtr(0)},
		{"over N english", "Over 200 applicants", intPtr(201)},
		{"plus de N french", "Plus de 50 candidats", intPtr(51)},
		{"N plus", "100+ applicants", intPtr(101)},
		{"plain english", "45 applicants", intPtr(45)},
		{"plain french", "12 candidats", intPtr(12)},
		{"plain spanish candidaturas", "8 candidaturas", intPtr(8)},
		{"plain spanish postulantes", "3 postulantes", intPtr(3)},
		{"thousands separator", "1,234 applicants", intPtr(1234)},
		{"no match", "apply now", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseApplicants(tc.text)
			assertIntPtrEqual(t, got, tc.want)
		})
	}
}

func TestParseApplicantsRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 42, 100, 1234} {
		text := formatApplicants(n)
		got := ParseApplicants(text)
		if got == nil || *got != n {
			t.Fatalf("round trip failed for %d: text=%q got=%v", n, text, got)
		}
	}
}

func formatApplicants(n int) string {
	if n == 0 {
		return "Be an early applicant"
	}
	return itoa(n) + " applicants"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestParsePostedHours(t *testing.T) {
	cases := []struct {
		text string
		want *int
	}{
		{"3 days ago", intPtr(72)},
		{"2 weeks ago", intPtr(336)},
		{"1 hour ago", intPtr(1)},
		{"1 month ago", intPtr(720)},
		{"no date here", nil},
	}

	for _, tc := range cases {
		got := ParsePostedHours(tc.text)
		assertIntPtrEqual(t, got, tc.want)
	}
}

func assertIntPtrEqual(t *testing.T, got, want *int) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got != nil && *got != *want {
		t.Fatalf("got %d, want %d", *got, *want)
	}
}
