package sanitize

import "testing"

func TestStringTruncatesAndEscapes(t *testing.T) {
	got := String("<script>alert(1)</script>", 10)
	if len(got) == 0 {
		t.Fatal("expected non-empty escaped output")
	}
	if len([]rune(got)) > 10 {
		t.Fatalf("expected truncation to 10 runes, got %d: %q", len([]rune(got)), got)
	}
	if got != "&lt;script" {
		t.Fatalf("expected escaped and truncated output %q, got %q", "&lt;script", got)
	}
}

func TestContainsForbiddenChars(t *testing.T) {
	cases := map[string]bool{
		"Software Engineer": false,
		"C++ <Developer>":   true,
		"data{pipeline}":    true,
		"backend|frontend":  true,
	}
	for input, want := range cases {
		if got := ContainsForbiddenChars(input); got != want {
			t.Errorf("ContainsForbiddenChars(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestSkillsCapsCountAndLength(t *testing.T) {
	values := make([]string, MaxSkillCount+10)
	for i := range values {
		values[i] = "go"
	}
	values = append(values, "", "  ")

	got := Skills(values)
	if len(got) != MaxSkillCount {
		t.Fatalf("expected skills capped at %d, got %d", MaxSkillCount, len(got))
	}
}

func TestValidURLRejectsDangerousSchemes(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/job/1": true,
		"http://example.com":        true,
		"javascript:alert(1)":       false,
		"data:text/html,hi":         false,
		"vbscript:msgbox(1)":        false,
		"file:///etc/passwd":        false,
		"ftp://example.com":         false,
	}
	for url, want := range cases {
		if got := ValidURL(url); got != want {
			t.Errorf("ValidURL(%q) = %v, want %v", url, got, want)
		}
	}
}
