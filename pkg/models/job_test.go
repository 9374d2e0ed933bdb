package models

import "testing"

func TestMergeJobsDedupByExternalIDThenURL(t *testing.T) {
	a := &CanonicalJob{ExternalID: "123", URL: "https://x/a", ValidationTier: TierSnippet}
	b := &CanonicalJob{ExternalID: "123", URL: "https://x/a-dup", ValidationTier: TierNone}
	c := &CanonicalJob{URL: "https://x/a", ValidationTier: TierNone}

	merged := MergeJobs([]*CanonicalJob{a}, []*CanonicalJob{b, c})

	if len(merged) != 1 {
		t.Fatalf("expected 1 record after dedup, got %d", len(merged))
	}
}

func TestMergeJobsRicherRecordWins(t *testing.T) {
	poor := &CanonicalJob{ExternalID: "1", URL: "https://x/1", ValidationTier: TierNone}
	rich := &CanonicalJob{ExternalID: "1", URL: "https://x/1", ValidationTier: TierBrowser, Description: "full text"}

	merged := MergeJobs([]*CanonicalJob{poor}, []*CanonicalJob{rich})

	if len(merged) != 1 {
		t.Fatalf("expected 1 record, got %d", len(merged))
	}
	if merged[0].ValidationTier != TierBrowser {
		t.Fatalf("expected the richer (browser-tier) record to win, got %q", merged[0].ValidationTier)
	}
}

func TestMergeJobsFirstWriterWinsOnEqualRichness(t *testing.T) {
	first := &CanonicalJob{ExternalID: "1", URL: "https://x/1", ValidationTier: TierSnippet, Title: "first"}
	second := &CanonicalJob{ExternalID: "1", URL: "https://x/1", ValidationTier: TierSnippet, Title: "second"}

	merged := MergeJobs([]*CanonicalJob{first, second})

	if merged[0].Title != "first" {
		t.Fatalf("expected first writer to win on equal richness, got %q", merged[0].Title)
	}
}

func TestMergeJobsPreservesOrderAcrossLists(t *testing.T) {
	a := &CanonicalJob{ExternalID: "1", URL: "https://x/1"}
	b := &CanonicalJob{ExternalID: "2", URL: "https://x/2"}
	c := &CanonicalJob{ExternalID: "3", URL: "https://x/3"}

	merged := MergeJobs([]*CanonicalJob{a, b}, []*CanonicalJob{c})

	if len(merged) != 3 || merged[0] != a || merged[1] != b || merged[2] != c {
		t.Fatalf("expected stable insertion order, got %+v", merged)
	}
}
