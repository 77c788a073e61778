package patch

import (
	"strings"
	"testing"

	"github.com/dshills/grantcritic/internal/detect"
	"github.com/dshills/grantcritic/internal/policy"
	"github.com/dshills/grantcritic/internal/schema"
)

func TestGenerateDiff_ExactMatch(t *testing.T) {
	content := "This breakthrough assay is fast.\nOther line.\n"
	patches := []schema.Patch{
		{IssueCode: "CLAIM_PROMOTIONAL", Element: "breakthrough", Before: "This breakthrough assay is fast.", After: "This advance assay is fast."},
	}
	out := GenerateDiff(content, patches, nil)
	if out == "" {
		t.Fatal("expected non-empty diff for exact match")
	}
	if !strings.Contains(out, "CLAIM_PROMOTIONAL (breakthrough)") {
		t.Errorf("diff missing issue label: %q", out)
	}
	if !strings.Contains(out, "@@") {
		t.Errorf("diff missing hunk header: %q", out)
	}
}

func TestGenerateDiff_NormalizedMatch(t *testing.T) {
	// Content has trailing spaces and CRLF; the patch's before text does not.
	content := "This breakthrough assay is fast.   \r\nOther line.\r\n"
	patches := []schema.Patch{
		{IssueCode: "CLAIM_PROMOTIONAL", Before: "This breakthrough assay is fast.\nOther line.", After: "This advance assay is fast.\nOther line."},
	}
	var warnBuf strings.Builder
	out := GenerateDiff(content, patches, &warnBuf)
	if out == "" {
		t.Error("expected non-empty diff for normalized match")
	}
	if warnBuf.Len() > 0 {
		t.Errorf("unexpected warning for normalized match: %q", warnBuf.String())
	}
}

func TestGenerateDiff_UnmatchedBeforeSkipped(t *testing.T) {
	patches := []schema.Patch{
		{IssueCode: "CLAIM_PROMOTIONAL", Element: "miracle", Before: "text that does not exist", After: "replacement"},
	}
	var warnBuf strings.Builder
	out := GenerateDiff("Some content.\n", patches, &warnBuf)
	if out != "" {
		t.Errorf("expected empty diff for unmatched patch, got: %q", out)
	}
	if !strings.Contains(warnBuf.String(), "miracle") {
		t.Errorf("expected warning mentioning the element: %q", warnBuf.String())
	}
}

func TestGenerateDiff_EmptyPatches(t *testing.T) {
	if out := GenerateDiff("some content", nil, nil); out != "" {
		t.Errorf("expected empty string for nil patches, got %q", out)
	}
}

func promotionalIssues(text string) []schema.Issue {
	return detect.Promotional(text, policy.Default().PromotionalTerms())
}

func TestSuggest_RewritesSentences(t *testing.T) {
	content := "Breakthrough imaging is here. The device works. A revolutionary cure follows!"
	patches := Suggest(content, promotionalIssues(content), policy.Default().PromotionalTerms())

	if len(patches) != 2 {
		t.Fatalf("patches = %d, want 2: %+v", len(patches), patches)
	}
	if patches[0].Before != "Breakthrough imaging is here." || patches[0].After != "Advance imaging is here." {
		t.Errorf("patch[0] = %+v", patches[0])
	}
	if patches[1].Before != "A revolutionary cure follows!" || patches[1].After != "A new treatment follows!" {
		t.Errorf("patch[1] = %+v", patches[1])
	}
	if patches[1].Element != "revolutionary, cure" {
		t.Errorf("patch[1].Element = %q", patches[1].Element)
	}
	for _, p := range patches {
		if p.IssueCode != detect.CodePromotional {
			t.Errorf("IssueCode = %q", p.IssueCode)
		}
	}
}

func TestSuggest_MultiWordTerm(t *testing.T) {
	content := "This is a paradigm\nshift."
	patches := Suggest(content, promotionalIssues(content), policy.Default().PromotionalTerms())
	// The newline splits the sentence; neither half holds the whole term.
	if len(patches) != 0 {
		t.Errorf("patches = %+v, want none across a line break", patches)
	}

	content = "This is a paradigm  shift."
	patches = Suggest(content, promotionalIssues(content), policy.Default().PromotionalTerms())
	if len(patches) != 1 || patches[0].After != "This is a change in approach." {
		t.Errorf("patches = %+v", patches)
	}
}

func TestSuggest_NoPromotionalIssues(t *testing.T) {
	issues := []schema.Issue{{Code: "PLACEHOLDER_DETECTED", Element: "TBD"}}
	if got := Suggest("Results TBD.", issues, policy.Default().PromotionalTerms()); got != nil {
		t.Errorf("Suggest = %+v, want nil", got)
	}
}

func TestSuggest_PatchesApplyCleanly(t *testing.T) {
	content := "Our world-class team.\nA guaranteed result."
	patches := Suggest(content, promotionalIssues(content), policy.Default().PromotionalTerms())
	var warnBuf strings.Builder
	out := GenerateDiff(content, patches, &warnBuf)
	if warnBuf.Len() > 0 {
		t.Errorf("unexpected warnings: %q", warnBuf.String())
	}
	if strings.Count(out, "# patch for") != 2 {
		t.Errorf("diff = %q, want two patches", out)
	}
}
