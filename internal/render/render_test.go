package render

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dshills/grantcritic/internal/schema"
)

func sampleReport() *schema.Report {
	limit := 314363.0
	return &schema.Report{
		Tool:    "grantcritic",
		Version: "1.0.0",
		Input: schema.Input{
			ContentFiles: []string{"aims.md"},
			SectionTypes: []string{"specific_aims"},
		},
		Summary: schema.Summary{
			Verdict:       schema.VerdictBlocked,
			CriticalCount: 1,
			ErrorCount:    1,
		},
		Result: schema.AuditResult{
			Compliance: schema.ComplianceScore{
				Structure: 20, Statistical: 20, Regulatory: 20, Commercial: 20, Tone: 5, Total: 85,
				Breakdown: map[string]int{"PLACEHOLDER_DETECTED": 10, "CLAIM_PROMOTIONAL": 5},
			},
			Alignment: schema.AgencyAlignmentScore{
				Budget: 25, Allocation: 25, FOA: 25, ClinicalTrial: 25, Total: 100,
				Breakdown: map[string]int{}, Institute: "STANDARD", EffectiveBudgetCap: &limit,
			},
			Issues: []schema.Issue{
				{Code: "CLAIM_PROMOTIONAL", Severity: schema.SeverityError, Section: schema.BucketContent,
					Message: "Promotional term \"breakthrough\"", Element: "breakthrough", Suggestion: "Use \"advance\""},
				{Code: "PLACEHOLDER_DETECTED", Severity: schema.SeverityCritical, Section: schema.BucketStructure,
					Message: "Unresolved placeholder", Element: "TBD"},
			},
			BlockingIssues: []schema.Issue{
				{Code: "PLACEHOLDER_DETECTED", Severity: schema.SeverityCritical, Section: schema.BucketStructure,
					Message: "Unresolved placeholder", Element: "TBD"},
			},
			Verdict:       schema.VerdictBlocked,
			Timestamp:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			EngineVersion: "1.0.0",
			PolicyVersion: "1.3.0",
		},
		Staleness: &schema.Staleness{LastUpdated: "2025-03-01", AgeDays: 400, Stale: true, Message: "Policy tables are 400 days old"},
		Patches: []schema.Patch{
			{IssueCode: "CLAIM_PROMOTIONAL", Element: "breakthrough", Before: "A breakthrough.", After: "An advance."},
		},
		Fingerprint: "sha256:abc",
	}
}

func TestNewRenderer_JSON(t *testing.T) {
	r, err := NewRenderer("json")
	if err != nil {
		t.Fatalf("NewRenderer json: %v", err)
	}
	out, err := r.Render(sampleReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var decoded schema.Report
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\noutput: %s", err, out)
	}
	if decoded.Summary.Verdict != schema.VerdictBlocked {
		t.Errorf("verdict mismatch: got %q", decoded.Summary.Verdict)
	}
	if !strings.Contains(string(out), `"compliance_score"`) || !strings.Contains(string(out), `"agency_alignment_score"`) {
		t.Errorf("JSON missing score keys: %s", out)
	}
}

func TestNewRenderer_DefaultIsJSON(t *testing.T) {
	r, err := NewRenderer("")
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if _, ok := r.(*jsonRenderer); !ok {
		t.Errorf("default renderer = %T, want *jsonRenderer", r)
	}
}

func TestNewRenderer_Markdown(t *testing.T) {
	r, err := NewRenderer("md")
	if err != nil {
		t.Fatalf("NewRenderer md: %v", err)
	}
	out, err := r.Render(sampleReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	for _, want := range []string{
		"# GrantCritic Report",
		"**Verdict:** BLOCKED",
		"| Structure | 20/30 |",
		"| **Total** | **100/100** |",
		"budget cap $314363",
		"## Blocking Issues",
		"Policy tables are 400 days old",
		"## Suggested Rewordings",
		"An advance.",
		"Policy 1.3.0",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("markdown missing %q:\n%s", want, s)
		}
	}
}

func TestMarkdown_BreakdownOrder(t *testing.T) {
	rows := sortedBreakdown(map[string]int{"b": 5, "a": 5, "c": 10})
	got := []string{rows[0].Key, rows[1].Key, rows[2].Key}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("order = %v, want %v", got, want)
			break
		}
	}
}

func TestRenderAlignment(t *testing.T) {
	score := &schema.AgencyAlignmentScore{
		Budget: 0, Allocation: 25, FOA: 15, ClinicalTrial: 25, Total: 65,
		Breakdown: map[string]int{"budget_exceeds_cap": 25, "foa_missing": 10},
		Institute: "NCI",
	}
	for _, format := range []string{"json", "md"} {
		r, err := NewRenderer(format)
		if err != nil {
			t.Fatalf("NewRenderer %s: %v", format, err)
		}
		out, err := r.RenderAlignment(score)
		if err != nil {
			t.Fatalf("RenderAlignment %s: %v", format, err)
		}
		if !strings.Contains(string(out), "budget_exceeds_cap") {
			t.Errorf("%s output missing breakdown: %s", format, out)
		}
	}
}

func TestNewRenderer_UnknownFormat(t *testing.T) {
	if _, err := NewRenderer("xml"); err == nil {
		t.Error("expected error for unknown format, got nil")
	}
}
