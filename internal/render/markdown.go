package render

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/dshills/grantcritic/internal/schema"
)

type markdownRenderer struct{}

type breakdownRow struct {
	Key    string
	Points int
}

// sortedBreakdown orders deductions largest first, then by key.
func sortedBreakdown(m map[string]int) []breakdownRow {
	rows := make([]breakdownRow, 0, len(m))
	for k, v := range m {
		rows = append(rows, breakdownRow{k, v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

var funcs = template.FuncMap{
	"breakdown": sortedBreakdown,
	"deref":     func(f *float64) float64 { return *f },
}

const alignmentTable = `{{ define "alignment" }}| Category | Points |
|---|---|
| Budget | {{ .Budget }}/25 |
| Allocation | {{ .Allocation }}/25 |
| FOA | {{ .FOA }}/25 |
| Clinical trial | {{ .ClinicalTrial }}/25 |
| **Total** | **{{ .Total }}/100** |

Institute: {{ .Institute }}{{ if .EffectiveBudgetCap }} · budget cap ${{ printf "%.0f" (deref .EffectiveBudgetCap) }}{{ end }}
{{ if .Breakdown }}
Deductions:
{{ range breakdown .Breakdown }}- {{ .Key }}: -{{ .Points }}
{{ end }}{{ end }}{{ end }}`

var mdTemplate = template.Must(template.New("report").Funcs(funcs).Parse(alignmentTable + `# GrantCritic Report

**Verdict:** {{ .Summary.Verdict }}
**Compliance:** {{ .Result.Compliance.Total }}/100 | **Agency alignment:** {{ .Result.Alignment.Total }}/100
**Critical:** {{ .Summary.CriticalCount }} | **Error:** {{ .Summary.ErrorCount }} | **Warning:** {{ .Summary.WarningCount }}
> Note: counts reflect all findings; --severity-threshold may hide some from this output.
{{ with .Staleness }}{{ if .Stale }}
> **Warning:** {{ .Message }}
{{ end }}{{ end }}
---

## Compliance Score

| Category | Points |
|---|---|
| Structure | {{ .Result.Compliance.Structure }}/30 |
| Statistical rigor | {{ .Result.Compliance.Statistical }}/20 |
| Regulatory | {{ .Result.Compliance.Regulatory }}/20 |
| Commercial | {{ .Result.Compliance.Commercial }}/20 |
| Tone | {{ .Result.Compliance.Tone }}/10 |
| **Total** | **{{ .Result.Compliance.Total }}/100** |

## Agency Alignment

{{ template "alignment" .Result.Alignment }}{{ if .Result.BlockingIssues }}
---

## Blocking Issues
{{ range .Result.BlockingIssues }}
- **{{ .Code }}**{{ if .Element }} ` + "`{{ .Element }}`" + `{{ end }}: {{ .Message }}
{{- end }}
{{ end }}{{ if .Result.Issues }}
---

## Issues
{{ range .Result.Issues }}
### {{ .Code }} · {{ .Severity }} · {{ .Section }}
{{ .Message }}
{{ if .Element }}
*Element:* {{ .Element }}
{{ end }}{{ if .Suggestion }}
**Suggestion:** {{ .Suggestion }}
{{ end }}{{ end }}{{ end }}{{ if .Patches }}
---

## Suggested Rewordings
{{ range .Patches }}
**{{ .IssueCode }}** ({{ .Element }}; see --patch-out for machine-applicable diff)

Before:
` + "```" + `
{{ .Before }}
` + "```" + `
After:
` + "```" + `
{{ .After }}
` + "```" + `
{{ end }}{{ end }}
---
*Engine {{ .Result.EngineVersion }} | Policy {{ .Result.PolicyVersion }} | {{ .Fingerprint }}*
`))

func (r *markdownRenderer) Render(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *markdownRenderer) RenderAlignment(score *schema.AgencyAlignmentScore) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# Agency Alignment\n\n")
	if err := mdTemplate.ExecuteTemplate(&buf, "alignment", score); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
