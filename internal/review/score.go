package review

import "github.com/dshills/grantcritic/internal/schema"

// Pool ceilings for the compliance score.
const (
	MaxStructure   = 30
	MaxStatistical = 20
	MaxRegulatory  = 20
	MaxCommercial  = 20
	MaxTone        = 10
)

// Pass thresholds for the audit verdict.
const (
	PassComplianceTotal = 90
	PassAlignmentTotal  = 100
)

// Deduction returns the points deducted for one issue of severity s:
// critical 10, error 5, warning 2.
func Deduction(s schema.Severity) int {
	switch s {
	case schema.SeverityCritical:
		return 10
	case schema.SeverityError:
		return 5
	case schema.SeverityWarning:
		return 2
	}
	return 0
}

// Compliance computes the five-pool compliance score from all issues.
// Each issue deducts from the pool matching its bucket; content (and any
// unrecognised bucket) deducts from tone. Pools clamp at 0 independently, and
// the breakdown records the nominal deduction per code even when a pool has
// already bottomed out. Phase I never loses commercial points.
func Compliance(mechanism schema.Mechanism, issues []schema.Issue) schema.ComplianceScore {
	s := schema.ComplianceScore{
		Structure:   MaxStructure,
		Statistical: MaxStatistical,
		Regulatory:  MaxRegulatory,
		Commercial:  MaxCommercial,
		Tone:        MaxTone,
		Breakdown:   make(map[string]int),
	}
	for _, issue := range issues {
		d := Deduction(issue.Severity)
		s.Breakdown[issue.Code] += d
		switch issue.Section {
		case schema.BucketStructure:
			s.Structure = clamp(s.Structure - d)
		case schema.BucketStatistical:
			s.Statistical = clamp(s.Statistical - d)
		case schema.BucketRegulatory:
			s.Regulatory = clamp(s.Regulatory - d)
		case schema.BucketCommercial:
			s.Commercial = clamp(s.Commercial - d)
		default:
			s.Tone = clamp(s.Tone - d)
		}
	}
	if mechanism == schema.MechanismPhaseI {
		s.Commercial = MaxCommercial
	}
	s.Total = s.Structure + s.Statistical + s.Regulatory + s.Commercial + s.Tone
	return s
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// Blocking returns the critical issues, in input order.
func Blocking(issues []schema.Issue) []schema.Issue {
	out := make([]schema.Issue, 0)
	for _, issue := range issues {
		if issue.Severity == schema.SeverityCritical {
			out = append(out, issue)
		}
	}
	return out
}

// Passed reports whether an audit passes: compliance >= 90, alignment >= 100
// and no blocking issues. Each condition is an independent gate.
func Passed(compliance schema.ComplianceScore, alignment schema.AgencyAlignmentScore, blocking []schema.Issue) bool {
	return compliance.Total >= PassComplianceTotal &&
		alignment.Total >= PassAlignmentTotal &&
		len(blocking) == 0
}

// Verdict summarises the gates: BLOCKED when any critical issue exists,
// NEEDS_REVISION when a score gate fails, PASS otherwise.
func Verdict(compliance schema.ComplianceScore, alignment schema.AgencyAlignmentScore, blocking []schema.Issue) schema.Verdict {
	if len(blocking) > 0 {
		return schema.VerdictBlocked
	}
	if !Passed(compliance, alignment, blocking) {
		return schema.VerdictNeedsRevision
	}
	return schema.VerdictPass
}

// Counts returns the pre-filter critical, error, and warning counts from all issues.
func Counts(issues []schema.Issue) (critical, errs, warnings int) {
	for _, issue := range issues {
		switch issue.Severity {
		case schema.SeverityCritical:
			critical++
		case schema.SeverityError:
			errs++
		case schema.SeverityWarning:
			warnings++
		}
	}
	return
}

// FilterBySeverity returns only issues at or above the given threshold severity.
func FilterBySeverity(issues []schema.Issue, threshold schema.Severity) []schema.Issue {
	if threshold == schema.SeverityWarning {
		return issues
	}
	out := make([]schema.Issue, 0, len(issues))
	for _, issue := range issues {
		if meetsSeverity(issue.Severity, threshold) {
			out = append(out, issue)
		}
	}
	return out
}

func meetsSeverity(s, threshold schema.Severity) bool {
	return schema.SeverityOrdinal(s) >= schema.SeverityOrdinal(threshold)
}
