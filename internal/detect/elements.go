package detect

import (
	"fmt"
	"regexp"

	"github.com/dshills/grantcritic/internal/policy"
	"github.com/dshills/grantcritic/internal/schema"
)

const goNoGoElement = "go_no_go_criteria"

var (
	proceedCue = regexp.MustCompile(`(?i)\bproceed\b`)
	ifCue      = regexp.MustCompile(`(?i)\bif\b`)
)

// GoNoGo requires Go/No-Go decision language for mechanisms whose phase
// profile demands it (Phase I and Fast Track). Other mechanisms, and unknown
// ones, yield no issues.
func GoNoGo(text string, mechanism schema.Mechanism, p *policy.Policy) []schema.Issue {
	if blank(text) {
		return nil
	}
	ph, ok := p.Phase(mechanism)
	if !ok || !ph.RequiresGoNoGo {
		return nil
	}
	if el, ok := p.Element(goNoGoElement); ok && el.Matches(text) {
		return nil
	}
	if proceedCue.MatchString(text) && ifCue.MatchString(text) {
		return nil
	}
	iss := issue(CodeMissingGoNoGo, schema.SeverityCritical, schema.BucketStructure,
		fmt.Sprintf("%s applications must state quantitative Go/No-Go criteria", mechanism))
	iss.Suggestion = "Add milestone-based Go/No-Go criteria, e.g. \"Go if sensitivity >= 90% in 50 samples\""
	return []schema.Issue{iss}
}

// SectionElements checks content against the required elements of a section
// type. An unknown section type yields no issues.
func SectionElements(text, sectionType string, p *policy.Policy) []schema.Issue {
	if blank(text) {
		return nil
	}
	rule, ok := p.Section(sectionType)
	if !ok {
		return nil
	}
	return missingElements(text, rule.RequiredElements, rule.Description, p)
}

// PhaseElements checks content against the required elements of a mechanism's
// phase profile. An unknown mechanism yields no issues.
func PhaseElements(text string, mechanism schema.Mechanism, p *policy.Policy) []schema.Issue {
	if blank(text) {
		return nil
	}
	ph, ok := p.Phase(mechanism)
	if !ok {
		return nil
	}
	return missingElements(text, ph.RequiredElements, string(mechanism), p)
}

func missingElements(text string, ids []string, context string, p *policy.Policy) []schema.Issue {
	var issues []schema.Issue
	for _, id := range ids {
		el, ok := p.Element(id)
		if !ok {
			// Unmapped elements are a configuration gap, never a pass.
			iss := issue(MissingElementCode(id), schema.SeverityError, schema.BucketStructure,
				fmt.Sprintf("%s: required element %q has no detection patterns configured", context, id))
			iss.Element = id
			issues = append(issues, iss)
			continue
		}
		if el.Matches(text) {
			continue
		}
		iss := issue(MissingElementCode(id), schema.SeverityError, el.Bucket,
			fmt.Sprintf("%s is missing %s", context, el.Description))
		iss.Element = id
		iss.Suggestion = fmt.Sprintf("Add %s", el.Description)
		issues = append(issues, iss)
	}
	return issues
}
