// Package audit runs the compliance audit: every detector over the content,
// both scorers, and the pass gates. It performs no I/O.
package audit

import (
	"time"

	"github.com/dshills/grantcritic/internal/detect"
	"github.com/dshills/grantcritic/internal/policy"
	"github.com/dshills/grantcritic/internal/review"
	"github.com/dshills/grantcritic/internal/schema"
)

// EngineVersion is stamped on every AuditResult. Scores from engines with a
// different major version are not comparable.
const EngineVersion = "1.0.0"

// Engine holds the policy tables and clock used by Run. The zero value is not
// usable; construct with New.
type Engine struct {
	policy        *policy.Policy
	now           func() time.Time
	phaseElements bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy replaces the built-in policy tables.
func WithPolicy(p *policy.Policy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithClock sets the clock used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPhaseElements enables the phase-profile required-element check in
// addition to the per-section checks.
func WithPhaseElements(enabled bool) Option {
	return func(e *Engine) { e.phaseElements = enabled }
}

// New returns an Engine using the default policy and the wall clock.
func New(opts ...Option) *Engine {
	e := &Engine{
		policy: policy.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the policy the engine scores against.
func (e *Engine) Policy() *policy.Policy { return e.policy }

// Run audits content against project metadata. Section elements are checked
// once per entry in sectionTypes; unknown types contribute nothing.
func (e *Engine) Run(content string, meta schema.ProjectMetadata, sectionTypes []string) schema.AuditResult {
	issues := e.Issues(content, meta.Mechanism, sectionTypes)

	compliance := review.Compliance(meta.Mechanism, issues)
	alignment := review.Alignment(meta, e.policy)
	blocking := review.Blocking(issues)
	passed := review.Passed(compliance, alignment, blocking)

	return schema.AuditResult{
		Compliance:     compliance,
		Alignment:      alignment,
		Issues:         issues,
		BlockingIssues: blocking,
		ExportAllowed:  passed,
		Passed:         passed,
		Verdict:        review.Verdict(compliance, alignment, blocking),
		Timestamp:      e.now().UTC(),
		EngineVersion:  EngineVersion,
		PolicyVersion:  e.policy.Version,
	}
}

// Issues runs the detectors in their fixed order and returns one flat list.
// It never returns nil.
func (e *Engine) Issues(content string, mechanism schema.Mechanism, sectionTypes []string) []schema.Issue {
	issues := make([]schema.Issue, 0)
	issues = append(issues, detect.Promotional(content, e.policy.PromotionalTerms())...)
	issues = append(issues, detect.Placeholders(content)...)
	issues = append(issues, detect.Statistics(content)...)
	issues = append(issues, detect.GoNoGo(content, mechanism, e.policy)...)
	for _, st := range sectionTypes {
		issues = append(issues, detect.SectionElements(content, st, e.policy)...)
	}
	if e.phaseElements {
		issues = append(issues, detect.PhaseElements(content, mechanism, e.policy)...)
	}
	return issues
}

// RunComplianceAudit audits with the default policy and the wall clock.
func RunComplianceAudit(content string, meta schema.ProjectMetadata, sectionTypes []string) schema.AuditResult {
	return New().Run(content, meta, sectionTypes)
}
