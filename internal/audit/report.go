package audit

import (
	"fmt"
	"time"

	"github.com/dshills/grantcritic/internal/patch"
	"github.com/dshills/grantcritic/internal/review"
	"github.com/dshills/grantcritic/internal/schema"
)

// ToolName identifies this engine in report envelopes.
const ToolName = "grantcritic"

// ReportOptions controls the report envelope around an audit.
type ReportOptions struct {
	// Threshold hides lower-severity issues from Result.Issues. Summary
	// counts, blocking issues, scores and the fingerprint always use every
	// issue.
	Threshold schema.Severity
	// MaxAge is the policy staleness limit; zero uses the policy default.
	MaxAge time.Duration
	// Version is the binary version echoed in the envelope.
	Version string
}

// Report audits content and wraps the result with counts, staleness,
// suggested rewordings and a fingerprint. in.Project and in.SectionTypes
// are the audit inputs; the other Input fields are echoed unchanged.
func (e *Engine) Report(content string, in schema.Input, opts ReportOptions) (*schema.Report, error) {
	result := e.Run(content, in.Project, in.SectionTypes)

	fp, err := Fingerprint(result)
	if err != nil {
		return nil, fmt.Errorf("fingerprinting audit: %w", err)
	}

	critical, errs, warnings := review.Counts(result.Issues)
	patches := patch.Suggest(content, result.Issues, e.policy.PromotionalTerms())
	if patches == nil {
		patches = []schema.Patch{}
	}
	staleness := e.policy.CheckStaleness(e.now(), opts.MaxAge)

	if opts.Threshold == "" {
		opts.Threshold = schema.SeverityWarning
	}
	in.SeverityThreshold = string(opts.Threshold)
	if in.SectionTypes == nil {
		in.SectionTypes = []string{}
	}
	result.Issues = review.FilterBySeverity(result.Issues, opts.Threshold)

	return &schema.Report{
		Tool:    ToolName,
		Version: opts.Version,
		Input:   in,
		Summary: schema.Summary{
			Verdict:       result.Verdict,
			CriticalCount: critical,
			ErrorCount:    errs,
			WarningCount:  warnings,
		},
		Result:      result,
		Staleness:   &staleness,
		Patches:     patches,
		Fingerprint: fp,
	}, nil
}
