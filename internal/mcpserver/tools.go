package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/grantcritic/internal/audit"
	"github.com/dshills/grantcritic/internal/content"
	"github.com/dshills/grantcritic/internal/review"
	"github.com/dshills/grantcritic/internal/schema"
	"github.com/dshills/grantcritic/internal/schema/validate"
)

// --- grant_compliance_audit ---

// AuditTool handles the grant_compliance_audit MCP tool.
type AuditTool struct {
	deps Deps
}

// NewAuditTool creates an AuditTool.
func NewAuditTool(deps Deps) *AuditTool {
	deps.defaults()
	return &AuditTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AuditTool) Definition() mcp.Tool {
	opts := withMetadataParams(
		mcp.WithDescription(
			"Audit NIH SBIR/STTR application text. Runs the promotional-language, placeholder, "+
				"statistical-rigor and Go/No-Go checks plus per-section required elements, then scores "+
				"compliance (100 points) and agency alignment (100 points). Returns the JSON report.",
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Application text to audit"),
		),
		mcp.WithString("section_types",
			mcp.Description("Comma-separated section types to check for required elements, e.g. 'hypothesis,specific_aims'"),
		),
		mcp.WithString("severity_threshold",
			mcp.Description("Lowest severity to list: warning (default), error, critical. Counts always include all."),
		),
	)
	return mcp.NewTool("grant_compliance_audit", opts...)
}

// Handle processes the grant_compliance_audit tool call.
func (t *AuditTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("content", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}
	threshold := schema.Severity(strings.ToLower(req.GetString("severity_threshold", string(schema.SeverityWarning))))
	if schema.SeverityOrdinal(threshold) < 0 {
		return mcp.NewToolResultError(fmt.Sprintf("invalid severity_threshold %q: must be warning, error, or critical", threshold)), nil
	}

	meta, err := metadataFromRequest(req)
	if err == nil {
		err = validate.Metadata(meta)
	}
	if err != nil {
		return mcp.NewToolResultError("invalid project metadata: " + err.Error()), nil
	}

	text = content.Normalize(text)
	in := schema.Input{
		ContentHash:  contentHash(text),
		Project:      meta,
		SectionTypes: listArg(req, "section_types"),
	}
	report, err := t.deps.Engine.Report(text, in, audit.ReportOptions{
		Threshold: threshold,
		MaxAge:    t.deps.MaxAge,
		Version:   t.deps.Version,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.deps.record(ctx, report)
	return jsonResult(report)
}

// --- grant_agency_alignment ---

// AlignmentTool handles the grant_agency_alignment MCP tool.
type AlignmentTool struct {
	deps Deps
}

// NewAlignmentTool creates an AlignmentTool.
func NewAlignmentTool(deps Deps) *AlignmentTool {
	deps.defaults()
	return &AlignmentTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *AlignmentTool) Definition() mcp.Tool {
	return mcp.NewTool("grant_agency_alignment", withMetadataParams(
		mcp.WithDescription(
			"Score project metadata against NIH institute policy: budget cap, small-business and "+
				"research-institution allocation, FOA number and clinical-trial policy. Reads no text.",
		),
	)...)
}

// Handle processes the grant_agency_alignment tool call.
func (t *AlignmentTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meta, err := metadataFromRequest(req)
	if err == nil {
		err = validate.Metadata(meta)
	}
	if err != nil {
		return mcp.NewToolResultError("invalid project metadata: " + err.Error()), nil
	}
	score := review.Alignment(meta, t.deps.Engine.Policy())
	return jsonResult(score)
}

// --- grant_policy_info ---

// PolicyTool handles the grant_policy_info MCP tool.
type PolicyTool struct {
	deps Deps
}

// NewPolicyTool creates a PolicyTool.
func NewPolicyTool(deps Deps) *PolicyTool {
	deps.defaults()
	return &PolicyTool{deps: deps}
}

// Definition returns the MCP tool definition for registration.
func (t *PolicyTool) Definition() mcp.Tool {
	return mcp.NewTool("grant_policy_info",
		mcp.WithDescription(
			"Show the policy tables in use: version, last-updated date and staleness, institute "+
				"budget caps and allocation minimums, supported mechanisms and section types.",
		),
	)
}

// Handle processes the grant_policy_info tool call.
func (t *PolicyTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(t.deps.Engine.Policy().Info(t.deps.Now(), t.deps.MaxAge))
}
