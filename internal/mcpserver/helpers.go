package mcpserver

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/grantcritic/internal/schema"
)

// floatArg reads a numeric argument. present is false when the key is absent;
// a value of any other JSON type is an error.
func floatArg(req mcp.CallToolRequest, key string) (v float64, present bool, err error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return 0, false, nil
	}
	v, ok = raw.(float64)
	if !ok {
		return 0, true, fmt.Errorf("%s: must be a number, got %T", key, raw)
	}
	return v, true, nil
}

func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// listArg splits a comma-separated argument, dropping empty entries.
func listArg(req mcp.CallToolRequest, key string) []string {
	var out []string
	for _, part := range strings.Split(req.GetString(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func withMetadataParams(opts ...mcp.ToolOption) []mcp.ToolOption {
	return append(opts,
		mcp.WithString("institute",
			mcp.Description("NIH institute code, e.g. NCI, NIAID, NHLBI. Unknown codes use the Standard NIH profile."),
		),
		mcp.WithString("mechanism",
			mcp.Required(),
			mcp.Description("Grant mechanism: Phase I, Phase II, Fast Track, Direct-to-Phase-II, Phase IIB"),
		),
		mcp.WithString("program_type",
			mcp.Description("SBIR (default) or STTR"),
		),
		mcp.WithNumber("direct_costs",
			mcp.Required(),
			mcp.Description("Total requested direct costs in USD"),
		),
		mcp.WithNumber("small_business_percent",
			mcp.Required(),
			mcp.Description("Percentage of work performed by the small business (0-100)"),
		),
		mcp.WithNumber("research_institution_percent",
			mcp.Description("Percentage of work performed by the research institution (0-100, required for STTR)"),
		),
		mcp.WithBoolean("clinical_trial",
			mcp.Description("Whether the project includes a clinical trial (default: false)"),
		),
		mcp.WithString("foa_number",
			mcp.Description("Funding Opportunity Announcement number, e.g. PA-24-245"),
		),
		mcp.WithNumber("foa_budget_cap",
			mcp.Description("FOA-specific direct-cost cap overriding the institute cap"),
		),
		mcp.WithNumber("foa_small_business_minimum",
			mcp.Description("FOA-specific small-business minimum percentage"),
		),
		mcp.WithNumber("foa_research_institution_minimum",
			mcp.Description("FOA-specific research-institution minimum percentage"),
		),
		mcp.WithBoolean("foa_clinical_trial_allowed",
			mcp.Description("FOA-specific clinical-trial policy overriding the institute's"),
		),
	)
}

// metadataFromRequest reads project metadata arguments. direct_costs and
// small_business_percent are required, as is research_institution_percent for
// STTR; a missing number would otherwise score as zero. Overrides are set only
// for arguments actually present.
func metadataFromRequest(req mcp.CallToolRequest) (schema.ProjectMetadata, error) {
	program := req.GetString("program_type", string(schema.ProgramSBIR))
	meta := schema.ProjectMetadata{
		Institute:             req.GetString("institute", ""),
		Mechanism:             schema.ParseMechanism(req.GetString("mechanism", "")),
		ProgramType:           schema.ParseProgramType(program),
		ClinicalTrialIncluded: boolArg(req, "clinical_trial", false),
		FOANumber:             strings.TrimSpace(req.GetString("foa_number", "")),
	}

	var errs []error
	number := func(key string, required bool) (float64, bool) {
		v, present, err := floatArg(req, key)
		switch {
		case err != nil:
			errs = append(errs, err)
		case !present && required:
			errs = append(errs, fmt.Errorf("%s: required", key))
		}
		return v, present && err == nil
	}

	meta.DirectCosts, _ = number("direct_costs", true)
	meta.SmallBusinessPercent, _ = number("small_business_percent", true)
	meta.ResearchInstitutionPercent, _ = number("research_institution_percent", meta.ProgramType == schema.ProgramSTTR)

	var over schema.FOAOverrides
	set := false
	if v, ok := number("foa_budget_cap", false); ok {
		over.BudgetCap, set = &v, true
	}
	if v, ok := number("foa_small_business_minimum", false); ok {
		over.SmallBusinessMinimum, set = &v, true
	}
	if v, ok := number("foa_research_institution_minimum", false); ok {
		over.ResearchInstitutionMinimum, set = &v, true
	}
	if v, ok := req.GetArguments()["foa_clinical_trial_allowed"].(bool); ok {
		over.ClinicalTrialAllowed, set = &v, true
	}
	if set {
		meta.FOAOverrides = &over
	}
	if len(errs) > 0 {
		return schema.ProjectMetadata{}, errors.Join(errs...)
	}
	return meta, nil
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("sha256:%x", sum)
}
