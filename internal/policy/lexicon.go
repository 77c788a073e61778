package policy

import (
	"regexp"

	"github.com/dshills/grantcritic/internal/schema"
)

// promotionalTerms is the marketing lexicon. Terms must begin and end with a
// word character so that word-boundary matching applies at both ends.
func promotionalTerms() []PromotionalTerm {
	return []PromotionalTerm{
		{"breakthrough", "advance"},
		{"revolutionary", "new"},
		{"revolutionize", "change"},
		{"cure", "treatment"},
		{"groundbreaking", "novel"},
		{"game-changing", "substantial"},
		{"game-changer", "substantial advance"},
		{"paradigm shift", "change in approach"},
		{"cutting-edge", "current"},
		{"state-of-the-art", "current"},
		{"world-class", "experienced"},
		{"best-in-class", "competitive"},
		{"unprecedented", "previously unreported"},
		{"unparalleled", "distinctive"},
		{"miracle", "effective"},
		{"first-ever", "first reported"},
		{"disruptive", "alternative"},
		{"transformative", "significant"},
		{"guaranteed", "expected"},
		{"perfect", "complete"},
		{"ultimate", "final"},
		{"amazing", "notable"},
	}
}

func rx(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func elements() []ElementPattern {
	return []ElementPattern{
		{ID: "explicit_hypothesis", Bucket: schema.BucketStructure, Description: "an explicit, testable hypothesis",
			Patterns: rx(`(?i)hypothes[ie]s?`, `(?i)we hypothesize`, `(?i)our hypothesis`)},
		{ID: "measurable_outcome", Bucket: schema.BucketStructure, Description: "a measurable outcome or endpoint",
			Patterns: rx(`(?i)\bmeasur`, `(?i)\bquantif`, `\d+(\.\d+)?\s*%`, `(?i)\bendpoints?\b`, `(?i)\boutcomes?\b`)},
		{ID: "rationale", Bucket: schema.BucketStructure, Description: "a scientific rationale",
			Patterns: rx(`(?i)\brationale\b`, `(?i)\bbecause\b`, `(?i)\bbased on\b`, `(?i)preliminary (data|results)`)},
		{ID: "specific_aims_statement", Bucket: schema.BucketStructure, Description: "a statement of specific aims",
			Patterns: rx(`(?i)specific aims?`, `(?i)\baim\s*(1|one|i)\b`)},
		{ID: "numbered_aims", Bucket: schema.BucketStructure, Description: "individually numbered aims",
			Patterns: rx(`(?i)\baim\s*(1|one|i)\b`, `(?i)\baim\s*#?\s*\d`)},
		{ID: "timeline", Bucket: schema.BucketStructure, Description: "a timeline or schedule",
			Patterns: rx(`(?i)\btimeline\b`, `(?i)\bmonths?\b`, `(?i)\byear\s*\d`, `(?i)\bquarter\b`, `(?i)\bmilestones?\b`)},
		{ID: "significance_statement", Bucket: schema.BucketStructure, Description: "a statement of significance",
			Patterns: rx(`(?i)\bsignifican`, `(?i)\bimpact\b`, `(?i)\bimportan`)},
		{ID: "unmet_need", Bucket: schema.BucketStructure, Description: "the unmet clinical or scientific need",
			Patterns: rx(`(?i)unmet need`, `(?i)\bgap\b`, `(?i)\bburden\b`, `(?i)\blimitations? of\b`)},
		{ID: "innovation_claim", Bucket: schema.BucketStructure, Description: "what is new relative to current practice",
			Patterns: rx(`(?i)\bnovel\b`, `(?i)\binnovat`, `(?i)\bnew approach\b`, `(?i)\bfirst\b`)},
		{ID: "statistical_plan", Bucket: schema.BucketStatistical, Description: "a statistical analysis plan",
			Patterns: rx(`(?i)\bpower\b`, `(?i)sample size`, `(?i)\bstatistic`, `(?i)\bregression\b`, `(?i)\banova\b`, `(?i)t-test`)},
		{ID: "rigor_reproducibility", Bucket: schema.BucketStatistical, Description: "rigor and reproducibility measures",
			Patterns: rx(`(?i)\brandomi[sz]`, `(?i)\bblind`, `(?i)\breplicat`, `(?i)\breproducib`, `(?i)\bsex as a biological variable\b`)},
		{ID: "alternative_strategies", Bucket: schema.BucketStructure, Description: "potential pitfalls and alternative strategies",
			Patterns: rx(`(?i)\balternative`, `(?i)\bpitfalls?\b`, `(?i)\bcontingenc`)},
		{ID: "personnel_effort", Bucket: schema.BucketStructure, Description: "personnel roles and effort",
			Patterns: rx(`(?i)\bpersonnel\b`, `(?i)\bsalar(y|ies)\b`, `(?i)\beffort\b`, `(?i)person[- ]months?`)},
		{ID: "equipment_supplies", Bucket: schema.BucketStructure, Description: "equipment and supplies",
			Patterns: rx(`(?i)\bequipment\b`, `(?i)\bsupplies\b`, `(?i)\breagents?\b`)},
		{ID: "market_analysis", Bucket: schema.BucketCommercial, Description: "market size and customer analysis",
			Patterns: rx(`(?i)\bmarket\b`, `(?i)\bcustomers?\b`, `(?i)\brevenue\b`)},
		{ID: "commercialization_plan", Bucket: schema.BucketCommercial, Description: "a commercialization plan",
			Patterns: rx(`(?i)commerciali[sz]ation plan`, `(?i)\bcommerciali[sz]`)},
		{ID: "ip_strategy", Bucket: schema.BucketCommercial, Description: "an intellectual property strategy",
			Patterns: rx(`(?i)\bpatent`, `(?i)intellectual property`, `(?i)\blicens`)},
		{ID: "third_party_investment", Bucket: schema.BucketCommercial, Description: "third-party matching investment",
			Patterns: rx(`(?i)third[- ]party`, `(?i)\binvestors?\b`, `(?i)matching funds`)},
		{ID: "regulatory_pathway", Bucket: schema.BucketRegulatory, Description: "the FDA regulatory pathway",
			Patterns: rx(`\bFDA\b`, `510\(k\)`, `\bPMA\b`, `\bIDE\b`, `\bIND\b`, `(?i)\bde novo\b`, `(?i)regulatory (pathway|strategy)`)},
		{ID: "irb_approval", Bucket: schema.BucketRegulatory, Description: "IRB review or approval",
			Patterns: rx(`\bIRB\b`, `(?i)institutional review board`)},
		{ID: "informed_consent", Bucket: schema.BucketRegulatory, Description: "informed consent procedures",
			Patterns: rx(`(?i)informed consent`, `(?i)\bconsent\b`)},
		{ID: "iacuc_approval", Bucket: schema.BucketRegulatory, Description: "IACUC review of animal work",
			Patterns: rx(`\bIACUC\b`, `(?i)animal care and use committee`)},
		{ID: "go_no_go_criteria", Bucket: schema.BucketStructure, Description: "quantitative Go/No-Go criteria",
			Patterns: rx(`(?i)\bgo\s*/\s*no[\s-]?go\b`, `(?i)\bgo no go\b`, `(?i)decision criteria`, `(?i)success criteri(on|a)`, `(?i)milestone criteria`)},
		{ID: "phase1_results", Bucket: schema.BucketStructure, Description: "Phase I results",
			Patterns: rx(`(?i)phase (i|1) results`, `(?i)preliminary results`, `(?i)feasibility (was |has been )?demonstrated`, `(?i)\bphase (i|1)\b`)},
		{ID: "phase2_results", Bucket: schema.BucketStructure, Description: "Phase II results",
			Patterns: rx(`(?i)phase (ii|2) results`, `(?i)\bphase (ii|2)\b`)},
		{ID: "feasibility_evidence", Bucket: schema.BucketStructure, Description: "evidence of feasibility equivalent to Phase I",
			Patterns: rx(`(?i)\bfeasibility\b`, `(?i)proof[- ]of[- ]concept`, `(?i)preliminary (data|results)`)},
	}
}

func sections() []SectionRule {
	return []SectionRule{
		{SectionType: "hypothesis", RequiredElements: []string{"explicit_hypothesis", "measurable_outcome", "rationale"},
			Description: "Central hypothesis with a measurable outcome and rationale"},
		{SectionType: "specific_aims", RequiredElements: []string{"numbered_aims", "explicit_hypothesis", "measurable_outcome", "timeline"},
			Description: "Specific Aims page"},
		{SectionType: "significance", RequiredElements: []string{"significance_statement", "unmet_need"},
			Description: "Significance"},
		{SectionType: "innovation", RequiredElements: []string{"innovation_claim"},
			Description: "Innovation"},
		{SectionType: "approach", RequiredElements: []string{"statistical_plan", "rigor_reproducibility", "alternative_strategies", "timeline"},
			Description: "Research strategy approach"},
		{SectionType: "budget_justification", RequiredElements: []string{"personnel_effort", "equipment_supplies"},
			Description: "Budget justification"},
		{SectionType: "commercialization", RequiredElements: []string{"market_analysis", "commercialization_plan", "ip_strategy", "regulatory_pathway"},
			Description: "Commercialization plan"},
		{SectionType: "go_no_go", RequiredElements: []string{"go_no_go_criteria", "measurable_outcome"},
			Description: "Phase I Go/No-Go milestones"},
		{SectionType: "human_subjects", RequiredElements: []string{"irb_approval", "informed_consent"},
			Description: "Protection of human subjects"},
		{SectionType: "vertebrate_animals", RequiredElements: []string{"iacuc_approval"},
			Description: "Vertebrate animals"},
	}
}
