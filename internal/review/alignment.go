package review

import (
	"strings"

	"github.com/dshills/grantcritic/internal/policy"
	"github.com/dshills/grantcritic/internal/schema"
)

// Alignment pool size and deductions.
const (
	AlignmentPool = 25

	nearCapBudgetPoints  = 20
	nearCapRatio         = 0.95
	sttrSmallBusinessCut = 15
	sttrResearchInstCut  = 10
	missingFOAPoints     = 15
)

// Breakdown keys for agency alignment deductions.
const (
	CauseBudgetOverCap           = "budget_exceeds_cap"
	CauseBudgetNearCap           = "budget_near_cap"
	CauseSBIRSmallBusiness       = "sbir_small_business_below_minimum"
	CauseSTTRSmallBusiness       = "sttr_small_business_below_minimum"
	CauseSTTRResearchInstitution = "sttr_research_institution_below_minimum"
	CauseFOAMissing              = "foa_missing"
	CauseClinicalTrialDisallowed = "clinical_trial_not_allowed"
)

// Alignment scores project metadata against institute policy. It reads no
// text. Unknown institutes fall back to the Standard NIH profile; FOA
// overrides take precedence over institute defaults wherever present.
func Alignment(meta schema.ProjectMetadata, p *policy.Policy) schema.AgencyAlignmentScore {
	inst := p.Institute(meta.Institute)
	over := meta.FOAOverrides
	if over == nil {
		over = &schema.FOAOverrides{}
	}

	s := schema.AgencyAlignmentScore{
		Budget:        AlignmentPool,
		Allocation:    AlignmentPool,
		FOA:           AlignmentPool,
		ClinicalTrial: AlignmentPool,
		Breakdown:     make(map[string]int),
		Institute:     inst.Code,
	}

	// Budget: binary cliff above the cap, reduced credit just below it.
	limit := effectiveCap(meta.Mechanism, inst, over, p)
	s.EffectiveBudgetCap = limit
	if limit != nil {
		switch {
		case meta.DirectCosts > *limit:
			deduct(&s, &s.Budget, AlignmentPool, CauseBudgetOverCap)
		case meta.DirectCosts > *limit*nearCapRatio && meta.DirectCosts < *limit:
			deduct(&s, &s.Budget, AlignmentPool-nearCapBudgetPoints, CauseBudgetNearCap)
		}
	}

	// Allocation.
	if meta.ProgramType == schema.ProgramSTTR {
		sbMin := pick(over.SmallBusinessMinimum, inst.STTRSmallBusinessMinimum)
		riMin := pick(over.ResearchInstitutionMinimum, inst.STTRResearchInstitutionMin)
		if meta.SmallBusinessPercent < sbMin {
			deduct(&s, &s.Allocation, sttrSmallBusinessCut, CauseSTTRSmallBusiness)
		}
		if meta.ResearchInstitutionPercent < riMin {
			deduct(&s, &s.Allocation, sttrResearchInstCut, CauseSTTRResearchInstitution)
		}
	} else {
		def := inst.SBIRPhase2Minimum
		if ph, ok := p.Phase(meta.Mechanism); ok && ph.UsesPhase1Minimum {
			def = inst.SBIRPhase1Minimum
		}
		if meta.SmallBusinessPercent < pick(over.SmallBusinessMinimum, def) {
			deduct(&s, &s.Allocation, AlignmentPool, CauseSBIRSmallBusiness)
		}
	}

	// FOA number: a soft defect, waived for Phase I.
	if strings.TrimSpace(meta.FOANumber) == "" && meta.Mechanism != schema.MechanismPhaseI {
		deduct(&s, &s.FOA, AlignmentPool-missingFOAPoints, CauseFOAMissing)
	}

	// Clinical trial policy.
	allowed := inst.ClinicalTrialAllowed
	if over.ClinicalTrialAllowed != nil {
		allowed = *over.ClinicalTrialAllowed
	}
	if meta.ClinicalTrialIncluded && !allowed {
		deduct(&s, &s.ClinicalTrial, AlignmentPool, CauseClinicalTrialDisallowed)
	}

	s.Total = s.Budget + s.Allocation + s.FOA + s.ClinicalTrial
	return s
}

// effectiveCap resolves the budget cap: FOA override, then the institute's cap
// for the phase, then the Standard NIH cap. Nil means no cap is known for the
// mechanism and the budget is not penalised.
func effectiveCap(m schema.Mechanism, inst policy.InstituteProfile, over *schema.FOAOverrides, p *policy.Policy) *float64 {
	if over.BudgetCap != nil {
		v := *over.BudgetCap
		return &v
	}
	key := m
	if ph, ok := p.Phase(m); ok {
		key = ph.CapKey
	}
	if c := inst.BudgetCap(key); c != nil {
		return c
	}
	return p.Institute(policy.DefaultInstitute).BudgetCap(key)
}

func pick(override *float64, def float64) float64 {
	if override != nil {
		return *override
	}
	return def
}

// deduct removes points from pool, flooring at 0, and records the nominal
// deduction under cause.
func deduct(s *schema.AgencyAlignmentScore, pool *int, points int, cause string) {
	*pool = clamp(*pool - points)
	s.Breakdown[cause] += points
}
