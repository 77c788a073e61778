package policy

import "github.com/dshills/grantcritic/internal/schema"

func usd(v float64) *float64 { return &v }

// standardCaps are the NIH-wide SBIR/STTR direct-cost guidelines.
func standardCaps() map[schema.Mechanism]*float64 {
	return map[schema.Mechanism]*float64{
		schema.MechanismPhaseI:          usd(314363),
		schema.MechanismPhaseII:         usd(2095748),
		schema.MechanismFastTrack:       usd(2410111),
		schema.MechanismDirectToPhaseII: usd(2095748),
		schema.MechanismPhaseIIB:        nil,
	}
}

func institute(code, name string, caps map[schema.Mechanism]*float64, clinicalTrials bool) InstituteProfile {
	return InstituteProfile{
		Code:                       code,
		Name:                       name,
		BudgetCaps:                 caps,
		SBIRPhase1Minimum:          67,
		SBIRPhase2Minimum:          50,
		STTRSmallBusinessMinimum:   40,
		STTRResearchInstitutionMin: 30,
		ClinicalTrialAllowed:       clinicalTrials,
	}
}

func institutes() []InstituteProfile {
	return []InstituteProfile{
		institute(DefaultInstitute, "Standard NIH", standardCaps(), true),
		institute("NCI", "National Cancer Institute", map[schema.Mechanism]*float64{
			schema.MechanismPhaseI:          usd(400000),
			schema.MechanismPhaseII:         usd(2000000),
			schema.MechanismFastTrack:       usd(2400000),
			schema.MechanismDirectToPhaseII: usd(2000000),
			schema.MechanismPhaseIIB:        usd(4000000),
		}, true),
		institute("NIAID", "National Institute of Allergy and Infectious Diseases", map[schema.Mechanism]*float64{
			schema.MechanismPhaseI:          usd(300000),
			schema.MechanismPhaseII:         usd(2000000),
			schema.MechanismFastTrack:       usd(2300000),
			schema.MechanismDirectToPhaseII: usd(2000000),
		}, true),
		institute("NHLBI", "National Heart, Lung, and Blood Institute", map[schema.Mechanism]*float64{
			schema.MechanismPhaseI:          usd(325000),
			schema.MechanismPhaseII:         usd(2100000),
			schema.MechanismFastTrack:       usd(2425000),
			schema.MechanismDirectToPhaseII: usd(2100000),
			schema.MechanismPhaseIIB:        usd(3000000),
		}, true),
		institute("NIGMS", "National Institute of General Medical Sciences", standardCaps(), false),
		institute("NIDA", "National Institute on Drug Abuse", map[schema.Mechanism]*float64{
			schema.MechanismPhaseI:          usd(350000),
			schema.MechanismPhaseII:         usd(2250000),
			schema.MechanismFastTrack:       usd(2600000),
			schema.MechanismDirectToPhaseII: usd(2250000),
			schema.MechanismPhaseIIB:        usd(3000000),
		}, true),
		institute("NIMH", "National Institute of Mental Health", standardCaps(), true),
		institute("NINDS", "National Institute of Neurological Disorders and Stroke", map[schema.Mechanism]*float64{
			schema.MechanismPhaseI:          usd(350000),
			schema.MechanismPhaseII:         usd(2200000),
			schema.MechanismFastTrack:       usd(2550000),
			schema.MechanismDirectToPhaseII: usd(2200000),
			schema.MechanismPhaseIIB:        usd(3000000),
		}, true),
		institute("NIA", "National Institute on Aging", map[schema.Mechanism]*float64{
			schema.MechanismPhaseI:          usd(500000),
			schema.MechanismPhaseII:         usd(2500000),
			schema.MechanismFastTrack:       usd(3000000),
			schema.MechanismDirectToPhaseII: usd(2500000),
		}, true),
		institute("NIBIB", "National Institute of Biomedical Imaging and Bioengineering", standardCaps(), false),
		institute("NIDDK", "National Institute of Diabetes and Digestive and Kidney Diseases", standardCaps(), true),
	}
}

func phases() []PhaseProfile {
	return []PhaseProfile{
		{
			Mechanism:         schema.MechanismPhaseI,
			CapKey:            schema.MechanismPhaseI,
			RequiredElements:  []string{"specific_aims_statement", "go_no_go_criteria"},
			RequiresGoNoGo:    true,
			UsesPhase1Minimum: true,
		},
		{
			Mechanism:              schema.MechanismPhaseII,
			CapKey:                 schema.MechanismPhaseII,
			RequiredElements:       []string{"specific_aims_statement", "phase1_results", "commercialization_plan"},
			RequiresCommercialPlan: true,
		},
		{
			Mechanism:              schema.MechanismFastTrack,
			CapKey:                 schema.MechanismFastTrack,
			RequiredElements:       []string{"specific_aims_statement", "go_no_go_criteria", "commercialization_plan"},
			RequiresCommercialPlan: true,
			RequiresGoNoGo:         true,
			UsesPhase1Minimum:      true,
		},
		{
			Mechanism:              schema.MechanismDirectToPhaseII,
			CapKey:                 schema.MechanismDirectToPhaseII,
			RequiredElements:       []string{"specific_aims_statement", "feasibility_evidence", "commercialization_plan"},
			RequiresCommercialPlan: true,
		},
		{
			Mechanism:              schema.MechanismPhaseIIB,
			CapKey:                 schema.MechanismPhaseIIB,
			RequiredElements:       []string{"phase2_results", "regulatory_pathway", "commercialization_plan", "third_party_investment"},
			RequiresCommercialPlan: true,
		},
	}
}
