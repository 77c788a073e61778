package policy

import (
	"sort"
	"time"

	"github.com/dshills/grantcritic/internal/schema"
)

// InstituteInfo is the JSON view of an institute profile.
type InstituteInfo struct {
	Code                       string              `json:"code"`
	Name                       string              `json:"name"`
	BudgetCaps                 map[string]*float64 `json:"budget_caps"`
	SBIRPhase1Minimum          float64             `json:"sbir_phase1_minimum"`
	SBIRPhase2Minimum          float64             `json:"sbir_phase2_minimum"`
	STTRSmallBusinessMinimum   float64             `json:"sttr_small_business_minimum"`
	STTRResearchInstitutionMin float64             `json:"sttr_research_institution_minimum"`
	ClinicalTrialAllowed       bool                `json:"clinical_trial_allowed"`
}

// Info summarises the policy tables for display.
type Info struct {
	Version      string           `json:"version"`
	LastUpdated  string           `json:"last_updated"`
	Staleness    schema.Staleness `json:"staleness"`
	Institutes   []InstituteInfo  `json:"institutes"`
	Mechanisms   []string         `json:"mechanisms"`
	SectionTypes []string         `json:"section_types"`
}

// Info describes the policy as of now. Unsupported phases appear with a null cap.
func (p *Policy) Info(now time.Time, maxAge time.Duration) Info {
	mechs := sortedMechanisms(p.phases)
	info := Info{
		Version:      p.Version,
		LastUpdated:  p.LastUpdated.Format("2006-01-02"),
		Staleness:    p.CheckStaleness(now, maxAge),
		Mechanisms:   make([]string, len(mechs)),
		SectionTypes: p.SectionTypes(),
	}
	for i, m := range mechs {
		info.Mechanisms[i] = string(m)
	}
	sort.Strings(info.Mechanisms)
	for _, inst := range p.Institutes() {
		caps := make(map[string]*float64, len(mechs))
		for _, m := range mechs {
			caps[string(m)] = inst.BudgetCap(p.phases[m].CapKey)
		}
		info.Institutes = append(info.Institutes, InstituteInfo{
			Code:                       inst.Code,
			Name:                       inst.Name,
			BudgetCaps:                 caps,
			SBIRPhase1Minimum:          inst.SBIRPhase1Minimum,
			SBIRPhase2Minimum:          inst.SBIRPhase2Minimum,
			STTRSmallBusinessMinimum:   inst.STTRSmallBusinessMinimum,
			STTRResearchInstitutionMin: inst.STTRResearchInstitutionMin,
			ClinicalTrialAllowed:       inst.ClinicalTrialAllowed,
		})
	}
	return info
}
