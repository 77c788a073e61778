// Package policy holds the static NIH SBIR/STTR policy tables: institute
// budget caps and allocation minimums, phase requirements, the promotional
// lexicon and the section/element pattern map.
//
// Tables are built once per process and are read-only afterwards. Every
// accessor returns values or copies so callers cannot mutate shared state.
package policy

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dshills/grantcritic/internal/schema"
)

// DefaultInstitute is the fallback profile code for unrecognised institutes.
const DefaultInstitute = "STANDARD"

// InstituteProfile describes one NIH institute's SBIR/STTR policy.
type InstituteProfile struct {
	Code string
	Name string
	// BudgetCaps maps a mechanism to its direct-cost cap. A nil entry (or a
	// missing key) means the institute does not support that phase.
	BudgetCaps                 map[schema.Mechanism]*float64
	SBIRPhase1Minimum          float64
	SBIRPhase2Minimum          float64
	STTRSmallBusinessMinimum   float64
	STTRResearchInstitutionMin float64
	ClinicalTrialAllowed       bool
}

// BudgetCap returns the cap for m, or nil when the phase is unsupported.
func (p InstituteProfile) BudgetCap(m schema.Mechanism) *float64 {
	c, ok := p.BudgetCaps[m]
	if !ok || c == nil {
		return nil
	}
	v := *c
	return &v
}

// PhaseProfile describes the requirements of one grant mechanism.
type PhaseProfile struct {
	Mechanism schema.Mechanism
	// CapKey names the institute budget-cap entry this phase is checked against.
	CapKey                 schema.Mechanism
	RequiredElements       []string
	RequiresCommercialPlan bool
	RequiresGoNoGo         bool
	// UsesPhase1Minimum selects the SBIR phase-1 small-business minimum.
	UsesPhase1Minimum bool
}

// PromotionalTerm is a marketing phrase and its neutral replacement.
type PromotionalTerm struct {
	Term        string
	Replacement string
}

// ElementPattern is the detection pattern set for one required element.
type ElementPattern struct {
	ID          string
	Bucket      schema.Bucket
	Description string
	Patterns    []*regexp.Regexp
}

// Matches reports whether any of the element's patterns match text.
func (e ElementPattern) Matches(text string) bool {
	for _, re := range e.Patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// SectionRule lists the elements a section type must contain.
type SectionRule struct {
	SectionType      string
	RequiredElements []string
	Description      string
}

// Policy is the complete, immutable policy configuration.
type Policy struct {
	Version     string
	LastUpdated time.Time

	institutes  map[string]InstituteProfile
	phases      map[schema.Mechanism]PhaseProfile
	promotional []PromotionalTerm
	sections    map[string]SectionRule
	elements    map[string]ElementPattern
}

var (
	defaultOnce   sync.Once
	defaultPolicy *Policy
)

// Default returns the built-in policy. The tables are validated on first use;
// a built-in table that references an unmapped element is a programming error.
func Default() *Policy {
	defaultOnce.Do(func() {
		p := build()
		if err := p.Validate(); err != nil {
			panic(fmt.Sprintf("policy: built-in tables invalid: %v", err))
		}
		defaultPolicy = p
	})
	return defaultPolicy
}

func build() *Policy {
	p := &Policy{
		Version:     Version,
		LastUpdated: lastUpdated,
		institutes:  make(map[string]InstituteProfile),
		phases:      make(map[schema.Mechanism]PhaseProfile),
		sections:    make(map[string]SectionRule),
		elements:    make(map[string]ElementPattern),
	}
	for _, inst := range institutes() {
		p.institutes[inst.Code] = inst
	}
	for _, ph := range phases() {
		p.phases[ph.Mechanism] = ph
	}
	for _, el := range elements() {
		p.elements[el.ID] = el
	}
	for _, sr := range sections() {
		p.sections[sr.SectionType] = sr
	}
	p.promotional = promotionalTerms()
	return p
}

// Institute returns the profile for code, falling back to the Standard NIH
// profile when the code is unknown. It never fails.
func (p *Policy) Institute(code string) InstituteProfile {
	if inst, ok := p.LookupInstitute(code); ok {
		return inst
	}
	return p.institutes[DefaultInstitute]
}

// LookupInstitute returns the profile for code and whether it is known.
// Codes are matched case-insensitively.
func (p *Policy) LookupInstitute(code string) (InstituteProfile, bool) {
	inst, ok := p.institutes[strings.ToUpper(strings.TrimSpace(code))]
	return inst, ok
}

// Institutes returns all institute profiles sorted by code.
func (p *Policy) Institutes() []InstituteProfile {
	out := make([]InstituteProfile, 0, len(p.institutes))
	for _, inst := range p.institutes {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Phase returns the phase profile for m.
func (p *Policy) Phase(m schema.Mechanism) (PhaseProfile, bool) {
	ph, ok := p.phases[m]
	return ph, ok
}

// Section returns the rule for a section type.
func (p *Policy) Section(sectionType string) (SectionRule, bool) {
	sr, ok := p.sections[strings.ToLower(strings.TrimSpace(sectionType))]
	return sr, ok
}

// SectionTypes returns the registered section types in sorted order.
func (p *Policy) SectionTypes() []string {
	out := make([]string, 0, len(p.sections))
	for k := range p.sections {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Element returns the detection pattern set for an element id.
func (p *Policy) Element(id string) (ElementPattern, bool) {
	el, ok := p.elements[id]
	return el, ok
}

// PromotionalTerms returns a copy of the promotional lexicon.
func (p *Policy) PromotionalTerms() []PromotionalTerm {
	out := make([]PromotionalTerm, len(p.promotional))
	copy(out, p.promotional)
	return out
}

// Validate checks that every phase and section required element resolves to a
// non-empty pattern set. An unmapped element would be silently unenforceable,
// so it is reported as a configuration error.
func (p *Policy) Validate() error {
	var errs []error
	if _, ok := p.institutes[DefaultInstitute]; !ok {
		errs = append(errs, fmt.Errorf("default institute %q is not defined", DefaultInstitute))
	}
	for _, m := range sortedMechanisms(p.phases) {
		for _, id := range p.phases[m].RequiredElements {
			if err := p.checkElement(id); err != nil {
				errs = append(errs, fmt.Errorf("phase %q: %w", m, err))
			}
		}
	}
	for _, st := range p.SectionTypes() {
		for _, id := range p.sections[st].RequiredElements {
			if err := p.checkElement(id); err != nil {
				errs = append(errs, fmt.Errorf("section %q: %w", st, err))
			}
		}
	}
	for _, t := range p.promotional {
		if t.Term == "" {
			errs = append(errs, errors.New("promotional lexicon contains an empty term"))
		}
	}
	return errors.Join(errs...)
}

func (p *Policy) checkElement(id string) error {
	el, ok := p.elements[id]
	if !ok {
		return fmt.Errorf("element %q has no detection patterns", id)
	}
	if len(el.Patterns) == 0 {
		return fmt.Errorf("element %q has an empty pattern set", id)
	}
	return nil
}

func sortedMechanisms(m map[schema.Mechanism]PhaseProfile) []schema.Mechanism {
	out := make([]schema.Mechanism, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
