package policy

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/grantcritic/internal/schema"
)

func TestDefault_Validates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestInstitute_UnknownFallsBackToStandard(t *testing.T) {
	inst := Default().Institute("NOT-AN-IC")
	assert.Equal(t, DefaultInstitute, inst.Code)
	assert.Equal(t, "Standard NIH", inst.Name)
}

func TestInstitute_CaseInsensitive(t *testing.T) {
	inst, ok := Default().LookupInstitute(" nci ")
	require.True(t, ok)
	assert.Equal(t, "NCI", inst.Code)
}

func TestInstitute_BudgetCapReturnsCopy(t *testing.T) {
	p := Default()
	c := p.Institute("NCI").BudgetCap(schema.MechanismPhaseI)
	require.NotNil(t, c)
	*c = 1
	again := p.Institute("NCI").BudgetCap(schema.MechanismPhaseI)
	assert.Equal(t, 400000.0, *again)
}

func TestInstitute_UnsupportedPhaseIsNil(t *testing.T) {
	assert.Nil(t, Default().Institute("NIAID").BudgetCap(schema.MechanismPhaseIIB))
	assert.Nil(t, Default().Institute(DefaultInstitute).BudgetCap(schema.MechanismPhaseIIB))
}

func TestPhase_GoNoGoOnlyPhaseIAndFastTrack(t *testing.T) {
	for _, m := range []schema.Mechanism{
		schema.MechanismPhaseI, schema.MechanismPhaseII, schema.MechanismFastTrack,
		schema.MechanismDirectToPhaseII, schema.MechanismPhaseIIB,
	} {
		ph, ok := Default().Phase(m)
		require.True(t, ok, "phase %q", m)
		want := m == schema.MechanismPhaseI || m == schema.MechanismFastTrack
		assert.Equal(t, want, ph.RequiresGoNoGo, "phase %q", m)
	}
}

func TestSection_UnknownType(t *testing.T) {
	_, ok := Default().Section("appendix")
	assert.False(t, ok)
}

func TestSectionTypes_Sorted(t *testing.T) {
	types := Default().SectionTypes()
	require.NotEmpty(t, types)
	for i := 1; i < len(types); i++ {
		assert.Less(t, types[i-1], types[i])
	}
}

func TestElement_HypothesisPatterns(t *testing.T) {
	el, ok := Default().Element("explicit_hypothesis")
	require.True(t, ok)
	assert.True(t, el.Matches("We hypothesize that X binds Y."))
	assert.True(t, el.Matches("Our central hypotheses are..."))
	assert.False(t, el.Matches("We will build a device."))
}

func TestPromotionalTerms_ReturnsCopy(t *testing.T) {
	p := Default()
	terms := p.PromotionalTerms()
	terms[0].Term = "mutated"
	assert.NotEqual(t, "mutated", p.PromotionalTerms()[0].Term)
}

func TestPromotionalTerms_WordCharacterEdges(t *testing.T) {
	word := regexp.MustCompile(`^\w.*\w$`)
	for _, term := range Default().PromotionalTerms() {
		assert.Regexp(t, word, term.Term)
		assert.NotEmpty(t, term.Replacement, "term %q", term.Term)
	}
}

func TestValidate_UnmappedElementIsError(t *testing.T) {
	p := build()
	p.sections["custom"] = SectionRule{SectionType: "custom", RequiredElements: []string{"no_such_element"}}
	p.phases[schema.MechanismPhaseI] = PhaseProfile{Mechanism: schema.MechanismPhaseI, RequiredElements: []string{"also_missing"}}

	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no_such_element")
	assert.Contains(t, err.Error(), "also_missing")
}

func TestValidate_EmptyPatternSetIsError(t *testing.T) {
	p := build()
	p.elements["rationale"] = ElementPattern{ID: "rationale"}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty pattern set")
}

func TestCheckVersion(t *testing.T) {
	p := Default()
	assert.NoError(t, p.CheckVersion(""))
	assert.NoError(t, p.CheckVersion(">= 1.0.0, < 2.0.0"))
	assert.Error(t, p.CheckVersion(">= 2.0.0"))
	assert.Error(t, p.CheckVersion("not a constraint"))
}

func TestCheckStaleness(t *testing.T) {
	p := Default()

	fresh := p.CheckStaleness(p.LastUpdated.Add(10*24*time.Hour), 0)
	assert.False(t, fresh.Stale)
	assert.Equal(t, 10, fresh.AgeDays)
	assert.Empty(t, fresh.Message)

	old := p.CheckStaleness(p.LastUpdated.Add(400*24*time.Hour), 365*24*time.Hour)
	assert.True(t, old.Stale)
	assert.True(t, strings.Contains(old.Message, old.LastUpdated))

	future := p.CheckStaleness(p.LastUpdated.Add(-time.Hour), 0)
	assert.Equal(t, 0, future.AgeDays)
	assert.False(t, future.Stale)
}

func TestInfo(t *testing.T) {
	p := Default()
	now := p.LastUpdated.Add(24 * time.Hour)
	info := p.Info(now, 0)

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, "2025-03-01", info.LastUpdated)
	assert.False(t, info.Staleness.Stale)
	assert.Equal(t, 1, info.Staleness.AgeDays)
	assert.Len(t, info.Institutes, len(p.Institutes()))
	assert.Equal(t, p.SectionTypes(), info.SectionTypes)
	assert.Contains(t, info.Mechanisms, "Fast Track")

	for _, inst := range info.Institutes {
		if inst.Code != DefaultInstitute {
			continue
		}
		require.NotNil(t, inst.BudgetCaps["Phase I"])
		assert.Equal(t, 314363.0, *inst.BudgetCaps["Phase I"])
		assert.Nil(t, inst.BudgetCaps["Phase IIB"])
	}
}
