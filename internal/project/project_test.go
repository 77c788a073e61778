package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/grantcritic/internal/schema"
)

func TestParse_YAML(t *testing.T) {
	meta, err := Parse([]byte(`
institute: NIA
mechanism: phase2
programType: sttr
directCosts: 2400000
smallBusinessPercent: 45
researchInstitutionPercent: 35
clinicalTrialIncluded: true
foaNumber: PAR-23-219
foaOverrides:
  budgetCap: 3000000
  clinicalTrialAllowed: false
`))
	require.NoError(t, err)
	assert.Equal(t, "NIA", meta.Institute)
	assert.Equal(t, schema.MechanismPhaseII, meta.Mechanism)
	assert.Equal(t, schema.ProgramSTTR, meta.ProgramType)
	assert.Equal(t, 2400000.0, meta.DirectCosts)
	assert.True(t, meta.ClinicalTrialIncluded)
	require.NotNil(t, meta.FOAOverrides)
	require.NotNil(t, meta.FOAOverrides.BudgetCap)
	assert.Equal(t, 3000000.0, *meta.FOAOverrides.BudgetCap)
	require.NotNil(t, meta.FOAOverrides.ClinicalTrialAllowed)
	assert.False(t, *meta.FOAOverrides.ClinicalTrialAllowed)
	assert.Nil(t, meta.FOAOverrides.SmallBusinessMinimum)
}

func TestParse_JSON(t *testing.T) {
	meta, err := Parse([]byte(`{"institute":"NCI","mechanism":"Fast Track","programType":"SBIR",
"directCosts":500000,"smallBusinessPercent":70,"researchInstitutionPercent":0}`))
	require.NoError(t, err)
	assert.Equal(t, schema.MechanismFastTrack, meta.Mechanism)
	assert.Nil(t, meta.FOAOverrides)
}

func TestParse_RejectsInvalid(t *testing.T) {
	_, err := Parse([]byte("institute: NCI\nmechanism: Phase I\nprogramType: SBIR\ndirectCosts: -10\nsmallBusinessPercent: 150\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/direct_costs")
	assert.Contains(t, err.Error(), "/small_business_percent")
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("institute: NCI\nmechanism: Phase I\nprogramType: SBIR\nbudget: 10\n"))
	require.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, os.WriteFile(path, []byte("institute: NIMH\nmechanism: Phase I\nprogramType: SBIR\ndirectCosts: 250000\nsmallBusinessPercent: 80\n"), 0o644))

	meta, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, schema.MechanismPhaseI, meta.Mechanism)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_RejectsMissingDirectCosts(t *testing.T) {
	meta, err := Parse([]byte("institute: NCI\nmechanism: Phase II\nprogramType: SBIR\nsmallBusinessPercent: 70\nfoaNumber: PA-24-245\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directCosts")
	assert.Equal(t, schema.ProjectMetadata{}, meta)
}

func TestParse_RejectsMissingSmallBusinessPercent(t *testing.T) {
	_, err := Parse([]byte("institute: NCI\nmechanism: Phase II\nprogramType: SBIR\ndirectCosts: 1000000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smallBusinessPercent")
}

func TestParse_STTRRequiresResearchInstitutionPercent(t *testing.T) {
	_, err := Parse([]byte("institute: NCI\nmechanism: Phase II\nprogramType: STTR\ndirectCosts: 1000000\nsmallBusinessPercent: 45\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "researchInstitutionPercent")

	meta, err := Parse([]byte("institute: NCI\nmechanism: Phase II\nprogramType: SBIR\ndirectCosts: 1000000\nsmallBusinessPercent: 70\n"))
	require.NoError(t, err, "SBIR projects may omit the research-institution share")
	assert.Equal(t, 0.0, meta.ResearchInstitutionPercent)
}

func TestParse_RejectsQuotedDirectCosts(t *testing.T) {
	_, err := Parse([]byte("institute: NCI\nmechanism: Phase II\nprogramType: SBIR\ndirectCosts: \"1900000\"\nsmallBusinessPercent: 70\n"))
	require.Error(t, err)
}
