package review

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dshills/grantcritic/internal/policy"
	"github.com/dshills/grantcritic/internal/schema"
)

var (
	allSeverities = []schema.Severity{schema.SeverityWarning, schema.SeverityError, schema.SeverityCritical}
	allBuckets    = []schema.Bucket{
		schema.BucketStructure, schema.BucketStatistical, schema.BucketRegulatory,
		schema.BucketCommercial, schema.BucketContent,
	}
	allMechanisms = []schema.Mechanism{
		schema.MechanismPhaseI, schema.MechanismPhaseII, schema.MechanismFastTrack,
		schema.MechanismDirectToPhaseII, schema.MechanismPhaseIIB,
	}
)

func genIssues() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, len(allSeverities)*len(allBuckets)-1)).Map(func(idx []int) []schema.Issue {
		issues := make([]schema.Issue, len(idx))
		for i, n := range idx {
			issues[i] = schema.Issue{
				Code:     "GEN",
				Severity: allSeverities[n%len(allSeverities)],
				Section:  allBuckets[n/len(allSeverities)],
			}
		}
		return issues
	})
}

func TestProperty_CompliancePoolsBoundedAndSummed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("pools stay in range and total is their sum", prop.ForAll(
		func(issues []schema.Issue, mi int) bool {
			s := Compliance(allMechanisms[mi], issues)
			inRange := func(v, hi int) bool { return v >= 0 && v <= hi }
			return inRange(s.Structure, MaxStructure) &&
				inRange(s.Statistical, MaxStatistical) &&
				inRange(s.Regulatory, MaxRegulatory) &&
				inRange(s.Commercial, MaxCommercial) &&
				inRange(s.Tone, MaxTone) &&
				s.Total == s.Structure+s.Statistical+s.Regulatory+s.Commercial+s.Tone
		},
		genIssues(),
		gen.IntRange(0, len(allMechanisms)-1),
	))

	properties.Property("Phase I commercial pool is always full", prop.ForAll(
		func(issues []schema.Issue) bool {
			return Compliance(schema.MechanismPhaseI, issues).Commercial == MaxCommercial
		},
		genIssues(),
	))

	properties.TestingRun(t)
}

func TestProperty_AlignmentPoolsBoundedAndSummed(t *testing.T) {
	p := policy.Default()
	institutes := p.Institutes()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("alignment pools stay in range and total is their sum", prop.ForAll(
		func(ii, mi int, sttr bool, costs, sb, ri float64, ct bool) bool {
			meta := schema.ProjectMetadata{
				Institute:                  institutes[ii].Code,
				Mechanism:                  allMechanisms[mi],
				ProgramType:                schema.ProgramSBIR,
				DirectCosts:                costs,
				SmallBusinessPercent:       sb,
				ResearchInstitutionPercent: ri,
				ClinicalTrialIncluded:      ct,
			}
			if sttr {
				meta.ProgramType = schema.ProgramSTTR
			}
			s := Alignment(meta, p)
			inRange := func(v int) bool { return v >= 0 && v <= AlignmentPool }
			return inRange(s.Budget) && inRange(s.Allocation) &&
				inRange(s.FOA) && inRange(s.ClinicalTrial) &&
				s.Total == s.Budget+s.Allocation+s.FOA+s.ClinicalTrial
		},
		gen.IntRange(0, len(institutes)-1),
		gen.IntRange(0, len(allMechanisms)-1),
		gen.Bool(),
		gen.Float64Range(0, 5_000_000),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
