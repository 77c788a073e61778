package schema

import (
	"strings"
	"time"
)

// Report is the top-level output structure for an audit run.
type Report struct {
	Tool        string      `json:"tool"`
	Version     string      `json:"version"`
	Input       Input       `json:"input"`
	Summary     Summary     `json:"summary"`
	Result      AuditResult `json:"result"`
	Staleness   *Staleness  `json:"staleness,omitempty"`
	Patches     []Patch     `json:"patches"`
	Fingerprint string      `json:"fingerprint"`
}

// Input captures the parameters used for this run.
type Input struct {
	ContentFiles      []string        `json:"content_files"`
	ContentHash       string          `json:"content_hash"` // SHA-256 of the raw files, before normalization
	Project           ProjectMetadata `json:"project"`
	SectionTypes      []string        `json:"section_types"`
	SeverityThreshold string          `json:"severity_threshold"`
}

// Summary holds issue counts.
// Counts always reflect all issues before any --severity-threshold filtering.
type Summary struct {
	Verdict       Verdict `json:"verdict"`
	CriticalCount int     `json:"critical_count"`
	ErrorCount    int     `json:"error_count"`
	WarningCount  int     `json:"warning_count"`
}

// Severity levels for issues.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// SeverityOrdinal orders severities warning(0) < error(1) < critical(2).
// Returns -1 for an unrecognised severity.
func SeverityOrdinal(s Severity) int {
	switch s {
	case SeverityWarning:
		return 0
	case SeverityError:
		return 1
	case SeverityCritical:
		return 2
	}
	return -1
}

// Bucket is the scoring category an issue deducts from. It is not a literal
// document section.
type Bucket string

const (
	BucketStructure   Bucket = "structure"
	BucketStatistical Bucket = "statistical"
	BucketRegulatory  Bucket = "regulatory"
	BucketCommercial  Bucket = "commercial"
	BucketContent     Bucket = "content"
)

// Verdict is the overall outcome of an audit.
type Verdict string

const (
	VerdictPass          Verdict = "PASS"
	VerdictNeedsRevision Verdict = "NEEDS_REVISION"
	VerdictBlocked       Verdict = "BLOCKED"
)

// VerdictOrdinal returns the numeric ordering for a verdict, used by --fail-on
// comparison. PASS(0) < NEEDS_REVISION(1) < BLOCKED(2).
// Returns -1 for an unrecognised verdict.
func VerdictOrdinal(v Verdict) int {
	switch v {
	case VerdictPass:
		return 0
	case VerdictNeedsRevision:
		return 1
	case VerdictBlocked:
		return 2
	default:
		return -1
	}
}

// Issue is a single finding produced by a detector. Issues are values and are
// never mutated after creation.
type Issue struct {
	Code       string   `json:"code"`
	Severity   Severity `json:"severity"`
	Section    Bucket   `json:"section"`
	Message    string   `json:"message"`
	Element    string   `json:"element,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Mechanism is the grant instrument.
type Mechanism string

const (
	MechanismPhaseI          Mechanism = "Phase I"
	MechanismPhaseII         Mechanism = "Phase II"
	MechanismFastTrack       Mechanism = "Fast Track"
	MechanismDirectToPhaseII Mechanism = "Direct-to-Phase-II"
	MechanismPhaseIIB        Mechanism = "Phase IIB"
)

// ParseMechanism normalizes loose spellings ("phase1", "PHASE_I", "fast-track",
// "D2P2") to a canonical Mechanism. Unrecognised input is returned trimmed but
// otherwise verbatim; it matches no phase profile.
func ParseMechanism(s string) Mechanism {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "", "-", "", "_", "", ".", "").Replace(key)
	switch key {
	case "phasei", "phase1", "i", "1":
		return MechanismPhaseI
	case "phaseii", "phase2", "ii", "2":
		return MechanismPhaseII
	case "fasttrack", "ft":
		return MechanismFastTrack
	case "directtophaseii", "directtophase2", "directphaseii", "d2p2", "dp2":
		return MechanismDirectToPhaseII
	case "phaseiib", "phase2b", "iib":
		return MechanismPhaseIIB
	}
	return Mechanism(strings.TrimSpace(s))
}

// ProgramType distinguishes SBIR from STTR.
type ProgramType string

const (
	ProgramSBIR ProgramType = "SBIR"
	ProgramSTTR ProgramType = "STTR"
)

// ParseProgramType upper-cases and trims s.
func ParseProgramType(s string) ProgramType {
	return ProgramType(strings.ToUpper(strings.TrimSpace(s)))
}

// ProjectMetadata is the caller-owned project description scored by the
// agency alignment scorer. The engine only reads it.
type ProjectMetadata struct {
	Institute                  string        `json:"institute" yaml:"institute"`
	Mechanism                  Mechanism     `json:"mechanism" yaml:"mechanism"`
	ProgramType                ProgramType   `json:"program_type" yaml:"programType"`
	DirectCosts                float64       `json:"direct_costs" yaml:"directCosts"`
	SmallBusinessPercent       float64       `json:"small_business_percent" yaml:"smallBusinessPercent"`
	ResearchInstitutionPercent float64       `json:"research_institution_percent" yaml:"researchInstitutionPercent"`
	ClinicalTrialIncluded      bool          `json:"clinical_trial_included" yaml:"clinicalTrialIncluded"`
	FOANumber                  string        `json:"foa_number,omitempty" yaml:"foaNumber"`
	FOAOverrides               *FOAOverrides `json:"foa_overrides,omitempty" yaml:"foaOverrides"`
}

// FOAOverrides carries FOA-specific values that take precedence over the
// institute defaults. Nil fields mean "use the default".
type FOAOverrides struct {
	BudgetCap                  *float64 `json:"budget_cap,omitempty" yaml:"budgetCap"`
	SmallBusinessMinimum       *float64 `json:"small_business_minimum,omitempty" yaml:"smallBusinessMinimum"`
	ResearchInstitutionMinimum *float64 `json:"research_institution_minimum,omitempty" yaml:"researchInstitutionMinimum"`
	ClinicalTrialAllowed       *bool    `json:"clinical_trial_allowed,omitempty" yaml:"clinicalTrialAllowed"`
}

// ComplianceScore is the weighted 100-point text compliance score.
type ComplianceScore struct {
	Structure   int            `json:"structure"`
	Statistical int            `json:"statistical"`
	Regulatory  int            `json:"regulatory"`
	Commercial  int            `json:"commercial"`
	Tone        int            `json:"tone"`
	Total       int            `json:"total"`
	Breakdown   map[string]int `json:"breakdown"`
}

// AgencyAlignmentScore scores project metadata against institute policy.
type AgencyAlignmentScore struct {
	Budget             int            `json:"budget"`
	Allocation         int            `json:"allocation"`
	FOA                int            `json:"foa"`
	ClinicalTrial      int            `json:"clinical_trial"`
	Total              int            `json:"total"`
	Breakdown          map[string]int `json:"breakdown"`
	Institute          string         `json:"institute"`
	EffectiveBudgetCap *float64       `json:"effective_budget_cap,omitempty"`
}

// AuditResult is the terminal aggregate of one audit. It is built fresh on
// every call and never mutated after return.
type AuditResult struct {
	Compliance     ComplianceScore      `json:"compliance_score"`
	Alignment      AgencyAlignmentScore `json:"agency_alignment_score"`
	Issues         []Issue              `json:"issues"`
	BlockingIssues []Issue              `json:"blocking_issues"`
	ExportAllowed  bool                 `json:"export_allowed"`
	Passed         bool                 `json:"passed"`
	Verdict        Verdict              `json:"verdict"`
	Timestamp      time.Time            `json:"timestamp"`
	EngineVersion  string               `json:"engine_version"`
	PolicyVersion  string               `json:"policy_version"`
}

// Staleness reports how old the policy tables are relative to a supplied time.
type Staleness struct {
	LastUpdated string `json:"last_updated"`
	AgeDays     int    `json:"age_days"`
	Stale       bool   `json:"stale"`
	Message     string `json:"message,omitempty"`
}

// Patch is a suggested neutral rewording for a sentence that triggered an
// issue. internal/patch uses a separate internal type for diff processing.
type Patch struct {
	IssueCode string `json:"issue_code"`
	Element   string `json:"element"`
	Before    string `json:"before"`
	After     string `json:"after"`
}
