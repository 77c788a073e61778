package detect

import (
	"regexp"

	"github.com/dshills/grantcritic/internal/schema"
)

var (
	experimentCue = regexp.MustCompile(`(?i)\b(experiment\w*|stud(y|ies)|aims?|trials?|assays?)\b`)
	powerCue      = regexp.MustCompile(`(?i)\bpower(ed)?\b|\b80\s*%|sample size`)

	comparisonCue = regexp.MustCompile(`(?i)\b(compar\w*|analy[sz]\w*|differen\w*|versus|vs\.?|significan\w*)\b`)
	testCue       = regexp.MustCompile(`(?i)\bt-tests?\b|\bt tests?\b|\banova\b|\bchi-squared?\b|\bchi squared?\b|\bfisher\b|mann-whitney|\bwilcoxon\b|\bregression\b`)

	groupCue  = regexp.MustCompile(`(?i)\b(groups?|cohorts?|arms?|controls?|treated)\b`)
	sampleCue = regexp.MustCompile(`(?i)\bn\s*=\s*\d+|\b\d+\s+(samples|subjects)\b`)
)

// Statistics runs three independent keyword-gated rigor checks. Any subset of
// STATS_MISSING_POWER, STATS_MISSING_TEST and STATS_MISSING_N may fire.
func Statistics(text string) []schema.Issue {
	if blank(text) {
		return nil
	}
	var issues []schema.Issue
	if experimentCue.MatchString(text) && !powerCue.MatchString(text) {
		iss := issue(CodeMissingPower, schema.SeverityError, schema.BucketStatistical,
			"Experimental aims are described without a power analysis or sample size justification")
		iss.Suggestion = "State the power (e.g. 80%), effect size and resulting sample size for each experiment"
		issues = append(issues, iss)
	}
	if comparisonCue.MatchString(text) && !testCue.MatchString(text) {
		iss := issue(CodeMissingTest, schema.SeverityWarning, schema.BucketStatistical,
			"Comparisons or analyses are described without naming a statistical test")
		iss.Suggestion = "Name the test for each comparison (t-test, ANOVA, chi-square, Fisher, Mann-Whitney, Wilcoxon, regression)"
		issues = append(issues, iss)
	}
	if groupCue.MatchString(text) && !sampleCue.MatchString(text) {
		iss := issue(CodeMissingN, schema.SeverityWarning, schema.BucketStatistical,
			"Grouped experiments are described without explicit sample sizes")
		iss.Suggestion = "Give per-group sample sizes, e.g. \"n = 12 per arm\" or \"40 subjects\""
		issues = append(issues, iss)
	}
	return issues
}
