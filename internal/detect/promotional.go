package detect

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dshills/grantcritic/internal/policy"
	"github.com/dshills/grantcritic/internal/schema"
)

// termPatterns caches compiled word-boundary matchers keyed by lexicon term.
var termPatterns sync.Map

// TermPattern returns the case-insensitive, word-bounded matcher for a lexicon
// term. Internal whitespace in multi-word terms matches any whitespace run.
func TermPattern(term string) *regexp.Regexp {
	if re, ok := termPatterns.Load(term); ok {
		return re.(*regexp.Regexp)
	}
	parts := strings.Fields(term)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re := regexp.MustCompile(`(?i)\b` + strings.Join(parts, `\s+`) + `\b`)
	actual, _ := termPatterns.LoadOrStore(term, re)
	return actual.(*regexp.Regexp)
}

// Promotional flags marketing language. Each distinct lexicon term found in
// text yields exactly one CLAIM_PROMOTIONAL error, however many times it occurs.
func Promotional(text string, terms []policy.PromotionalTerm) []schema.Issue {
	if blank(text) {
		return nil
	}
	var issues []schema.Issue
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		key := strings.ToLower(t.Term)
		if t.Term == "" || seen[key] {
			continue
		}
		if !TermPattern(t.Term).MatchString(text) {
			continue
		}
		seen[key] = true
		iss := issue(CodePromotional, schema.SeverityError, schema.BucketContent,
			fmt.Sprintf("Promotional term %q reads as marketing language rather than a scientific claim", t.Term))
		iss.Element = t.Term
		iss.Suggestion = fmt.Sprintf("Replace %q with neutral wording such as %q and support the claim with data", t.Term, t.Replacement)
		issues = append(issues, iss)
	}
	return issues
}
