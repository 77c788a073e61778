package detect

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/dshills/grantcritic/internal/schema"
)

// placeholderPatterns are the unfinished-draft markers. Bare markers are
// matched case-sensitively so ordinary words are not flagged.
var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bTBD\b`),
	regexp.MustCompile(`\bTBA\b`),
	regexp.MustCompile(`\bX{3,}\b`),
	regexp.MustCompile(`(?i)\[\s*insert\b[^\]]*\]`),
	regexp.MustCompile(`(?i)\[\s*todo\b[^\]]*\]`),
	regexp.MustCompile(`(?i)\[\s*fill in\b[^\]]*\]`),
	regexp.MustCompile(`(?i)\[\s*add\b[^\]]*\]`),
}

type placeholderMatch struct {
	start int
	text  string
}

// Placeholders flags every individual placeholder marker as a critical issue,
// ordered by position in text.
func Placeholders(text string) []schema.Issue {
	if blank(text) {
		return nil
	}
	var matches []placeholderMatch
	for _, re := range placeholderPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			matches = append(matches, placeholderMatch{start: loc[0], text: text[loc[0]:loc[1]]})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	issues := make([]schema.Issue, 0, len(matches))
	for _, m := range matches {
		iss := issue(CodePlaceholder, schema.SeverityCritical, schema.BucketStructure,
			fmt.Sprintf("Placeholder %q left in submission text", m.text))
		iss.Element = m.text
		iss.Suggestion = "Replace the placeholder with final content before export"
		issues = append(issues, iss)
	}
	if len(issues) == 0 {
		return nil
	}
	return issues
}
