package patch

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/grantcritic/internal/detect"
	"github.com/dshills/grantcritic/internal/policy"
	"github.com/dshills/grantcritic/internal/schema"
)

var sentencePattern = regexp.MustCompile(`[^.!?\n]+[.!?]*`)

// Suggest builds one patch per sentence that contains a flagged promotional
// term. Every flagged term in the sentence is replaced by its neutral
// wording; the first letter keeps the original's case. Patches follow
// sentence order.
func Suggest(content string, issues []schema.Issue, terms []policy.PromotionalTerm) []schema.Patch {
	replacements := make(map[string]string, len(terms))
	for _, t := range terms {
		replacements[strings.ToLower(t.Term)] = t.Replacement
	}

	var flagged []string
	for _, iss := range issues {
		if iss.Code != detect.CodePromotional || iss.Element == "" {
			continue
		}
		if _, ok := replacements[strings.ToLower(iss.Element)]; ok {
			flagged = append(flagged, iss.Element)
		}
	}
	if len(flagged) == 0 {
		return nil
	}

	var patches []schema.Patch
	seen := make(map[string]bool)
	for _, raw := range sentencePattern.FindAllString(content, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" || seen[sentence] {
			continue
		}
		after := sentence
		var hit []string
		for _, term := range flagged {
			re := detect.TermPattern(term)
			if !re.MatchString(after) {
				continue
			}
			repl := replacements[strings.ToLower(term)]
			after = re.ReplaceAllStringFunc(after, func(m string) string {
				return matchCase(m, repl)
			})
			hit = append(hit, term)
		}
		if len(hit) == 0 {
			continue
		}
		seen[sentence] = true
		patches = append(patches, schema.Patch{
			IssueCode: detect.CodePromotional,
			Element:   strings.Join(hit, ", "),
			Before:    sentence,
			After:     after,
		})
	}
	return patches
}

// matchCase upper-cases the first letter of repl when orig starts with one.
func matchCase(orig, repl string) string {
	r, _ := utf8.DecodeRuneInString(orig)
	if !unicode.IsUpper(r) || repl == "" {
		return repl
	}
	first, size := utf8.DecodeRuneInString(repl)
	return string(unicode.ToUpper(first)) + repl[size:]
}
