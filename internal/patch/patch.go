// Package patch turns audit findings into suggested rewordings and renders
// them as diff-match-patch text.
package patch

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/grantcritic/internal/schema"
)

// diffPatch is the resolved form of a schema.Patch, holding the exact text
// found in the content.
type diffPatch struct {
	label  string
	before string // text to use as diff source
	after  string // text to use as diff target
}

// GenerateDiff renders patches as diff-match-patch text for --patch-out.
// Patches whose before text cannot be located in content are skipped with a
// warning written to w (may be nil).
func GenerateDiff(content string, patches []schema.Patch, w io.Writer) string {
	if len(patches) == 0 {
		return ""
	}

	normContent := normalize(content)

	dmp := diffmatchpatch.New()
	var out strings.Builder

	for _, p := range patches {
		dp, ok := resolve(p, content, normContent)
		if !ok {
			if w != nil {
				fmt.Fprintf(w, "WARN: patch for %s could not be located in content (before text not matched)\n", label(p))
			}
			continue
		}

		diffs := dmp.DiffMain(dp.before, dp.after, false)
		patchList := dmp.PatchMake(dp.before, diffs)
		patchText := dmp.PatchToText(patchList)
		if patchText == "" {
			continue
		}

		fmt.Fprintf(&out, "# patch for %s\n", dp.label)
		out.WriteString(patchText)
		out.WriteString("\n")
	}

	return out.String()
}

func label(p schema.Patch) string {
	if p.Element == "" {
		return p.IssueCode
	}
	return fmt.Sprintf("%s (%s)", p.IssueCode, p.Element)
}

// resolve locates p.Before in content, first exactly, then after
// whitespace normalization on both sides.
func resolve(p schema.Patch, content, normContent string) (diffPatch, bool) {
	if p.Before == "" {
		return diffPatch{}, false
	}
	if strings.Contains(content, p.Before) {
		return diffPatch{label: label(p), before: p.Before, after: p.After}, true
	}
	normBefore := normalize(p.Before)
	if strings.Contains(normContent, normBefore) {
		return diffPatch{label: label(p), before: normBefore, after: normalize(p.After)}, true
	}
	return diffPatch{}, false
}

// normalize trims trailing whitespace from each line and converts CRLF to LF.
func normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}

