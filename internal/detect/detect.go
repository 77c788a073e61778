// Package detect implements the text signal detectors. Every detector is a
// pure function from text (plus explicit context) to a list of issues; none
// depends on another's output, and blank text always yields no issues.
package detect

import (
	"strings"

	"github.com/dshills/grantcritic/internal/schema"
)

// Issue codes emitted by this package. Section element issues use
// MissingElementCode.
const (
	CodePromotional   = "CLAIM_PROMOTIONAL"
	CodePlaceholder   = "PLACEHOLDER_DETECTED"
	CodeMissingPower  = "STATS_MISSING_POWER"
	CodeMissingTest   = "STATS_MISSING_TEST"
	CodeMissingN      = "STATS_MISSING_N"
	CodeMissingGoNoGo = "MISSING_GO_NO_GO"
	missingCodePrefix = "MISSING_"
)

// MissingElementCode returns the issue code for a missing required element,
// e.g. "explicit_hypothesis" -> "MISSING_EXPLICIT_HYPOTHESIS".
func MissingElementCode(elementID string) string {
	return missingCodePrefix + strings.ToUpper(elementID)
}

func blank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func issue(code string, sev schema.Severity, bucket schema.Bucket, msg string) schema.Issue {
	return schema.Issue{Code: code, Severity: sev, Section: bucket, Message: msg}
}
