package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/grantcritic/internal/schema"
)

func TestReport_ThresholdHidesButCountsAll(t *testing.T) {
	e := New(WithClock(fixedClock("2026-01-15T10:00:00Z")))
	content := "A breakthrough assay. Aim 1 compares treated and control groups. Results TBD."
	in := schema.Input{Project: phaseIIMeta(), SectionTypes: []string{"hypothesis"}}

	full, err := e.Report(content, in, ReportOptions{})
	require.NoError(t, err)
	filtered, err := e.Report(content, in, ReportOptions{Threshold: schema.SeverityCritical})
	require.NoError(t, err)

	assert.Equal(t, full.Summary, filtered.Summary)
	assert.Equal(t, full.Fingerprint, filtered.Fingerprint)
	assert.Equal(t, full.Result.Compliance, filtered.Result.Compliance)
	assert.Equal(t, 1, filtered.Summary.CriticalCount)
	require.Len(t, filtered.Result.Issues, 1)
	assert.Equal(t, "PLACEHOLDER_DETECTED", filtered.Result.Issues[0].Code)
	assert.Greater(t, len(full.Result.Issues), 1)
	assert.Equal(t, "critical", filtered.Input.SeverityThreshold)
	assert.Equal(t, "warning", full.Input.SeverityThreshold)
}

func TestReport_Envelope(t *testing.T) {
	e := New(WithClock(fixedClock("2026-01-15T10:00:00Z")))
	in := schema.Input{ContentFiles: []string{"aims.md"}, ContentHash: "sha256:x", Project: phaseIIMeta()}

	r, err := e.Report("This revolutionary sensor works.", in, ReportOptions{Version: "1.2.3"})
	require.NoError(t, err)

	assert.Equal(t, ToolName, r.Tool)
	assert.Equal(t, "1.2.3", r.Version)
	assert.Equal(t, []string{"aims.md"}, r.Input.ContentFiles)
	assert.NotNil(t, r.Input.SectionTypes)
	require.Len(t, r.Patches, 1)
	assert.Equal(t, "This new sensor works.", r.Patches[0].After)
	require.NotNil(t, r.Staleness)
	assert.True(t, r.Staleness.Stale, "tables from 2025-03-01 are stale by 2026-01-15")
}

func TestReport_FreshPolicyNotStale(t *testing.T) {
	e := New(WithClock(func() time.Time { return time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC) }))
	r, err := e.Report(cleanHypothesis, schema.Input{Project: phaseIIMeta()}, ReportOptions{})
	require.NoError(t, err)
	assert.False(t, r.Staleness.Stale)
	assert.Empty(t, r.Patches)
	assert.NotNil(t, r.Patches)
}
