package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/grantcritic/internal/audit"
	"github.com/dshills/grantcritic/internal/content"
	"github.com/dshills/grantcritic/internal/history"
	"github.com/dshills/grantcritic/internal/mcpserver"
	"github.com/dshills/grantcritic/internal/patch"
	"github.com/dshills/grantcritic/internal/project"
	"github.com/dshills/grantcritic/internal/render"
	"github.com/dshills/grantcritic/internal/review"
	"github.com/dshills/grantcritic/internal/schema"
	"github.com/dshills/grantcritic/internal/watch"
)

// auditFlags holds the parsed flags for the audit command.
type auditFlags struct {
	contentFiles      []string
	projectFile       string
	sections          []string
	format            string
	out               string
	severityThreshold string
	failOn            string
	patchOut          string
	phaseElements     bool
	historyDSN        string
	watch             bool
}

func newAuditCmd(appFor func() *app) *cobra.Command {
	var flags auditFlags
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit application text against project metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFor()
			if flags.watch {
				return a.watchAudit(cmd.Context(), flags)
			}
			return a.runAudit(cmd.Context(), flags)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&flags.contentFiles, "content", nil, "Content file paths (may be repeated; .txt, .md or .html)")
	f.StringVar(&flags.projectFile, "project", "", "Project metadata file (YAML or JSON)")
	f.StringArrayVar(&flags.sections, "section", nil, "Section type to check for required elements (may be repeated)")
	f.StringVar(&flags.format, "format", "", "Output format: json or md (default from config)")
	f.StringVar(&flags.out, "out", "", "Write output to file instead of stdout")
	f.StringVar(&flags.severityThreshold, "severity-threshold", "warning", "Minimum severity to list: warning, error, or critical")
	f.StringVar(&flags.failOn, "fail-on", "", "Exit 2 if verdict >= this level (NEEDS_REVISION or BLOCKED)")
	f.StringVar(&flags.patchOut, "patch-out", "", "Write suggested rewordings in diff-match-patch format to this file")
	f.BoolVar(&flags.phaseElements, "phase-elements", false, "Also check the elements required by the project's phase")
	f.StringVar(&flags.historyDSN, "history", "", "Record the audit in this history database (sqlite path or postgres:// URL)")
	f.BoolVar(&flags.watch, "watch", false, "Re-run the audit whenever a content or project file changes")
	return cmd
}

func (a *app) runAudit(ctx context.Context, flags auditFlags) error {
	if flags.format == "" {
		flags.format = a.cfg.Output.Format
	}
	if err := validateFlags(flags); err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}

	engine := audit.New(audit.WithPhaseElements(flags.phaseElements), audit.WithClock(a.now))
	if err := engine.Policy().CheckVersion(a.cfg.Policy.Constraint); err != nil {
		return codeError(exitInput, "policy: %s", err)
	}

	a.logger.Debug("loading content", "files", len(flags.contentFiles))
	bundle, err := content.LoadAll(flags.contentFiles)
	if err != nil {
		return codeError(exitInput, "loading content: %s", err)
	}

	a.logger.Debug("loading project", "path", flags.projectFile)
	meta, err := project.Load(flags.projectFile)
	if err != nil {
		return codeError(exitInput, "loading project: %s", err)
	}

	report, err := engine.Report(bundle.Text, schema.Input{
		ContentFiles: bundle.Paths(),
		ContentHash:  bundle.Hash,
		Project:      meta,
		SectionTypes: flags.sections,
	}, audit.ReportOptions{
		Threshold: schema.Severity(flags.severityThreshold),
		MaxAge:    a.cfg.Policy.MaxAge,
		Version:   version,
	})
	if err != nil {
		return codeError(exitInput, "auditing: %s", err)
	}
	if report.Staleness != nil && report.Staleness.Stale {
		a.logger.Warn("policy tables are stale", "last_updated", report.Staleness.LastUpdated, "age_days", report.Staleness.AgeDays)
	}

	if flags.patchOut != "" {
		a.logger.Debug("generating patches", "path", flags.patchOut, "count", len(report.Patches))
		diffText := patch.GenerateDiff(bundle.Text, report.Patches, a.stderr)
		if err := os.WriteFile(flags.patchOut, []byte(diffText), 0o644); err != nil {
			// Rewordings are advisory; the audit still stands.
			a.logger.Warn("patch write failed", "error", err)
		}
	}

	renderer, err := render.NewRenderer(flags.format)
	if err != nil {
		return codeError(exitInput, "invalid format: %s", err)
	}
	output, err := renderer.Render(report)
	if err != nil {
		return codeError(exitInput, "rendering output: %s", err)
	}
	if err := a.writeOutput(flags.out, output); err != nil {
		return err
	}

	if dsn := a.historyDSN(flags.historyDSN); dsn != "" {
		if err := a.record(ctx, dsn, report); err != nil {
			return err
		}
	}

	if flags.failOn != "" {
		threshold := schema.Verdict(flags.failOn)
		if schema.VerdictOrdinal(report.Summary.Verdict) >= schema.VerdictOrdinal(threshold) {
			return codeError(exitFailOn, "verdict %s meets or exceeds --fail-on threshold %s", report.Summary.Verdict, threshold)
		}
	}
	return nil
}

// watchAudit runs the audit once, then again after every change to an input
// file. Failing verdicts are logged rather than ending the session.
func (a *app) watchAudit(ctx context.Context, flags auditFlags) error {
	if err := validateFlags(flags); err != nil {
		return codeError(exitInput, "invalid flags: %s", err)
	}
	a.auditOnce(ctx, flags)

	paths := append(append([]string{}, flags.contentFiles...), flags.projectFile)
	a.logger.Info("watching for changes", "files", len(paths))
	err := watch.Run(ctx, paths, watch.DefaultDebounce, func() {
		a.logger.Info("change detected, re-auditing")
		a.auditOnce(ctx, flags)
	})
	if err != nil {
		return codeError(exitInput, "%s", err)
	}
	return nil
}

func (a *app) auditOnce(ctx context.Context, flags auditFlags) {
	if err := a.runAudit(ctx, flags); err != nil {
		a.logger.Error("audit failed", "error", err)
	}
}

func (a *app) historyDSN(flag string) string {
	if flag != "" {
		return flag
	}
	return a.cfg.History.DSN
}

func (a *app) record(ctx context.Context, dsn string, report *schema.Report) error {
	store, err := history.Open(ctx, dsn)
	if err != nil {
		return codeError(exitStorage, "opening history: %s", err)
	}
	defer store.Close()

	rec := history.NewRecord(report, a.now())
	if err := store.Save(ctx, rec); err != nil {
		return codeError(exitStorage, "saving history: %s", err)
	}
	a.logger.Debug("audit recorded", "id", rec.ID)
	return nil
}

func (a *app) writeOutput(path string, data []byte) error {
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return codeError(exitInput, "writing output file: %s", err)
		}
		return nil
	}
	if _, err := a.stdout.Write(data); err != nil {
		return codeError(exitInput, "writing output: %s", err)
	}
	// Ensure output ends with a newline for terminal friendliness.
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(a.stdout)
	}
	return nil
}

// validateFlags returns an error if any flag value is invalid.
func validateFlags(flags auditFlags) error {
	if len(flags.contentFiles) == 0 {
		return fmt.Errorf("at least one --content file is required")
	}
	if flags.projectFile == "" {
		return fmt.Errorf("--project is required")
	}

	switch flags.format {
	case "", "json", "md":
	default:
		return fmt.Errorf("--format must be json or md, got %q", flags.format)
	}

	if flags.failOn != "" {
		switch schema.Verdict(flags.failOn) {
		case schema.VerdictNeedsRevision, schema.VerdictBlocked:
		default:
			return fmt.Errorf("--fail-on must be NEEDS_REVISION or BLOCKED, got %q", flags.failOn)
		}
	}

	switch schema.Severity(flags.severityThreshold) {
	case schema.SeverityWarning, schema.SeverityError, schema.SeverityCritical:
	default:
		return fmt.Errorf("--severity-threshold must be warning, error, or critical, got %q", flags.severityThreshold)
	}
	return nil
}

func newAlignCmd(appFor func() *app) *cobra.Command {
	var projectFile, format, out string
	cmd := &cobra.Command{
		Use:   "align",
		Short: "Score project metadata against institute policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFor().runAlign(projectFile, format, out)
		},
	}
	f := cmd.Flags()
	f.StringVar(&projectFile, "project", "", "Project metadata file (YAML or JSON)")
	f.StringVar(&format, "format", "", "Output format: json or md (default from config)")
	f.StringVar(&out, "out", "", "Write output to file instead of stdout")
	return cmd
}

func (a *app) runAlign(projectFile, format, out string) error {
	if projectFile == "" {
		return codeError(exitInput, "invalid flags: --project is required")
	}
	if format == "" {
		format = a.cfg.Output.Format
	}
	renderer, err := render.NewRenderer(format)
	if err != nil {
		return codeError(exitInput, "invalid format: %s", err)
	}

	meta, err := project.Load(projectFile)
	if err != nil {
		return codeError(exitInput, "loading project: %s", err)
	}

	engine := audit.New()
	if err := engine.Policy().CheckVersion(a.cfg.Policy.Constraint); err != nil {
		return codeError(exitInput, "policy: %s", err)
	}
	score := review.Alignment(meta, engine.Policy())
	output, err := renderer.RenderAlignment(&score)
	if err != nil {
		return codeError(exitInput, "rendering output: %s", err)
	}
	return a.writeOutput(out, output)
}

func newPolicyCmd(appFor func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Show policy version, staleness, institutes and section types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFor().runPolicy()
		},
	}
}

func (a *app) runPolicy() error {
	p := audit.New().Policy()
	if err := p.CheckVersion(a.cfg.Policy.Constraint); err != nil {
		return codeError(exitInput, "policy: %s", err)
	}
	info := p.Info(a.now(), a.cfg.Policy.MaxAge)
	if info.Staleness.Stale {
		a.logger.Warn("policy tables are stale", "last_updated", info.LastUpdated, "age_days", info.Staleness.AgeDays)
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return codeError(exitInput, "encoding policy info: %s", err)
	}
	return a.writeOutput("", data)
}

// historyEntry is a stored record plus whether its scores can be compared
// with this binary's.
type historyEntry struct {
	history.Record
	Comparable bool `json:"comparable"`
}

func newHistoryCmd(appFor func() *app) *cobra.Command {
	var (
		dsn    string
		filter history.Filter
	)
	var verdict string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent audits from the history store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Verdict = schema.Verdict(verdict)
			return appFor().runHistory(cmd.Context(), dsn, filter)
		},
	}
	f := cmd.Flags()
	f.StringVar(&dsn, "history", "", "History database (sqlite path or postgres:// URL; default from config)")
	f.IntVar(&filter.Limit, "limit", history.DefaultLimit, "Maximum number of audits to list")
	f.StringVar(&filter.ContentHash, "content-hash", "", "Only audits of this content hash")
	f.StringVar(&filter.Institute, "institute", "", "Only audits scored against this institute")
	f.StringVar(&verdict, "verdict", "", "Only audits with this verdict")
	return cmd
}

func (a *app) runHistory(ctx context.Context, dsnFlag string, filter history.Filter) error {
	dsn := a.historyDSN(dsnFlag)
	if dsn == "" {
		return codeError(exitInput, "no history database: pass --history or set GRANTCRITIC_HISTORY_DSN")
	}
	if filter.Limit < 0 {
		return codeError(exitInput, "invalid flags: --limit must be >= 0, got %d", filter.Limit)
	}

	store, err := history.Open(ctx, dsn)
	if err != nil {
		return codeError(exitStorage, "opening history: %s", err)
	}
	defer store.Close()

	records, err := store.List(ctx, filter)
	if err != nil {
		return codeError(exitStorage, "listing history: %s", err)
	}
	entries := make([]historyEntry, len(records))
	for i, r := range records {
		entries[i] = historyEntry{Record: r, Comparable: history.Comparable(r, audit.EngineVersion)}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return codeError(exitInput, "encoding history: %s", err)
	}
	return a.writeOutput("", data)
}

func newServeCmd(appFor func() *app) *cobra.Command {
	var dsn string
	var phaseElements bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return appFor().runServe(cmd.Context(), dsn, phaseElements)
		},
	}
	cmd.Flags().StringVar(&dsn, "history", "", "Record audits in this history database (default from config)")
	cmd.Flags().BoolVar(&phaseElements, "phase-elements", false, "Also check the elements required by each project's phase")
	return cmd
}

func (a *app) runServe(ctx context.Context, dsnFlag string, phaseElements bool) error {
	engine := audit.New(audit.WithPhaseElements(phaseElements))
	if err := engine.Policy().CheckVersion(a.cfg.Policy.Constraint); err != nil {
		return codeError(exitInput, "policy: %s", err)
	}

	deps := mcpserver.Deps{
		Engine:  engine,
		Version: version,
		MaxAge:  a.cfg.Policy.MaxAge,
		Logger:  a.logger.With("component", "mcp"),
	}
	if dsn := a.historyDSN(dsnFlag); dsn != "" {
		store, err := history.Open(ctx, dsn)
		if err != nil {
			return codeError(exitStorage, "opening history: %s", err)
		}
		defer store.Close()
		deps.History = store
	}

	a.logger.Info("mcp server starting", "version", version)
	if err := mcpserver.Serve(deps); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
