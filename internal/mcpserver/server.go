// Package mcpserver exposes the audit engine as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/grantcritic/internal/audit"
	"github.com/dshills/grantcritic/internal/history"
	"github.com/dshills/grantcritic/internal/schema"
)

// Recorder stores audit summaries. *history.Store satisfies it.
type Recorder interface {
	Save(ctx context.Context, r history.Record) error
}

// Deps are the collaborators shared by all tools.
type Deps struct {
	Engine  *audit.Engine
	Version string
	MaxAge  time.Duration
	Now     func() time.Time
	// History is optional; when set, every successful audit is recorded.
	History Recorder
	Logger  *slog.Logger
}

func (d *Deps) defaults() {
	if d.Engine == nil {
		d.Engine = audit.New()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
}

// New creates the MCP server with every tool registered.
func New(deps Deps) *server.MCPServer {
	deps.defaults()

	s := server.NewMCPServer(
		audit.ToolName,
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	auditTool := NewAuditTool(deps)
	s.AddTool(auditTool.Definition(), auditTool.Handle)

	alignTool := NewAlignmentTool(deps)
	s.AddTool(alignTool.Definition(), alignTool.Handle)

	policyTool := NewPolicyTool(deps)
	s.AddTool(policyTool.Definition(), policyTool.Handle)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(deps Deps) error {
	return server.ServeStdio(New(deps))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError("encoding result: " + err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// record saves a report summary; failures are logged, never returned.
func (d Deps) record(ctx context.Context, r *schema.Report) {
	if d.History == nil {
		return
	}
	if err := d.History.Save(ctx, history.NewRecord(r, d.Now())); err != nil {
		d.Logger.Warn("history save failed", "error", err)
	}
}
