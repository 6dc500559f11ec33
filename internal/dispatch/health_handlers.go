package dispatch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/codeengine/internal/engineerr"
	"github.com/standardbeagle/codeengine/internal/lifecycle"
	"github.com/standardbeagle/codeengine/internal/watch"
)

// indexWorkspaceHandler implements index_workspace (spec.md §6): a
// cold-start-style reconciliation walk reusing watch.ColdStartSync and
// watch.NewIgnoreChecker (the same helpers lifecycle.Startup's
// watch.Run uses at bring-up), pushing synthetic events straight through
// the pipeline rather than through the live watch queue since this is a
// one-shot, caller-triggered pass rather than the continuous loop.
//
// Refuses to run under critical memory pressure (internal/lifecycle's
// pressure.go names this package responsible for that refusal).
func (s *Server) indexWorkspaceHandler(ctx context.Context, _ *mcp.CallToolRequest, in IndexWorkspaceInput) (*mcp.CallToolResult, Envelope, error) {
	if report := s.bundle.Health.Check(ctx); report.Pressure == lifecycle.PressureCritical {
		return nil, Envelope{Success: false, Error: backpressureError("index_workspace")}, nil
	}

	start := time.Now()
	root := s.bundle.Resolver.Root()
	retryCfg := engineerr.DefaultRetryConfig()

	var reconciled int
	push := func(e watch.Event) {
		absPath := filepath.Join(root, e.Path)
		var err error
		if e.Operation == watch.OpDelete {
			err = engineerr.Retry(ctx, retryCfg, func() error { return s.bundle.Pipeline.Delete(ctx, absPath) })
		} else {
			err = engineerr.Retry(ctx, retryCfg, func() error { return s.bundle.Pipeline.Ingest(ctx, absPath) })
		}
		if err == nil {
			reconciled++
		}
	}

	gi := watch.NewIgnoreChecker(s.bundle.Watcher.Ignored)
	if err := watch.ColdStartSync(ctx, root, s.bundle.Store, gi, push); err != nil {
		return nil, errEnvelope(err), nil
	}

	if in.ForceRebuild {
		if err := s.bundle.Pipeline.Flush(ctx); err != nil {
			return nil, errEnvelope(err), nil
		}
	}

	data := IndexWorkspaceData{
		FilesReconciled: reconciled,
		DurationMS:      time.Since(start).Milliseconds(),
	}
	return nil, dataEnvelope("", nil, data), nil
}

// indexHealthHandler implements index_health (spec.md §6): the "index"
// check of a full lifecycle.Report, plus the report's overall status and
// current pressure.
func (s *Server) indexHealthHandler(ctx context.Context, _ *mcp.CallToolRequest, _ IndexHealthInput) (*mcp.CallToolResult, Envelope, error) {
	report := s.bundle.Health.Check(ctx)

	var indexCheck HealthCheckOutput
	for _, c := range report.Checks {
		if c.Name == "index" {
			indexCheck = HealthCheckOutput{Name: c.Name, Status: c.Status.String(), Message: c.Message}
		}
	}

	data := IndexHealthData{
		Status:   report.Overall.String(),
		Check:    indexCheck,
		Pressure: report.Pressure.String(),
	}
	return nil, dataEnvelope("", nil, data), nil
}

// systemHealthHandler implements system_health (spec.md §6): the
// engine's full health snapshot, every dimension lifecycle.Monitor.Check
// runs.
func (s *Server) systemHealthHandler(ctx context.Context, _ *mcp.CallToolRequest, _ SystemHealthInput) (*mcp.CallToolResult, Envelope, error) {
	report := s.bundle.Health.Check(ctx)

	checks := make([]HealthCheckOutput, 0, len(report.Checks))
	for _, c := range report.Checks {
		checks = append(checks, HealthCheckOutput{Name: c.Name, Status: c.Status.String(), Message: c.Message})
	}

	data := SystemHealthData{
		Overall:  report.Overall.String(),
		Checks:   checks,
		Pressure: report.Pressure.String(),
	}
	return nil, dataEnvelope("", nil, data), nil
}
