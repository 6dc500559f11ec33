// Package engine is the glue layer cmd/codeengine builds against: it
// turns a loaded internal/config.Config into an internal/lifecycle.Config,
// runs Startup, and wraps the resulting Bundle with an internal/dispatch
// Server ready to serve MCP tool calls.
//
// Grounded on the teacher's internal/daemon/server.go startup-then-serve
// shape (the same shape internal/lifecycle/startup.go's own doc comment
// cites), one level up: where lifecycle.Startup brings up the
// component graph, Engine is the thing cmd/codeengine constructs once
// per process and shuts down once on exit.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/standardbeagle/codeengine/internal/config"
	"github.com/standardbeagle/codeengine/internal/dispatch"
	"github.com/standardbeagle/codeengine/internal/ingest"
	"github.com/standardbeagle/codeengine/internal/lifecycle"
	"github.com/standardbeagle/codeengine/internal/shape"
	"github.com/standardbeagle/codeengine/internal/textindex"
	"github.com/standardbeagle/codeengine/internal/watch"
)

// ShutdownGrace bounds how long Engine.Close waits for the watch loop to
// exit before reporting it as failed (mirrors lifecycle.Bundle.Shutdown's
// own gracePeriod parameter with a fixed, CLI-appropriate default).
const ShutdownGrace = 10 * time.Second

// Engine is one running instance of the code-intelligence stack: a
// lifecycle.Bundle plus the dispatch surface wired to it.
type Engine struct {
	Bundle   *lifecycle.Bundle
	Dispatch *dispatch.Server
	cfg      *config.Config
	log      *slog.Logger
}

// Start loads config.Config for the workspace at root (three-tier
// precedence per internal/config's own doc comment), runs
// lifecycle.Startup, and builds the dispatch surface on top.
func Start(ctx context.Context, root string, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("engine: load config: %w", err)
	}

	bundle, err := lifecycle.Startup(ctx, toLifecycleConfig(root, cfg, log))
	if err != nil {
		return nil, fmt.Errorf("engine: startup: %w", err)
	}

	srv, err := dispatch.NewServer(bundle, log)
	if err != nil {
		_ = bundle.Shutdown(ctx, ShutdownGrace)
		return nil, fmt.Errorf("engine: build dispatch server: %w", err)
	}

	return &Engine{Bundle: bundle, Dispatch: srv, cfg: cfg, log: log}, nil
}

// Serve blocks serving MCP tool calls over stdio until ctx is cancelled.
func (e *Engine) Serve(ctx context.Context) error {
	return e.Dispatch.Serve(ctx)
}

// Close shuts the engine's bundle down, reusing the caller's context for
// cancellation but bounding the wait with ShutdownGrace regardless of
// ctx's own deadline.
func (e *Engine) Close(ctx context.Context) error {
	return e.Bundle.Shutdown(ctx, ShutdownGrace)
}

// Health returns a fresh health report for the running engine (spec.md
// §4.12), the same report index_health/system_health surface over MCP.
func (e *Engine) Health(ctx context.Context) lifecycle.Report {
	return e.Bundle.Health.Check(ctx)
}

// toLifecycleConfig adapts config.Config's on-disk schema onto
// lifecycle.Config's component-level wiring.
func toLifecycleConfig(root string, cfg *config.Config, log *slog.Logger) lifecycle.Config {
	return lifecycle.Config{
		WorkspaceRoot: root,
		IngestConfig: ingest.Config{
			MaxFileSize:         cfg.Ingest.MaxFileSizeBytes,
			CircuitMaxFailures:  cfg.Ingest.CircuitMaxFailures,
			CircuitResetTimeout: time.Duration(cfg.Ingest.CircuitResetTimeoutSeconds) * time.Second,
		},
		WatchOptions: watch.Options{
			DebounceWindow:  time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
			PollInterval:    time.Duration(cfg.Watch.PollIntervalMS) * time.Millisecond,
			EventBufferSize: cfg.Watch.EventBufferSize,
			IgnorePatterns:  append(append([]string{}, cfg.Paths.Exclude...), cfg.Watch.IgnorePatterns...),
		},
		IndexConfig: textindex.Config{
			RefreshInterval: time.Duration(cfg.Index.RefreshIntervalMS) * time.Millisecond,
			LockStaleness:   time.Duration(cfg.Index.LockStalenessSeconds) * time.Second,
			Warmers:         cfg.Index.Warmers,
		},
		ShapeConfig: shape.Config{
			TokenBudgetDefault: cfg.Shape.TokenBudgetDefault,
			DetailTTL:          time.Duration(cfg.Shape.DetailTTLSeconds) * time.Second,
			FragmentSize:       cfg.Shape.FragmentSize,
			MaxFragments:       cfg.Shape.MaxFragments,
			SummaryTopK:        cfg.Shape.SummaryTopK,
		},
		PressureConfig: lifecycle.PressureConfig{
			SampleInterval: time.Duration(cfg.Lifecycle.SampleIntervalSeconds) * time.Second,
			LimitBytes:     cfg.Lifecycle.MemoryLimitBytes,
			HighRatio:      cfg.Lifecycle.PressureHighRatio,
			CriticalRatio:  cfg.Lifecycle.PressureCriticalRatio,
		},
		ResultCacheLen: cfg.Cache.ResultSize,
		DetailCacheLen: cfg.Cache.DetailSize,
		ParsedCacheLen: cfg.Cache.ParsedQuerySize,
		Log:            log,
	}
}
