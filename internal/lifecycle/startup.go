// Package lifecycle implements the engine's startup sequence and steady
// state health/lifecycle management (spec.md §4.12): ordered bring-up of
// the symbol store, inverted index, cold-start reconciliation and live
// watch, query planner, result shaper, and cache layer, followed by
// periodic health reporting and a memory-pressure state machine.
//
// Grounded on the teacher's internal/daemon/server.go startup-then-serve
// shape (construct, wire a handler, then block) and internal/preflight's
// check sequence (internal/preflight/check.go's RunAll: an ordered list
// of named, pass/warn/fail checks run once at entry), retargeted here
// from a daemon's preflight gate to the engine's five-step startup
// contract.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/standardbeagle/codeengine/internal/analysis"
	"github.com/standardbeagle/codeengine/internal/cache"
	"github.com/standardbeagle/codeengine/internal/enginepath"
	"github.com/standardbeagle/codeengine/internal/extract"
	"github.com/standardbeagle/codeengine/internal/ingest"
	"github.com/standardbeagle/codeengine/internal/plan"
	"github.com/standardbeagle/codeengine/internal/score"
	"github.com/standardbeagle/codeengine/internal/shape"
	"github.com/standardbeagle/codeengine/internal/symbolstore"
	"github.com/standardbeagle/codeengine/internal/textindex"
	"github.com/standardbeagle/codeengine/internal/watch"
)

// Config controls how Startup wires a workspace's components.
type Config struct {
	WorkspaceRoot string

	IngestConfig   ingest.Config
	WatchOptions   watch.Options
	IndexConfig    textindex.Config
	ShapeConfig    shape.Config
	PressureConfig PressureConfig
	ResultCacheLen int
	DetailCacheLen int
	ParsedCacheLen int

	Log *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	return c
}

// Bundle holds every component Startup brought up, ready for
// internal/engine (or a direct caller) to dispatch queries and ingest
// events against.
type Bundle struct {
	Resolver *enginepath.Resolver
	Store    *symbolstore.Store
	Index    *textindex.Index
	Pipeline *ingest.Pipeline
	Watcher  *watch.Watcher

	Planner *plan.Planner
	Shaper  *shape.Shaper

	ResultCache *cache.ResultCache
	DetailCache *cache.DetailCache
	ParsedCache *cache.ParsedQueryCache[plan.Query]

	Health *Monitor

	storeBatch *symbolstore.BatchWriter
	indexBatch *textindex.BatchWriter
	watchErrs  <-chan error
	log        *slog.Logger
}

// Startup runs the engine's five-step bring-up sequence (spec.md §4.12):
//  1. Acquire or reclaim the writer lock under lock-staleness-threshold —
//     delegated to textindex.Open, which takes the lock at the resolved
//     lock path before touching the index directory.
//  2. Open the symbol store.
//  3. Open or create the inverted index.
//  4. Cold-start reconciliation walk plus the live watch loop, via
//     watch.Run (internal/watch's own orchestration, built for C7).
//  5. Register the factor pipeline (internal/score), analyzers
//     (internal/analysis, registered inside textindex.Open's mapping
//     build), and any configured warmers (textindex.Config.Warmers).
//
// The symbol store (step 2) is opened before textindex.Open takes the
// writer lock (step 1); the other steps run in the order listed.
//
// Startup does not wait for step 4: watch.Run, cold-start walk included,
// runs in a background goroutine together with the live watch loop and
// its ingest consumption, and its terminal error (if any) is available
// from Shutdown.
func Startup(ctx context.Context, cfg Config) (*Bundle, error) {
	cfg = cfg.withDefaults()
	log := cfg.Log

	resolver, err := enginepath.New(cfg.WorkspaceRoot)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: resolve workspace paths: %w", err)
	}

	dbPath, err := resolver.Resolve(enginepath.KindSymbolStoreFile)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: resolve symbol store path: %w", err)
	}
	store, err := symbolstore.Open(dbPath, resolver.WorkspaceID())
	if err != nil {
		return nil, fmt.Errorf("lifecycle: open symbol store: %w", err)
	}

	indexDir, err := resolver.Resolve(enginepath.KindIndexDir)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("lifecycle: resolve index dir: %w", err)
	}
	lockPath, err := resolver.Resolve(enginepath.KindLockFile)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("lifecycle: resolve lock path: %w", err)
	}
	index, err := textindex.Open(indexDir, lockPath, analysis.LoadDefaultSynonyms(), cfg.IndexConfig, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("lifecycle: open inverted index: %w", err)
	}

	storeBatch := symbolstore.NewBatchWriter(store, func(err error) {
		log.Warn("symbolstore_batch_flush_failed", slog.String("error", err.Error()))
	})
	indexBatch := textindex.NewBatchWriter(index, func(err error) {
		log.Warn("textindex_batch_flush_failed", slog.String("error", err.Error()))
	})

	pipeline, err := ingest.New(extract.NewPool(), store, storeBatch, index, indexBatch, log, cfg.IngestConfig)
	if err != nil {
		_ = index.Close()
		_ = store.Close()
		return nil, fmt.Errorf("lifecycle: build ingest pipeline: %w", err)
	}

	watchOpts := cfg.WatchOptions
	watchOpts.EngineStateDir = enginePathBaseName
	w, err := watch.New(watchOpts)
	if err != nil {
		_ = index.Close()
		_ = store.Close()
		return nil, fmt.Errorf("lifecycle: build watcher: %w", err)
	}

	watchErrs := make(chan error, 1)
	go func() {
		watchErrs <- watch.Run(ctx, w, watch.RunConfig{
			Root:     resolver.Root(),
			Store:    store,
			Pipeline: pipeline,
			Log:      log,
		})
	}()

	scorer := score.NewPipeline()
	planner := plan.NewPlanner(index, store, scorer)
	shaper := shape.New(index, nil, cfg.ShapeConfig)

	resultCache := cache.NewResultCache(cfg.ResultCacheLen)
	detailCache := cache.NewDetailCache(cfg.DetailCacheLen)
	parsedCache := cache.NewParsedQueryCache[plan.Query](cfg.ParsedCacheLen)
	shaper.Details = detailCache

	b := &Bundle{
		Resolver:    resolver,
		Store:       store,
		Index:       index,
		Pipeline:    pipeline,
		Watcher:     w,
		Planner:     planner,
		Shaper:      shaper,
		ResultCache: resultCache,
		DetailCache: detailCache,
		ParsedCache: parsedCache,
		storeBatch:  storeBatch,
		indexBatch:  indexBatch,
		watchErrs:   watchErrs,
		log:         log,
	}
	b.Health = NewMonitor(b, log)
	go b.Health.Run(ctx, cfg.PressureConfig)
	return b, nil
}

// enginePathBaseName mirrors enginepath's own top-level segment name, so
// the watcher always ignores it regardless of gitignore content (spec.md
// §4.7 "always ignore the engine state directory"). Duplicated rather
// than exported from enginepath to avoid widening that package's surface
// for one constant only this wiring needs.
const enginePathBaseName = ".codeengine"

// Shutdown stops the watch loop, flushes both batch writers, and closes
// the index and store in reverse dependency order. It waits up to
// gracePeriod for the watch loop to exit before returning its terminal
// error (if any).
func (b *Bundle) Shutdown(ctx context.Context, gracePeriod time.Duration) error {
	b.Watcher.Stop()

	var watchErr error
	select {
	case watchErr = <-b.watchErrs:
	case <-time.After(gracePeriod):
		watchErr = fmt.Errorf("lifecycle: watch loop did not exit within %s", gracePeriod)
	}

	if err := b.Pipeline.Close(ctx); err != nil && watchErr == nil {
		watchErr = err
	}
	if err := b.Index.Close(); err != nil && watchErr == nil {
		watchErr = err
	}
	if err := b.Store.Close(); err != nil && watchErr == nil {
		watchErr = err
	}
	return watchErr
}
