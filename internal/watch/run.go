package watch

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/standardbeagle/codeengine/internal/engineerr"
	"github.com/standardbeagle/codeengine/internal/symbolstore"
)

// Ingester is the subset of *ingest.Pipeline the run loop needs, kept as an
// interface so tests can substitute a fake rather than standing up a real
// symbol store and index.
type Ingester interface {
	Ingest(ctx context.Context, path string) error
	Delete(ctx context.Context, path string) error
}

// RunConfig bundles the dependencies a cold-start-then-live watch loop
// needs beyond the Watcher itself.
type RunConfig struct {
	Root     string
	Store    *symbolstore.Store
	Pipeline Ingester
	RetryCfg engineerr.RetryConfig
	Log      *slog.Logger
}

// Run drives a full watch lifecycle: it prepares w (loading ignore rules),
// performs the cold-start reconciliation walk (spec.md §4.7 "Cold start"),
// starts the live event loop, and then consumes events until ctx is
// cancelled or w.Next reports the queue drained and closed. Each event is
// applied through cfg.Pipeline with exponential backoff; per spec.md
// §4.6's failure semantics the pipeline itself quarantines a path after
// its own retry cap, so Retry's exhaustion here is logged and the loop
// continues rather than aborting the whole watch.
func Run(ctx context.Context, w *Watcher, cfg RunConfig) error {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	retryCfg := cfg.RetryCfg
	if retryCfg.MaxRetries == 0 && retryCfg.InitialDelay == 0 {
		retryCfg = engineerr.DefaultRetryConfig()
	}

	if err := w.Prepare(cfg.Root); err != nil {
		return err
	}

	gi := NewIgnoreChecker(w.Ignored)
	if cfg.Store != nil {
		push := func(e Event) {
			applyEvent(ctx, cfg.Root, cfg.Pipeline, retryCfg, log, e)
		}
		if err := ColdStartSync(ctx, cfg.Root, cfg.Store, gi, push); err != nil {
			log.Warn("watch_cold_start_failed", slog.String("error", err.Error()))
		}
	}

	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	for {
		event, ok := w.Next()
		if !ok {
			break
		}
		applyEvent(ctx, cfg.Root, cfg.Pipeline, retryCfg, log, event)
	}

	return <-runErr
}

func applyEvent(ctx context.Context, root string, pipeline Ingester, retryCfg engineerr.RetryConfig, log *slog.Logger, event Event) {
	if pipeline == nil {
		return
	}

	switch event.Operation {
	case OpGitignoreChange:
		// The watcher has already reloaded its ignore matcher; a reconcile
		// pass over affected paths is left to a future cold-start-style
		// diff rather than attempted eagerly here.
		return
	case OpCreate, OpModify:
		absPath := filepath.Join(root, event.Path)
		err := engineerr.Retry(ctx, retryCfg, func() error {
			return pipeline.Ingest(ctx, absPath)
		})
		if err != nil {
			log.Warn("watch_ingest_failed", slog.String("path", event.Path), slog.String("error", err.Error()))
		}
	case OpDelete:
		absPath := filepath.Join(root, event.Path)
		err := engineerr.Retry(ctx, retryCfg, func() error {
			return pipeline.Delete(ctx, absPath)
		})
		if err != nil {
			log.Warn("watch_delete_failed", slog.String("path", event.Path), slog.String("error", err.Error()))
		}
	}
}
