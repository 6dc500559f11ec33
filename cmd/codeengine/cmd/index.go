package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/codeengine/internal/config"
	"github.com/standardbeagle/codeengine/internal/engine"
	"github.com/standardbeagle/codeengine/internal/engineerr"
	"github.com/standardbeagle/codeengine/internal/ui"
	"github.com/standardbeagle/codeengine/internal/watch"
)

func newIndexCmd() *cobra.Command {
	var (
		forceRebuild bool
		plainOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Reconcile the symbol store and inverted index against the workspace",
		Long: `Walk the workspace, ingest every file that changed since the last
reconciliation, and report progress as it goes. With --force, pending
batched writes are also flushed once the walk ends; files whose content
hash is unchanged are skipped either way.

Running 'codeengine index' is optional: 'codeengine serve' reconciles
automatically on its own cold start and keeps the index live via the
file watcher afterward. Use this command to warm the index ahead of
time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndex(cmd, forceRebuild, plainOutput)
		},
	}

	cmd.Flags().BoolVar(&forceRebuild, "force", false, "Flush pending batched writes after the reconcile (unchanged files are still skipped)")
	cmd.Flags().BoolVar(&plainOutput, "plain", false, "Force plain text progress output")

	return cmd
}

func runIndex(cmd *cobra.Command, forceRebuild, plainOutput bool) error {
	ctx := cmd.Context()

	root, err := config.FindProjectRoot(".")
	if err != nil {
		root, _ = os.Getwd()
	}

	eng, err := engine.Start(ctx, root, nil)
	if err != nil {
		return fmt.Errorf("failed to start engine: %w", err)
	}
	defer func() { _ = eng.Close(context.Background()) }()

	uiCfg := ui.NewConfig(cmd.OutOrStdout(),
		ui.WithForcePlain(plainOutput),
		ui.WithNoColor(ui.DetectNoColor()),
		ui.WithProjectDir(root),
	)
	renderer := ui.NewRenderer(uiCfg)

	if err := renderer.Start(ctx); err != nil {
		return fmt.Errorf("start progress renderer: %w", err)
	}
	defer func() { _ = renderer.Stop() }()

	stats, err := reconcileWorkspace(ctx, eng, renderer, forceRebuild)
	if err != nil {
		return err
	}

	renderer.Complete(stats)
	return nil
}

// reconcileWorkspace replays the cold-start sync walk dispatch's
// index_workspace tool runs on demand, driving a ui.Renderer instead of
// returning a structured tool envelope.
func reconcileWorkspace(ctx context.Context, eng *engine.Engine, renderer ui.Renderer, forceRebuild bool) (ui.CompletionStats, error) {
	bundle := eng.Bundle
	start := time.Now()
	root := bundle.Resolver.Root()
	retryCfg := engineerr.DefaultRetryConfig()

	var files, errCount int
	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageScanning})

	push := func(e watch.Event) {
		absPath := filepath.Join(root, e.Path)
		renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageWriting, CurrentFile: e.Path, Current: files})

		var err error
		if e.Operation == watch.OpDelete {
			err = engineerr.Retry(ctx, retryCfg, func() error { return bundle.Pipeline.Delete(ctx, absPath) })
		} else {
			err = engineerr.Retry(ctx, retryCfg, func() error { return bundle.Pipeline.Ingest(ctx, absPath) })
		}

		if err != nil {
			errCount++
			renderer.AddError(ui.ErrorEvent{File: e.Path, Err: err})
			return
		}
		files++
	}

	gi := watch.NewIgnoreChecker(bundle.Watcher.Ignored)
	if err := watch.ColdStartSync(ctx, root, bundle.Store, gi, push); err != nil {
		return ui.CompletionStats{}, fmt.Errorf("reconcile workspace: %w", err)
	}

	if forceRebuild {
		renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageWriting, Message: "flushing pending writes"})
		if err := bundle.Pipeline.Flush(ctx); err != nil {
			return ui.CompletionStats{}, fmt.Errorf("flush pipeline: %w", err)
		}
	}

	storeStats, err := bundle.Store.Stats(ctx)
	if err != nil {
		return ui.CompletionStats{}, fmt.Errorf("read symbol store stats: %w", err)
	}

	renderer.UpdateProgress(ui.ProgressEvent{Stage: ui.StageComplete})

	return ui.CompletionStats{
		Files:    files,
		Symbols:  storeStats.SymbolCount,
		Duration: time.Since(start),
		Errors:   errCount,
	}, nil
}
