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
	"github.com/standardbeagle/codeengine/internal/enginepath"
	"github.com/standardbeagle/codeengine/internal/lifecycle"
	"github.com/standardbeagle/codeengine/internal/ui"
)

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index health and storage statistics",
		Long: `Bring the engine up just long enough to report file and symbol
counts, on-disk storage sizes, and the current health/pressure
reading, then shut back down.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func runStatus(cmd *cobra.Command, jsonOutput bool) error {
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

	info, err := collectStatus(ctx, eng, root)
	if err != nil {
		return err
	}

	noColor := ui.DetectNoColor() || jsonOutput
	renderer := ui.NewStatusRenderer(cmd.OutOrStdout(), noColor)
	if jsonOutput {
		return renderer.RenderJSON(info)
	}
	return renderer.Render(info)
}

func collectStatus(ctx context.Context, eng *engine.Engine, root string) (ui.StatusInfo, error) {
	stats, err := eng.Bundle.Store.Stats(ctx)
	if err != nil {
		return ui.StatusInfo{}, fmt.Errorf("read symbol store stats: %w", err)
	}

	report := eng.Health(ctx)

	info := ui.StatusInfo{
		ProjectName:  filepath.Base(root),
		TotalFiles:   stats.FileCount,
		TotalSymbols: stats.SymbolCount,
		HealthStatus: report.Overall.String(),
		Pressure:     report.Pressure.String(),
	}
	if stats.LastModifiedMS > 0 {
		info.LastIndexed = msToTime(stats.LastModifiedMS)
	}

	for _, c := range report.Checks {
		if c.Name == "watcher" {
			if c.Status == lifecycle.StatusOK {
				info.WatcherStatus = "running"
			} else {
				info.WatcherStatus = "stopped"
			}
		}
	}

	info.SymbolStoreSize = pathSize(eng.Bundle.Resolver, enginepath.KindSymbolStoreFile)
	info.IndexSize = dirSize(eng.Bundle.Resolver, enginepath.KindIndexDir)
	info.TotalSize = info.SymbolStoreSize + info.IndexSize

	return info, nil
}

func pathSize(r *enginepath.Resolver, kind enginepath.Kind) int64 {
	p, err := r.Resolve(kind)
	if err != nil {
		return 0
	}
	info, err := os.Stat(p)
	if err != nil {
		return 0
	}
	return info.Size()
}

func dirSize(r *enginepath.Resolver, kind enginepath.Kind) int64 {
	p, err := r.Resolve(kind)
	if err != nil {
		return 0
	}

	var total int64
	_ = filepath.Walk(p, func(_ string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		total += info.Size()
		return nil
	})
	return total
}
