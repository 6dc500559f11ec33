package engine

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/codeengine/internal/config"
)

func TestToLifecycleConfig_MapsAllSections(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Paths.Exclude = []string{"**/vendor/**"}
	cfg.Watch.IgnorePatterns = []string{"**/testdata/**"}

	lc := toLifecycleConfig("/workspace", cfg, slog.Default())

	assert.Equal(t, "/workspace", lc.WorkspaceRoot)
	assert.Equal(t, cfg.Ingest.CircuitMaxFailures, lc.IngestConfig.CircuitMaxFailures)
	assert.Equal(t, time.Duration(cfg.Ingest.CircuitResetTimeoutSeconds)*time.Second, lc.IngestConfig.CircuitResetTimeout)
	assert.Equal(t, time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, lc.WatchOptions.DebounceWindow)
	assert.Contains(t, lc.WatchOptions.IgnorePatterns, "**/vendor/**")
	assert.Contains(t, lc.WatchOptions.IgnorePatterns, "**/testdata/**")
	assert.Equal(t, cfg.Index.Warmers, lc.IndexConfig.Warmers)
	assert.Equal(t, cfg.Shape.SummaryTopK, lc.ShapeConfig.SummaryTopK)
	assert.Equal(t, cfg.Lifecycle.PressureHighRatio, lc.PressureConfig.HighRatio)
	assert.Equal(t, cfg.Cache.ResultSize, lc.ResultCacheLen)
}
