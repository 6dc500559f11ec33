package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codeengine/internal/cache"
	"github.com/standardbeagle/codeengine/internal/plan"
)

func newTestBundle(t *testing.T, ctx context.Context) *Bundle {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("package main\n\nfunc main() {}\n"), 0o644))

	b, err := Startup(ctx, Config{WorkspaceRoot: root})
	require.NoError(t, err)
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = b.Shutdown(shutdownCtx, time.Second)
	})
	return b
}

func TestStartupBringsUpAHealthyBundle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := newTestBundle(t, ctx)
	require.NotNil(t, b.Store)
	require.NotNil(t, b.Index)
	require.NotNil(t, b.Planner)
	require.NotNil(t, b.Shaper)

	report := b.Health.Check(context.Background())
	require.Equal(t, StatusOK, report.Overall)
	require.Equal(t, PressureNormal, report.Pressure)
}

func TestPressureSampleBeyondHighDisablesResultCacheInserts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := newTestBundle(t, ctx)

	b.Health.sample(PressureConfig{LimitBytes: 1, HighRatio: 0.5, CriticalRatio: 0.9})

	report := b.Health.Check(context.Background())
	require.Equal(t, PressureCritical, report.Pressure)

	key := cache.ResultKey{SnapshotID: 1, CanonicalQuery: "q"}
	b.ResultCache.Put(key, plan.CompositeResult{})
	_, ok := b.ResultCache.Get(key)
	require.False(t, ok, "inserts must be disabled beyond pressure-high")

	b.Health.sample(PressureConfig{LimitBytes: 1 << 40, HighRatio: 0.99, CriticalRatio: 0.999})
	report = b.Health.Check(context.Background())
	require.Equal(t, PressureNormal, report.Pressure)
	b.ResultCache.Put(key, plan.CompositeResult{})
	_, ok = b.ResultCache.Get(key)
	require.True(t, ok, "inserts resume once pressure clears")
}

func TestPressureLevelString(t *testing.T) {
	require.Equal(t, "normal", PressureNormal.String())
	require.Equal(t, "pressure-high", PressureHigh.String())
	require.Equal(t, "pressure-critical", PressureCritical.String())
}

func TestReadRSSReturnsPositiveValue(t *testing.T) {
	require.Greater(t, readRSS(), uint64(0))
}
