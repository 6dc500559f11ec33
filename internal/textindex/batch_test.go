package textindex

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexBatchWriterFlushesOnCount(t *testing.T) {
	ix := newTestIndex(t)
	w := NewBatchWriter(ix, nil)
	w.count = 2
	ctx := context.Background()

	require.NoError(t, w.Add(ctx, sampleDoc("a.go", "x", "X")))
	require.NoError(t, w.Add(ctx, sampleDoc("b.go", "y", "Y")))

	paths, err := ix.AllPaths(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.go", "b.go"}, paths)
}

func TestIndexBatchWriterFlushesOnTimer(t *testing.T) {
	ix := newTestIndex(t)
	w := NewBatchWriter(ix, nil)
	w.interval = 10 * time.Millisecond
	ctx := context.Background()

	require.NoError(t, w.Add(ctx, sampleDoc("a.go", "x", "X")))

	require.Eventually(t, func() bool {
		paths, err := ix.AllPaths(ctx)
		return err == nil && len(paths) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestIndexBatchWriterExplicitFlush(t *testing.T) {
	ix := newTestIndex(t)
	w := NewBatchWriter(ix, nil)
	ctx := context.Background()

	require.NoError(t, w.Add(ctx, sampleDoc("a.go", "x", "X")))
	require.NoError(t, w.Flush(ctx))

	paths, err := ix.AllPaths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go"}, paths)
}
