package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codeengine/internal/analysis"
	"github.com/standardbeagle/codeengine/internal/extract"
	"github.com/standardbeagle/codeengine/internal/symbolstore"
	"github.com/standardbeagle/codeengine/internal/textindex"
)

const sampleGoSource = `package sample

// Add returns the sum of a and b.
func Add(a, b int) int {
	return a + b
}
`

func newTestPipeline(t *testing.T) (*Pipeline, string) {
	t.Helper()

	dir := t.TempDir()

	store, err := symbolstore.Open("", "ws1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ix, err := textindex.Open("", "", analysis.LoadDefaultSynonyms(), textindex.Config{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })

	storeBatch := symbolstore.NewBatchWriter(store, nil)
	indexBatch := textindex.NewBatchWriter(ix, nil)
	t.Cleanup(func() { _ = storeBatch.Close(context.Background()) })
	t.Cleanup(func() { _ = indexBatch.Close(context.Background()) })

	extractor := extract.NewPool()

	p, err := New(extractor, store, storeBatch, ix, indexBatch, nil, Config{})
	require.NoError(t, err)

	return p, dir
}

func writeSample(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
