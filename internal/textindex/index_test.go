package textindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codeengine/internal/analysis"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open("", "", analysis.LoadDefaultSynonyms(), Config{}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	return ix
}

func TestOpenInMemoryIndex(t *testing.T) {
	ix := newTestIndex(t)
	require.NotNil(t, ix.idx)
}

func TestCloseIsIdempotent(t *testing.T) {
	ix, err := Open("", "", analysis.LoadDefaultSynonyms(), Config{}, nil)
	require.NoError(t, err)
	require.NoError(t, ix.Close())
	require.NoError(t, ix.Close())
}

func TestOperationsFailAfterClose(t *testing.T) {
	ix, err := Open("", "", analysis.LoadDefaultSynonyms(), Config{}, nil)
	require.NoError(t, err)
	require.NoError(t, ix.Close())

	ctx := context.Background()
	require.Error(t, ix.AddOrReplace(ctx, Document{Path: "a.go"}))
	require.Error(t, ix.Delete(ctx, []string{"a.go"}))
	_, err = ix.Search(ctx, SearchRequest{Query: "foo"})
	require.Error(t, err)
}
