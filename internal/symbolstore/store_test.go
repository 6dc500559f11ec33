package symbolstore

import (
	"context"
	"testing"

	"github.com/standardbeagle/codeengine/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("", "ws1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleSymbols(path string) []*Symbol {
	return []*Symbol{
		{ID: "sym-a", Name: "Add", Kind: extract.KindFunction, Language: "go", FilePath: path, StartLine: 3, EndLine: 5},
		{ID: "sym-b", Name: "Greeter", Kind: extract.KindStruct, Language: "go", FilePath: path, StartLine: 8, EndLine: 10},
	}
}

func TestUpsertAndGetSymbolsForFile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := FileRecord{WorkspaceID: "ws1", Path: "a.go", Language: "go", ContentHash: "h1", Size: 10, LastModified: 100}
	require.NoError(t, s.UpsertFile(ctx, file, sampleSymbols("a.go"), nil))

	got, err := s.GetSymbolsForFile(ctx, "a.go")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUpsertFileReplacesPriorSymbols(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := FileRecord{WorkspaceID: "ws1", Path: "a.go", Language: "go", ContentHash: "h1"}
	require.NoError(t, s.UpsertFile(ctx, file, sampleSymbols("a.go"), nil))

	replacement := []*Symbol{{ID: "sym-c", Name: "Only", Kind: extract.KindFunction, Language: "go", FilePath: "a.go", StartLine: 1, EndLine: 2}}
	require.NoError(t, s.UpsertFile(ctx, file, replacement, nil))

	got, err := s.GetSymbolsForFile(ctx, "a.go")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Only", got[0].Name)
}

func TestGetSymbolsByNameScopedToWorkspace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := FileRecord{WorkspaceID: "ws1", Path: "a.go"}
	require.NoError(t, s.UpsertFile(ctx, file, sampleSymbols("a.go"), nil))

	got, err := s.GetSymbolsByName(ctx, "Add")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Add", got[0].Name)

	none, err := s.GetSymbolsByName(ctx, "DoesNotExist")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteFileCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := FileRecord{WorkspaceID: "ws1", Path: "a.go"}
	require.NoError(t, s.UpsertFile(ctx, file, sampleSymbols("a.go"), nil))
	require.NoError(t, s.DeleteFile(ctx, "a.go"))

	got, err := s.GetSymbolsForFile(ctx, "a.go")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetRelationshipsBoundedTraversal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	file := FileRecord{WorkspaceID: "ws1", Path: "a.go"}
	symbols := []*Symbol{
		{ID: "root", Name: "Root", Kind: extract.KindFunction, FilePath: "a.go", StartLine: 1, EndLine: 10},
		{ID: "child", Name: "Child", Kind: extract.KindFunction, FilePath: "a.go", StartLine: 2, EndLine: 3},
		{ID: "grandchild", Name: "Grandchild", Kind: extract.KindFunction, FilePath: "a.go", StartLine: 4, EndLine: 5},
	}
	rels := []*Relationship{
		{SourceSymbolID: "root", TargetSymbolID: "child", Type: extract.RelContains},
		{SourceSymbolID: "child", TargetSymbolID: "grandchild", Type: extract.RelContains},
	}
	require.NoError(t, s.UpsertFile(ctx, file, symbols, rels))

	edges, err := s.GetRelationships(ctx, "root", DirectionOut, 1)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "child", edges[0].TargetSymbolID)

	deep, err := s.GetRelationships(ctx, "root", DirectionOut, 5)
	require.NoError(t, err)
	assert.Len(t, deep, 2)
}

func TestGetFileReturnsRecordOrNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetFile(ctx, "missing.go")
	require.NoError(t, err)
	assert.False(t, ok)

	file := FileRecord{WorkspaceID: "ws1", Path: "a.go", Language: "go", ContentHash: "h1", Size: 10, LastModified: 100}
	require.NoError(t, s.UpsertFile(ctx, file, nil, nil))

	got, ok, err := s.GetFile(ctx, "a.go")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "h1", got.ContentHash)
}

func TestScanChangedSince(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertFile(ctx, FileRecord{WorkspaceID: "ws1", Path: "old.go", LastModified: 100}, nil, nil))
	require.NoError(t, s.UpsertFile(ctx, FileRecord{WorkspaceID: "ws1", Path: "new.go", LastModified: 500}, nil, nil))

	paths, err := s.ScanChangedSince(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, []string{"new.go"}, paths)
}
