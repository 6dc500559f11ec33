package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/codeengine/internal/symbolstore"
)

func newColdStartStore(t *testing.T) *symbolstore.Store {
	t.Helper()
	store, err := symbolstore.Open("", "ws1")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestColdStartSyncEmitsCreateForUnknownFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a"), 0o644))

	store := newColdStartStore(t)
	var events []Event
	err := ColdStartSync(context.Background(), dir, store, nil, func(e Event) { events = append(events, e) })
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, OpCreate, events[0].Operation)
	assert.Equal(t, "a.go", events[0].Path)
}

func TestColdStartSyncEmitsModifyForChangedSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a"), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)

	store := newColdStartStore(t)
	require.NoError(t, store.UpsertFile(context.Background(), symbolstore.FileRecord{
		Path:         path,
		ContentHash:  "stale",
		Size:         1, // deliberately wrong to force a modify
		LastModified: info.ModTime().UnixMilli(),
	}, nil, nil))

	var events []Event
	err = ColdStartSync(context.Background(), dir, store, nil, func(e Event) { events = append(events, e) })
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, OpModify, events[0].Operation)
}

func TestColdStartSyncIsQuietWhenConsistent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package a"), 0o644))

	info, err := os.Stat(path)
	require.NoError(t, err)

	store := newColdStartStore(t)
	require.NoError(t, store.UpsertFile(context.Background(), symbolstore.FileRecord{
		Path:         path,
		ContentHash:  "whatever",
		Size:         info.Size(),
		LastModified: info.ModTime().UnixMilli(),
	}, nil, nil))

	var events []Event
	err = ColdStartSync(context.Background(), dir, store, nil, func(e Event) { events = append(events, e) })
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestColdStartSyncEmitsDeleteForMissingFile(t *testing.T) {
	dir := t.TempDir()
	goneAbs := filepath.Join(dir, "gone.go")

	store := newColdStartStore(t)
	require.NoError(t, store.UpsertFile(context.Background(), symbolstore.FileRecord{
		Path:         goneAbs,
		ContentHash:  "x",
		Size:         1,
		LastModified: time.Now().UnixMilli(),
	}, nil, nil))

	var events []Event
	err := ColdStartSync(context.Background(), dir, store, nil, func(e Event) { events = append(events, e) })
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, OpDelete, events[0].Operation)
	assert.Equal(t, "gone.go", events[0].Path)
}

func TestColdStartSyncSkipsIgnoredPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package a"), 0o644))

	store := newColdStartStore(t)
	gi := NewIgnoreChecker(func(path string, isDir bool) bool { return path == "b.go" })

	var events []Event
	err := ColdStartSync(context.Background(), dir, store, gi, func(e Event) { events = append(events, e) })
	require.NoError(t, err)

	require.Len(t, events, 1)
	assert.Equal(t, "a.go", events[0].Path)
}
