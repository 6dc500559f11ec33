package enginepath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCreatesIdempotently(t *testing.T) {
	tmp := t.TempDir()
	r, err := New(tmp)
	require.NoError(t, err)

	for _, kind := range []Kind{KindIndexDir, KindSymbolStoreFile, KindWatcherStateFile, KindLockFile} {
		p1, err := r.Resolve(kind)
		require.NoError(t, err)
		p2, err := r.Resolve(kind)
		require.NoError(t, err)
		assert.Equal(t, p1, p2)
		assert.True(t, filepath.IsAbs(p1))
	}

	_, err = os.Stat(filepath.Join(tmp, engineDirName))
	require.NoError(t, err)
}

func TestWorkspaceIDStableAndDistinct(t *testing.T) {
	a := WorkspaceID("/a/b/c")
	b := WorkspaceID("/a/b/c")
	c := WorkspaceID("/a/b/d")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}

func TestProtectedPaths(t *testing.T) {
	assert.True(t, Protected(KindIndexDir))
	assert.True(t, Protected(KindSymbolStoreFile))
	assert.True(t, Protected(KindLockFile))
	assert.False(t, Protected(KindCacheDir))
	assert.False(t, Protected(KindLogsDir))
}

func TestResolveWithBaseOverride(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "custom-base")
	r, err := NewWithBase(filepath.Join(tmp, "workspace"), base)
	require.NoError(t, err)

	p, err := r.Resolve(KindIndexDir)
	require.NoError(t, err)
	assert.Contains(t, p, base)
}

func TestLayoutUnderWorkspaceID(t *testing.T) {
	tmp := t.TempDir()
	r, err := New(tmp)
	require.NoError(t, err)

	storePath, err := r.Resolve(KindSymbolStoreFile)
	require.NoError(t, err)
	assert.Contains(t, storePath, r.WorkspaceID())
	assert.Contains(t, storePath, filepath.Join("indexes", r.WorkspaceID(), "db"))
}
