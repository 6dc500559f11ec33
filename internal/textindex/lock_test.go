package textindex

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLockAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "writer.lock")
	l := newWriterLock(path)
	require.NoError(t, l.acquire(LockStalenessThreshold))
	assert.True(t, l.locked)
	require.NoError(t, l.release())
	assert.False(t, l.locked)
}

func TestWriterLockRejectsConcurrentHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "writer.lock")
	first := newWriterLock(path)
	require.NoError(t, first.acquire(LockStalenessThreshold))
	defer first.release()

	second := newWriterLock(path)
	err := second.acquire(LockStalenessThreshold)
	assert.Error(t, err)
}

func TestWriterLockReclaimsStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "writer.lock")
	first := newWriterLock(path)
	require.NoError(t, first.acquire(LockStalenessThreshold))

	second := newWriterLock(path)
	err := second.acquire(1 * time.Nanosecond)
	require.NoError(t, err)
	defer second.release()
}
