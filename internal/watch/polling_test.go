package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollingWatcherDetectsCreateModifyDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	interval := 25 * time.Millisecond
	p := newPollingWatcher(interval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = p.Start(ctx, dir) }()

	// allow the initial scan to capture the existing file before any
	// mutation, then space each change out by more than one poll period
	// so each lands in its own tick rather than collapsing into the net
	// end state.
	time.Sleep(3 * interval)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("new"), 0o644))

	time.Sleep(3 * interval)
	require.NoError(t, os.WriteFile(path, []byte("v2 longer content"), 0o644))

	time.Sleep(3 * interval)
	require.NoError(t, os.Remove(path))

	ops := make(map[string][]Operation)
	timeout := time.After(2 * time.Second)
	needed := 3
collect:
	for needed > 0 {
		select {
		case e := <-p.Events():
			ops[e.Path] = append(ops[e.Path], e.Operation)
			needed--
		case <-timeout:
			break collect
		}
	}

	assert.Contains(t, ops["b.go"], OpCreate)
	assert.Contains(t, ops["a.go"], OpModify)
	assert.Contains(t, ops["a.go"], OpDelete)
}
