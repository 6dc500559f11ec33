package textindex

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// LockStalenessThreshold is the default age after which a held writer
// lock is assumed abandoned by a crashed process and reclaimed on startup
// (spec.md §4.5 "Locking").
const LockStalenessThreshold = 5 * time.Minute

// writerLock is the engine's single inverted-index writer lock, grounded
// on the teacher's internal/embed.FileLock (gofrs/flock wrapper),
// extended with staleness reclamation by lock-file mtime (spec.md I4).
type writerLock struct {
	path   string
	fl     *flock.Flock
	locked bool
}

func newWriterLock(path string) *writerLock {
	return &writerLock{path: path, fl: flock.New(path)}
}

// acquire takes the writer lock, reclaiming it first if the existing lock
// file is older than staleness.
func (l *writerLock) acquire(staleness time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("textindex: create lock directory: %w", err)
	}

	ok, err := l.fl.TryLock()
	if err != nil {
		return fmt.Errorf("textindex: acquire writer lock: %w", err)
	}
	if ok {
		l.locked = true
		return nil
	}

	if info, statErr := os.Stat(l.path); statErr == nil && time.Since(info.ModTime()) > staleness {
		_ = l.fl.Unlock()
		if rmErr := os.Remove(l.path); rmErr != nil && !os.IsNotExist(rmErr) {
			return fmt.Errorf("textindex: remove stale lock: %w", rmErr)
		}
		l.fl = flock.New(l.path)
		ok, err = l.fl.TryLock()
		if err != nil {
			return fmt.Errorf("textindex: acquire writer lock after reclaim: %w", err)
		}
		if ok {
			l.locked = true
			return nil
		}
	}

	return fmt.Errorf("textindex: writer lock held by another process at %s", l.path)
}

func (l *writerLock) release() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	return l.fl.Unlock()
}
