package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/standardbeagle/codeengine/internal/ignore"
)

// Watcher subscribes to filesystem change events under a workspace root,
// filtered by an ignore rule set, and emits coalesced events on a bounded,
// asymmetrically-dropping queue (spec.md §4.7). Grounded on the teacher's
// HybridWatcher: fsnotify primary, polling fallback, same recursive
// directory-add and per-event filtering shape.
type Watcher struct {
	fsWatcher   *fsnotify.Watcher
	pollWatcher *pollingWatcher
	useFsnotify bool

	debouncer *Debouncer
	queue     *outQueue
	errors    chan error

	gitignore *ignore.Matcher
	opts      Options
	rootPath  string

	mu             sync.RWMutex
	stopCh         chan struct{}
	stopped        bool
	droppedBatches atomic.Uint64
}

// New builds a Watcher, preferring fsnotify and falling back to polling if
// the platform's fsnotify backend fails to initialize.
func New(opts Options) (*Watcher, error) {
	opts = opts.withDefaults()

	w := &Watcher{
		debouncer: NewDebouncer(opts.DebounceWindow),
		queue:     newOutQueue(opts.EventBufferSize),
		errors:    make(chan error, 10),
		gitignore: ignore.New(),
		opts:      opts,
		stopCh:    make(chan struct{}),
	}

	for _, p := range opts.IgnorePatterns {
		w.gitignore.AddPattern(p)
	}
	w.addEngineStatePatterns()

	if fsw, err := fsnotify.NewWatcher(); err == nil {
		w.fsWatcher = fsw
		w.useFsnotify = true
	} else {
		w.useFsnotify = false
		w.pollWatcher = newPollingWatcher(opts.PollInterval)
	}

	return w, nil
}

func (w *Watcher) addEngineStatePatterns() {
	dir := w.opts.EngineStateDir
	if dir == "" {
		return
	}
	w.gitignore.AddPattern(dir + "/")
	w.gitignore.AddPattern(dir + "/**")
}

// Prepare resolves root and loads the ignore rule set, without starting
// the blocking watch loop. Callers that need a cold-start reconciliation
// walk to see a fully-loaded ignore matcher (spec.md §4.7) call Prepare,
// run ColdStartSync, then Run — Start is the single-call convenience for
// callers that don't need that ordering.
func (w *Watcher) Prepare(root string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("watch: resolve root: %w", err)
	}
	w.rootPath = absRoot
	w.loadGitignore()
	return nil
}

// Run starts the blocking watch loop. Prepare must have been called first.
func (w *Watcher) Run(ctx context.Context) error {
	go w.forwardDebounced(ctx)
	if w.useFsnotify {
		return w.startFsnotify(ctx)
	}
	return w.startPolling(ctx)
}

// Start prepares and runs the watcher in one call, blocking until the
// context is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, root string) error {
	if err := w.Prepare(root); err != nil {
		return err
	}
	return w.Run(ctx)
}

func (w *Watcher) startFsnotify(ctx context.Context) error {
	if err := w.addRecursive(w.rootPath); err != nil {
		return fmt.Errorf("watch: add directories: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			_ = w.Stop()
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.emitError(err)
		}
	}
}

func (w *Watcher) startPolling(ctx context.Context) error {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			case event, ok := <-w.pollWatcher.Events():
				if !ok {
					return
				}
				w.handlePlainEvent(event.Path, event.Operation, event.IsDir)
			case err, ok := <-w.pollWatcher.Errors():
				if !ok {
					return
				}
				w.emitError(err)
			}
		}
	}()
	return w.pollWatcher.Start(ctx, w.rootPath)
}

func (w *Watcher) handleFsnotifyEvent(event fsnotify.Event) {
	relPath, err := filepath.Rel(w.rootPath, event.Name)
	if err != nil {
		relPath = event.Name
	}

	isDir := false
	if info, err := os.Stat(event.Name); err == nil {
		isDir = info.IsDir()
	}

	if filepath.Base(event.Name) == ".gitignore" {
		w.loadGitignore()
		w.debouncer.Add(Event{Path: relPath, Operation: OpGitignoreChange, Timestamp: time.Now()})
		return
	}

	var op Operation
	switch {
	case event.Op&fsnotify.Create != 0:
		op = OpCreate
		if isDir {
			_ = w.fsWatcher.Add(event.Name)
		}
	case event.Op&fsnotify.Write != 0:
		op = OpModify
	case event.Op&fsnotify.Remove != 0:
		op = OpDelete
	case event.Op&fsnotify.Rename != 0:
		// A rename event fires on the path being vacated; the destination
		// path gets its own Create event, so spec.md's "rename splits into
		// delete(old)+create(new)" falls out naturally here.
		op = OpDelete
	default:
		return
	}

	w.handlePlainEvent(relPath, op, isDir)
}

func (w *Watcher) handlePlainEvent(relPath string, op Operation, isDir bool) {
	if w.shouldIgnore(relPath, isDir) {
		return
	}
	if filepath.Base(relPath) == ".gitignore" {
		w.loadGitignore()
		w.debouncer.Add(Event{Path: relPath, Operation: OpGitignoreChange, Timestamp: time.Now()})
		return
	}
	w.debouncer.Add(Event{Path: relPath, Operation: op, IsDir: isDir, Timestamp: time.Now()})
}

func (w *Watcher) forwardDebounced(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case events, ok := <-w.debouncer.Output():
			if !ok {
				return
			}
			for _, e := range events {
				w.queue.Push(e)
			}
		}
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, _ := filepath.Rel(w.rootPath, path)
		if rel == "." {
			return w.fsWatcher.Add(path)
		}
		if w.shouldIgnoreDir(rel) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) shouldIgnoreDir(relPath string) bool {
	if strings.HasPrefix(relPath, ".git") {
		return true
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gitignore.Match(relPath, true)
}

func (w *Watcher) shouldIgnore(relPath string, isDir bool) bool {
	if relPath == "." || relPath == "" {
		return true
	}
	if strings.HasPrefix(relPath, ".git/") || relPath == ".git" {
		return true
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gitignore.Match(relPath, isDir)
}

// loadGitignore rebuilds the ignore matcher from every .gitignore file
// found under the workspace root (spec.md §4.7).
func (w *Watcher) loadGitignore() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.gitignore = ignore.New()
	for _, p := range w.opts.IgnorePatterns {
		w.gitignore.AddPattern(p)
	}
	w.addEngineStatePatterns()

	rootIgnore := filepath.Join(w.rootPath, ".gitignore")
	if err := w.gitignore.AddFromFile(rootIgnore, ""); err != nil && !os.IsNotExist(err) {
		slog.Warn("watch_gitignore_load_failed", slog.String("path", rootIgnore), slog.String("error", err.Error()))
	}

	_ = filepath.WalkDir(w.rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != ".gitignore" || path == rootIgnore {
			return nil
		}
		base, _ := filepath.Rel(w.rootPath, filepath.Dir(path))
		if err := w.gitignore.AddFromFile(path, base); err != nil {
			slog.Warn("watch_nested_gitignore_load_failed", slog.String("path", path), slog.String("error", err.Error()))
		}
		return nil
	})
}

func (w *Watcher) emitError(err error) {
	w.mu.RLock()
	stopped := w.stopped
	w.mu.RUnlock()
	if stopped {
		return
	}
	select {
	case w.errors <- err:
	default:
	}
}

// Next blocks until the next outbound event is available, or returns
// ok=false once the watcher has stopped and the queue has drained.
func (w *Watcher) Next() (Event, bool) {
	return w.queue.Pop()
}

// Errors returns the channel of non-fatal watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Ignored reports whether path currently matches the loaded ignore rule
// set, for use by ColdStartSync's tree walk.
func (w *Watcher) Ignored(path string, isDir bool) bool {
	return w.shouldIgnore(path, isDir)
}

// DroppedModifyEvents reports how many modify events were discarded under
// backpressure: the oldest queued modify, or an incoming modify when the
// full queue holds none.
func (w *Watcher) DroppedModifyEvents() uint64 {
	return w.queue.Dropped()
}

// WatcherType reports which backend is active, for status/health reporting.
func (w *Watcher) WatcherType() string {
	if w.useFsnotify {
		return "fsnotify"
	}
	return "polling"
}

// Stop stops the watcher and releases its resources. Safe to call more
// than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopCh)

	w.debouncer.Stop()
	w.queue.Close()

	if w.useFsnotify && w.fsWatcher != nil {
		_ = w.fsWatcher.Close()
	}
	if w.pollWatcher != nil {
		_ = w.pollWatcher.Stop()
	}
	close(w.errors)
	return nil
}
