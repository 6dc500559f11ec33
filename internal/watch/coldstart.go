package watch

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/standardbeagle/codeengine/internal/symbolstore"
)

// ColdStartSync walks root and pushes a synthetic event for every file
// whose on-disk state disagrees with the symbol store: create for new
// files, delete for files the store has but the tree no longer does, and
// modify for files whose (size, mtime) differs (spec.md §4.7 "Cold
// start"). The hash-compare in the ingest pipeline's Ingest short-circuits
// any of these that turn out to be true no-ops.
func ColdStartSync(ctx context.Context, root string, store *symbolstore.Store, gi *ignoreChecker, push func(Event)) error {
	seen := make(map[string]bool)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if gi != nil && gi.ignored(rel, false) {
			return nil
		}

		// The symbol store keys FileRecords by the same path string passed
		// to Ingest, which the orchestrator always resolves to an absolute
		// path (see run.go) — so lookups here must use the walked absolute
		// path, not rel, or every already-ingested file would read back as
		// "not found" and be re-emitted as a spurious create.
		seen[path] = true

		info, err := d.Info()
		if err != nil {
			return nil
		}

		record, ok, err := store.GetFile(ctx, path)
		if err != nil {
			return nil
		}
		if !ok {
			push(Event{Path: rel, Operation: OpCreate})
			return nil
		}
		if info.Size() != record.Size || info.ModTime().UnixMilli() != record.LastModified {
			push(Event{Path: rel, Operation: OpModify})
		}
		return nil
	})
	if err != nil {
		return err
	}

	known, err := store.ScanChangedSince(ctx, -1)
	if err != nil {
		return err
	}
	for _, absPath := range known {
		if !seen[absPath] {
			rel, err := filepath.Rel(root, absPath)
			if err != nil {
				rel = absPath
			}
			push(Event{Path: rel, Operation: OpDelete})
		}
	}
	return nil
}

// ignoreChecker is the minimal surface ColdStartSync needs from a
// Watcher's ignore matcher, avoiding a dependency on Watcher's internal
// fsnotify/polling plumbing for a one-shot directory walk.
type ignoreChecker struct {
	match func(path string, isDir bool) bool
}

func (c *ignoreChecker) ignored(path string, isDir bool) bool {
	if c == nil || c.match == nil {
		return false
	}
	return c.match(path, isDir)
}

// NewIgnoreChecker wraps a matching function (typically a *Watcher's
// loaded ignore.Matcher) for use by ColdStartSync.
func NewIgnoreChecker(match func(path string, isDir bool) bool) *ignoreChecker {
	return &ignoreChecker{match: match}
}
