// Package enginepath is the single source of truth for on-disk layout of
// engine state: the index directory, symbol-store file, lock files, and
// everything else the engine persists under a workspace root.
//
// No other package in this module constructs these paths directly (I5).
package enginepath

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Kind identifies a category of on-disk engine state.
type Kind int

const (
	// KindBase is the root of all engine state for a workspace.
	KindBase Kind = iota
	// KindIndexDir holds inverted-index segments.
	KindIndexDir
	// KindSymbolStoreFile is the canonical symbol store's database file.
	KindSymbolStoreFile
	// KindWatcherStateFile persists the watcher's cold-start cursor.
	KindWatcherStateFile
	// KindCacheDir is reserved for cache spill files, if any.
	KindCacheDir
	// KindLogsDir holds engine log output.
	KindLogsDir
	// KindLockFile is the single writer lock for the workspace.
	KindLockFile
	// KindEmbeddingsDir is reserved for a future semantic index; never
	// populated by the core, but its path must never collide with one the
	// core does use.
	KindEmbeddingsDir
)

// engineDirName is the top-level segment created under the workspace root,
// e.g. <root>/.codeengine/indexes/<workspace-id>/...
const engineDirName = ".codeengine"

// Resolver resolves the on-disk layout for a single workspace root.
type Resolver struct {
	root        string // absolute, cleaned workspace root
	workspaceID string
	base        string // override for paths.base, or "" for the default
}

// New creates a Resolver for the given workspace root. root need not exist;
// it is only cleaned and made absolute.
func New(root string) (*Resolver, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("enginepath: resolve absolute path: %w", err)
	}
	abs = filepath.Clean(abs)
	return &Resolver{
		root:        abs,
		workspaceID: WorkspaceID(abs),
	}, nil
}

// NewWithBase is like New but overrides paths.base (the <workspace>/.<engine>
// location) instead of deriving it from root.
func NewWithBase(root, base string) (*Resolver, error) {
	r, err := New(root)
	if err != nil {
		return nil, err
	}
	if base != "" {
		absBase, err := filepath.Abs(base)
		if err != nil {
			return nil, fmt.Errorf("enginepath: resolve base path: %w", err)
		}
		r.base = absBase
	}
	return r, nil
}

// WorkspaceID derives the stable workspace id from an absolute path: the
// first 16 hex characters of xxhash.Sum64 over the path bytes. xxhash is
// non-cryptographic and collision-resistant enough for a local directory
// namespace; the same primitive is reused for the symbol extractor's
// content hash (internal/extract).
func WorkspaceID(absPath string) string {
	h := xxhash.Sum64String(absPath)
	return fmt.Sprintf("%016x", h)
}

// Root returns the absolute workspace root this resolver was built for.
func (r *Resolver) Root() string { return r.root }

// WorkspaceID returns this resolver's stable workspace id.
func (r *Resolver) WorkspaceID() string { return r.workspaceID }

func (r *Resolver) engineBase() string {
	if r.base != "" {
		return r.base
	}
	return filepath.Join(r.root, engineDirName)
}

func (r *Resolver) workspaceDir() string {
	return filepath.Join(r.engineBase(), "indexes", r.workspaceID)
}

// Resolve returns the absolute path for kind, creating any directory it
// names idempotently. It never returns a relative path. The only error it
// can return is io-error-shaped: directory creation failure.
func (r *Resolver) Resolve(kind Kind) (string, error) {
	var dir, full string
	switch kind {
	case KindBase:
		full = r.workspaceDir()
		dir = full
	case KindIndexDir:
		full = filepath.Join(r.workspaceDir(), "index")
		dir = full
	case KindSymbolStoreFile:
		dir = filepath.Join(r.workspaceDir(), "db")
		full = filepath.Join(dir, "store.sqlite")
	case KindWatcherStateFile:
		dir = filepath.Join(r.workspaceDir(), "state")
		full = filepath.Join(dir, "watcher.json")
	case KindCacheDir:
		full = filepath.Join(r.workspaceDir(), "cache")
		dir = full
	case KindLogsDir:
		full = filepath.Join(r.engineBase(), "logs")
		dir = full
	case KindLockFile:
		dir = filepath.Join(r.workspaceDir(), "locks")
		full = filepath.Join(dir, "writer.lock")
	case KindEmbeddingsDir:
		full = filepath.Join(r.workspaceDir(), "embeddings")
		dir = full
	default:
		return "", fmt.Errorf("enginepath: unknown kind %d", kind)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("enginepath: create directory for kind %d: %w", kind, err)
	}
	return full, nil
}

// Protected reports whether kind names engine state that index-cleanup
// operations must never delete.
func Protected(kind Kind) bool {
	switch kind {
	case KindIndexDir, KindSymbolStoreFile, KindLockFile:
		return true
	default:
		return false
	}
}
