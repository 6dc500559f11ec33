package symbolstore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/standardbeagle/codeengine/internal/engineerr"

	_ "modernc.org/sqlite" // pure-Go SQLite driver, no CGO
)

// Store is the canonical symbol store for one workspace. One Store owns
// one SQLite file under that workspace's db/ directory (internal/
// enginepath), single-writer via SetMaxOpenConns(1), grounded line-for-
// line on the teacher's SQLiteBM25Index connection setup.
type Store struct {
	mu          sync.RWMutex
	db          *sql.DB
	path        string
	workspaceID string
	closed      bool
}

// Open creates or opens the symbol store at path for workspaceID. An
// empty path opens an in-memory store, useful for tests.
func Open(path, workspaceID string) (*Store, error) {
	var dsn string
	if path == "" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("create dir %s: %w", dir, err))
		}

		if err := validateIntegrity(path); err != nil {
			slog.Warn("symbol_store_corrupted", slog.String("path", path), slog.String("error", err.Error()))
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				return nil, engineerr.Wrap(engineerr.CodeIncompatibleStore,
					fmt.Errorf("corrupted at %s and cannot remove: %w (original: %v)", path, rmErr, err))
			}
			_ = os.Remove(path + "-wal")
			_ = os.Remove(path + "-shm")
			slog.Info("symbol_store_cleared", slog.String("path", path), slog.String("reason", "corruption detected"))
		}

		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("open database: %w", err))
	}

	// Single writer to avoid lock contention (spec.md §4.4 consistency note).
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -65536",
		"PRAGMA temp_store = MEMORY",
		"PRAGMA foreign_keys = OFF",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("set pragma %q: %w", p, err))
		}
	}

	s := &Store{db: db, path: path, workspaceID: workspaceID}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// init creates the schema idempotently (spec.md §4.4 "init").
func (s *Store) init() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return engineerr.Wrap(engineerr.CodeIncompatibleStore, fmt.Errorf("init schema: %w", err))
	}

	var version int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("read schema version: %w", err))
	}
	if version > schemaVersion {
		return engineerr.New(engineerr.CodeIncompatibleStore,
			fmt.Sprintf("symbol store schema version %d is newer than supported %d", version, schemaVersion), nil)
	}
	return nil
}

// validateIntegrity mirrors the teacher's validateSQLiteIntegrity: a
// read-only PRAGMA integrity_check plus a schema sanity check, run before
// the single-writer connection is opened.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open for validation: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("database corrupted: %s", result)
	}

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='files'`).Scan(&count)
	if err != nil {
		return fmt.Errorf("cannot query schema: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("'files' table missing")
	}
	return nil
}

// Close checkpoints the WAL and closes the database. Idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}
