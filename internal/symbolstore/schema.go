// Package symbolstore implements the canonical symbol store: a durable
// embedded relational store of files, symbols, and relationships for one
// workspace (spec.md §3, §4.4).
//
// Grounded on the teacher's internal/store/sqlite_bm25.go (modernc.org/sqlite
// pure-Go driver, WAL mode, single-writer connection pool, corruption
// detection on open), generalized from an FTS5 keyword index into the
// relational files/symbols/relationships schema this engine's query planner
// and result shaper read from directly.
package symbolstore

const schemaDDL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS files (
	workspace_id   TEXT NOT NULL,
	path           TEXT NOT NULL,
	language       TEXT NOT NULL,
	content_hash   TEXT NOT NULL,
	size           INTEGER NOT NULL,
	last_modified  INTEGER NOT NULL,
	symbol_count   INTEGER NOT NULL,
	PRIMARY KEY (workspace_id, path)
);

CREATE TABLE IF NOT EXISTS symbols (
	id                    TEXT PRIMARY KEY,
	workspace_id          TEXT NOT NULL,
	file_path             TEXT NOT NULL,
	name                  TEXT NOT NULL,
	kind                  TEXT NOT NULL,
	language              TEXT NOT NULL,
	signature             TEXT NOT NULL,
	start_line            INTEGER NOT NULL,
	end_line              INTEGER NOT NULL,
	start_col             INTEGER NOT NULL,
	end_col               INTEGER NOT NULL,
	modifiers             TEXT NOT NULL DEFAULT '',
	base_type             TEXT NOT NULL DEFAULT '',
	interfaces            TEXT NOT NULL DEFAULT '',
	doc_comment           TEXT NOT NULL DEFAULT '',
	containing_symbol_id  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_files_workspace_path ON files(workspace_id, path);
CREATE INDEX IF NOT EXISTS idx_symbols_workspace_name ON symbols(workspace_id, name);
CREATE INDEX IF NOT EXISTS idx_symbols_file_path ON symbols(file_path);

CREATE TABLE IF NOT EXISTS relationships (
	source_symbol_id TEXT NOT NULL,
	target_symbol_id TEXT NOT NULL,
	type             TEXT NOT NULL,
	bidirectional    INTEGER NOT NULL DEFAULT 0,
	file_path        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source_symbol_id);
CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target_symbol_id);
CREATE INDEX IF NOT EXISTS idx_relationships_file ON relationships(file_path);

INSERT OR IGNORE INTO schema_version (version) VALUES (1);
`

const schemaVersion = 1
