package symbolstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/standardbeagle/codeengine/internal/engineerr"
)

// UpsertFile replaces a file's symbols and relationships transactionally:
// delete, then insert, then commit in one transaction (spec.md §4.4).
// Fails only on I/O; partial writes roll back.
func (s *Store) UpsertFile(ctx context.Context, file FileRecord, symbols []*Symbol, relationships []*Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return engineerr.New(engineerr.CodeIO, "symbol store is closed", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM symbols WHERE workspace_id = ? AND file_path = ?`,
		s.workspaceID, file.Path); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("delete prior symbols: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM relationships WHERE file_path = ?`, file.Path); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("delete prior relationships: %w", err))
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO files (workspace_id, path, language, content_hash, size, last_modified, symbol_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(workspace_id, path) DO UPDATE SET
			language = excluded.language,
			content_hash = excluded.content_hash,
			size = excluded.size,
			last_modified = excluded.last_modified,
			symbol_count = excluded.symbol_count
	`, s.workspaceID, file.Path, file.Language, file.ContentHash, file.Size, file.LastModified, len(symbols)); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("upsert file record: %w", err))
	}

	symStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO symbols (id, workspace_id, file_path, name, kind, language, signature,
			start_line, end_line, start_col, end_col, modifiers, base_type, interfaces,
			doc_comment, containing_symbol_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("prepare symbol insert: %w", err))
	}
	defer symStmt.Close()

	for _, sym := range symbols {
		if _, err := symStmt.ExecContext(ctx, sym.ID, s.workspaceID, sym.FilePath, sym.Name, string(sym.Kind),
			sym.Language, sym.Signature, sym.StartLine, sym.EndLine, sym.StartCol, sym.EndCol,
			strings.Join(sym.Modifiers, ","), sym.BaseType, strings.Join(sym.Interfaces, ","),
			sym.DocComment, sym.ContainingSymbolID); err != nil {
			return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("insert symbol %s: %w", sym.Name, err))
		}
	}

	relStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO relationships (source_symbol_id, target_symbol_id, type, bidirectional, file_path)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("prepare relationship insert: %w", err))
	}
	defer relStmt.Close()

	for _, rel := range relationships {
		bidir := 0
		if rel.Bidirectional {
			bidir = 1
		}
		if _, err := relStmt.ExecContext(ctx, rel.SourceSymbolID, rel.TargetSymbolID, string(rel.Type), bidir, file.Path); err != nil {
			return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("insert relationship: %w", err))
		}
	}

	if err := tx.Commit(); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// DeleteFile cascade-deletes a file, its symbols, and its relationships.
func (s *Store) DeleteFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return engineerr.New(engineerr.CodeIO, "symbol store is closed", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM files WHERE workspace_id = ? AND path = ?`, s.workspaceID, path); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("delete file: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM symbols WHERE workspace_id = ? AND file_path = ?`, s.workspaceID, path); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("delete symbols: %w", err))
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM relationships WHERE file_path = ?`, path); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("delete relationships: %w", err))
	}

	return tx.Commit()
}
