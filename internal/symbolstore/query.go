package symbolstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/standardbeagle/codeengine/internal/engineerr"
)

// GetSymbolsByName returns an exact-name match scoped to this store's
// workspace (spec.md §4.4).
func (s *Store) GetSymbolsByName(ctx context.Context, name string) ([]*Symbol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, symbolSelectColumns+` FROM symbols WHERE workspace_id = ? AND name = ?`,
		s.workspaceID, name)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("query symbols by name: %w", err))
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// GetSymbolsForFile returns every symbol currently recorded for path.
func (s *Store) GetSymbolsForFile(ctx context.Context, path string) ([]*Symbol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, symbolSelectColumns+` FROM symbols WHERE workspace_id = ? AND file_path = ?`,
		s.workspaceID, path)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("query symbols for file: %w", err))
	}
	defer rows.Close()
	return scanSymbols(rows)
}

// GetFile returns the current file record for path, or ok=false if no
// record exists — used by the dual-write pipeline's no-op short-circuit
// (spec.md §4.6 step 2) and by startup reconciliation.
func (s *Store) GetFile(ctx context.Context, path string) (FileRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT path, language, content_hash, size, last_modified, symbol_count
		 FROM files WHERE workspace_id = ? AND path = ?`, s.workspaceID, path)

	var rec FileRecord
	rec.WorkspaceID = s.workspaceID
	if err := row.Scan(&rec.Path, &rec.Language, &rec.ContentHash, &rec.Size, &rec.LastModified, &rec.SymbolCount); err != nil {
		if err == sql.ErrNoRows {
			return FileRecord{}, false, nil
		}
		return FileRecord{}, false, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("get file: %w", err))
	}
	return rec, true, nil
}

// ScanChangedSince returns paths whose last_modified exceeds sinceMs, for
// warm-restart reconciliation (spec.md §4.4).
func (s *Store) ScanChangedSince(ctx context.Context, sinceMs int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM files WHERE workspace_id = ? AND last_modified > ? ORDER BY path`, s.workspaceID, sinceMs)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("scan changed since: %w", err))
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("scan row: %w", err))
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// Stats is a workspace-scoped summary of the store's contents, used by
// the status command to report index size without requiring a caller
// to read the whole files/symbols tables.
type Stats struct {
	FileCount      int
	SymbolCount    int
	LastModifiedMS int64
}

// Stats returns file and symbol counts plus the most recent
// last_modified timestamp recorded for this workspace.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(last_modified), 0) FROM files WHERE workspace_id = ?`, s.workspaceID)
	if err := row.Scan(&stats.FileCount, &stats.LastModifiedMS); err != nil {
		return Stats{}, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("count files: %w", err))
	}

	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM symbols WHERE workspace_id = ?`, s.workspaceID)
	if err := row.Scan(&stats.SymbolCount); err != nil {
		return Stats{}, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("count symbols: %w", err))
	}

	return stats, nil
}

// GetRelationships performs a bounded breadth-first traversal from
// symbolID, following edges in the requested direction up to maxDepth
// hops, breaking cycles on a visited set (spec.md §4.4).
func (s *Store) GetRelationships(ctx context.Context, symbolID string, direction Direction, maxDepth int) ([]Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if maxDepth < 1 {
		maxDepth = 1
	}

	visited := map[string]struct{}{symbolID: {}}
	frontier := []string{symbolID}
	var edges []Edge

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		next := make([]string, 0)
		for _, id := range frontier {
			hop, err := s.relationshipsFor(ctx, id, direction)
			if err != nil {
				return nil, err
			}
			for _, e := range hop {
				other := e.TargetSymbolID
				if other == id {
					other = e.SourceSymbolID
				}
				e.Depth = depth
				edges = append(edges, e)
				if _, seen := visited[other]; !seen {
					visited[other] = struct{}{}
					next = append(next, other)
				}
			}
		}
		frontier = next
	}
	return edges, nil
}

func (s *Store) relationshipsFor(ctx context.Context, symbolID string, direction Direction) ([]Edge, error) {
	var query string
	switch direction {
	case DirectionOut:
		query = `SELECT source_symbol_id, target_symbol_id, type, bidirectional FROM relationships WHERE source_symbol_id = ?`
	case DirectionIn:
		query = `SELECT source_symbol_id, target_symbol_id, type, bidirectional FROM relationships WHERE target_symbol_id = ?`
	default:
		query = `SELECT source_symbol_id, target_symbol_id, type, bidirectional FROM relationships WHERE source_symbol_id = ? OR target_symbol_id = ?`
	}

	args := []any{symbolID}
	if direction != DirectionOut && direction != DirectionIn {
		args = append(args, symbolID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("query relationships: %w", err))
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		var bidir int
		var typ string
		if err := rows.Scan(&e.SourceSymbolID, &e.TargetSymbolID, &typ, &bidir); err != nil {
			return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("scan relationship: %w", err))
		}
		e.Type = RelationshipType(typ)
		e.Bidirectional = bidir != 0
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

const symbolSelectColumns = `SELECT id, file_path, name, kind, language, signature,
	start_line, end_line, start_col, end_col, modifiers, base_type, interfaces,
	doc_comment, containing_symbol_id`

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSymbols(rows rowScanner) ([]*Symbol, error) {
	var out []*Symbol
	for rows.Next() {
		var sym Symbol
		var kind, modifiers, interfaces string
		if err := rows.Scan(&sym.ID, &sym.FilePath, &sym.Name, &kind, &sym.Language, &sym.Signature,
			&sym.StartLine, &sym.EndLine, &sym.StartCol, &sym.EndCol, &modifiers, &sym.BaseType,
			&interfaces, &sym.DocComment, &sym.ContainingSymbolID); err != nil {
			return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("scan symbol: %w", err))
		}
		sym.Kind = Kind(kind)
		if modifiers != "" {
			sym.Modifiers = strings.Split(modifiers, ",")
		}
		if interfaces != "" {
			sym.Interfaces = strings.Split(interfaces, ",")
		}
		out = append(out, &sym)
	}
	return out, rows.Err()
}
