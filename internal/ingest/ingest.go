package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/standardbeagle/codeengine/internal/engineerr"
	"github.com/standardbeagle/codeengine/internal/extract"
	"github.com/standardbeagle/codeengine/internal/symbolstore"
)

// Ingest runs the dual-write contract for one file (spec.md §4.6 steps
// 1-7): read bytes, short-circuit on an unchanged hash, extract, upsert
// the symbol store, build and enqueue the index document, and queue the
// index commit request. Updates to the same path are serialized; updates
// to different paths may run concurrently.
func (p *Pipeline) Ingest(ctx context.Context, path string) error {
	lock := p.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	breaker := p.breakerFor(path)
	if !breaker.Allow() {
		return engineerr.New(engineerr.CodeIngestFailed, fmt.Sprintf("ingest: %s is quarantined", path), nil).
			WithDetail("path", path)
	}

	if err := p.ingestLocked(ctx, path); err != nil {
		breaker.RecordFailure()
		return err
	}
	breaker.RecordSuccess()
	return nil
}

// ingestLocked performs steps 1-7 of spec.md §4.6. Callers must hold
// p.lockFor(path).
func (p *Pipeline) ingestLocked(ctx context.Context, path string) error {
	// Step 1: Lstat before read so symlinks never get dereferenced and
	// read as their target's content (grounded on the teacher's
	// indexFile symlink guard).
	info, err := os.Lstat(path)
	if err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("ingest: stat %s: %w", path, err))
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("ingest: read %s: %w", path, err))
	}
	hash := extract.FileHash(content)

	// Step 2: short-circuit no-op (spec.md I-P1 idempotence).
	existing, ok, err := p.store.GetFile(ctx, path)
	if err != nil {
		return err
	}
	if ok && existing.ContentHash == hash {
		return nil
	}

	// Step 3: extract.
	result, err := p.extractor.Extract(ctx, path, content)
	if err != nil {
		return engineerr.Wrap(engineerr.CodeIngestFailed, fmt.Errorf("ingest: extract %s: %w", path, err))
	}
	if result.Skipped {
		// Binary files and files over the size cap are still listed in
		// the file table with zero symbols (spec.md §4.3) rather than
		// dropped — only an ignore-rule match or a missing file deletes
		// a record (spec.md §3).
		return p.storeBatch.Add(ctx, symbolstore.FileUpsert{
			File: symbolstore.FileRecord{
				Path:         path,
				ContentHash:  hash,
				Size:         info.Size(),
				LastModified: info.ModTime().UnixMilli(),
				SymbolCount:  0,
			},
		})
	}
	p.cache.Add(hash, result)

	record := symbolstore.FileRecord{
		Path:         path,
		Language:     result.Language,
		ContentHash:  hash,
		Size:         info.Size(),
		LastModified: info.ModTime().UnixMilli(),
		SymbolCount:  len(result.Symbols),
	}

	// Steps 4 and 6: symbol-store upsert, queued through the shared
	// BatchWriter so both dual-write halves commit on the same boundary
	// (spec.md §4.6 step 7).
	if err := p.storeBatch.Add(ctx, symbolstore.FileUpsert{
		File:          record,
		Symbols:       result.Symbols,
		Relationships: result.Relationships,
	}); err != nil {
		return err
	}

	// Step 5: build and enqueue the index document.
	doc, err := buildDocument(path, content, record.LastModified, record.Size, result)
	if err != nil {
		return engineerr.Wrap(engineerr.CodeIngestFailed, fmt.Errorf("ingest: build document %s: %w", path, err))
	}

	// Step 7: enqueue the commit request on the index writer.
	return p.indexBatch.Add(ctx, doc)
}
