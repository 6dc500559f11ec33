package ingest

import (
	"context"
	"os"

	"github.com/standardbeagle/codeengine/internal/extract"
	"github.com/standardbeagle/codeengine/internal/textindex"
)

// ReconcileOnStartup repairs the window spec.md §4.6 names explicitly: "if
// the process dies between steps 6 and 7, the symbol store is ahead of
// the inverted index for the affected file". For every file the symbol
// store knows about, it compares the store's content_hash against a
// re-hash of the document's own stored content field (invariant I1 — the
// Document schema carries no separate hash field, so the stored content is
// the source of truth for this check) and re-runs step 5 wherever they
// disagree or no document exists.
func (p *Pipeline) ReconcileOnStartup(ctx context.Context) error {
	paths, err := p.store.ScanChangedSince(ctx, -1)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := p.reconcilePath(ctx, path); err != nil {
			p.log.Warn("ingest_reconcile_failed", "path", path, "error", err.Error())
		}
	}
	return p.indexBatch.Flush(ctx)
}

func (p *Pipeline) reconcilePath(ctx context.Context, path string) error {
	lock := p.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	record, ok, err := p.store.GetFile(ctx, path)
	if err != nil || !ok {
		return err
	}

	stored, found, err := p.index.StoredField(ctx, path, textindex.FieldContent)
	if err != nil {
		return err
	}
	if found && extract.FileHash(stored) == record.ContentHash {
		return nil // document already agrees with the symbol store
	}

	result, content, ok := p.cachedOrReExtract(ctx, path, record.ContentHash)
	if !ok {
		return nil // file no longer readable; the watcher's cold-start walk will emit a delete
	}

	doc, err := buildDocument(path, content, record.LastModified, record.Size, result)
	if err != nil {
		return err
	}
	return p.indexBatch.Add(ctx, doc)
}

// cachedOrReExtract returns cached extraction output for contentHash if
// still resident, else re-reads path from disk and re-extracts (spec.md
// §4.6: "re-runs step 5 using cached extraction output if available, else
// re-extracts").
func (p *Pipeline) cachedOrReExtract(ctx context.Context, path, contentHash string) (extract.Result, []byte, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return extract.Result{}, nil, false
	}

	if cached, hit := p.cache.Get(contentHash); hit && extract.FileHash(content) == contentHash {
		return cached, content, true
	}

	result, err := p.extractor.Extract(ctx, path, content)
	if err != nil {
		return extract.Result{}, nil, false
	}
	p.cache.Add(result.FileHash, result)
	return result, content, true
}
