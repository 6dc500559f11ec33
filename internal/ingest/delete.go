package ingest

import "context"

// Delete removes path from both the symbol store and the inverted index
// (spec.md §4.6 "delete(path) runs symbol-store delete then index delete,
// both idempotent"). Serialized against any concurrent Ingest of the same
// path.
func (p *Pipeline) Delete(ctx context.Context, path string) error {
	lock := p.lockFor(path)
	lock.Lock()
	defer lock.Unlock()
	return p.deleteLocked(ctx, path)
}

// deleteLocked performs the delete. Callers must hold p.lockFor(path).
func (p *Pipeline) deleteLocked(ctx context.Context, path string) error {
	if err := p.store.DeleteFile(ctx, path); err != nil {
		return err
	}
	return p.index.Delete(ctx, []string{path})
}
