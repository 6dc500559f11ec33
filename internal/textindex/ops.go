package textindex

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	indexapi "github.com/blevesearch/bleve_index_api"

	"github.com/standardbeagle/codeengine/internal/engineerr"
)

// AddOrReplace indexes doc under doc.Path, replacing any prior document at
// the same path (spec.md §4.5 "replace-by-primary-key semantics").
func (ix *Index) AddOrReplace(ctx context.Context, doc Document) error {
	return ix.AddOrReplaceBatch(ctx, []Document{doc})
}

// AddOrReplaceBatch indexes many documents in one Bleve batch — the unit
// the dual-write pipeline (C6) commits together with a symbol-store
// transaction (spec.md §4.6).
func (ix *Index) AddOrReplaceBatch(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return engineerr.New(engineerr.CodeIO, "textindex: index is closed", nil)
	}

	batch := ix.idx.NewBatch()
	for i := range docs {
		if err := batch.Index(docs[i].Path, docs[i]); err != nil {
			return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: batch index %s: %w", docs[i].Path, err))
		}
	}
	if err := ix.idx.Batch(batch); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: execute batch: %w", err))
	}
	return nil
}

// Delete removes the documents at paths, a no-op for paths not present.
func (ix *Index) Delete(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.closed {
		return engineerr.New(engineerr.CodeIO, "textindex: index is closed", nil)
	}

	batch := ix.idx.NewBatch()
	for _, p := range paths {
		batch.Delete(p)
	}
	if err := ix.idx.Batch(batch); err != nil {
		return engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: delete batch: %w", err))
	}
	return nil
}

// Commit makes prior AddOrReplace/Delete calls durable. Bleve persists
// each Batch call synchronously (grounded on the teacher's Save(), which
// is a no-op for the same reason) so this exists to satisfy the §4.5
// contract explicitly rather than to do additional work.
func (ix *Index) Commit(ctx context.Context) error {
	return nil
}

// Refresh runs the warmer queries immediately instead of waiting for the
// next tick, and reports the live document count as a cheap proxy for
// "a new snapshot is visible" (see startRefresh's doc comment on why Bleve
// has no separate reader-swap step to drive here).
func (ix *Index) Refresh(ctx context.Context) (int64, error) {
	ix.mu.RLock()
	closed := ix.closed
	ix.mu.RUnlock()
	if closed {
		return 0, engineerr.New(engineerr.CodeIO, "textindex: index is closed", nil)
	}
	ix.runWarmers()
	count, err := ix.idx.DocCount()
	if err != nil {
		return 0, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: doc count: %w", err))
	}
	return int64(count), nil
}

// Filter is an exact-match constraint on a DocValues/keyword field (e.g.
// FieldExtensionDV == "go").
type Filter struct {
	Field string
	Value string
}

// FacetRequest asks for up to Size term counts over Field.
type FacetRequest struct {
	Field string
	Size  int
}

// SearchRequest is the planner-facing query contract (spec.md §4.5
// "search(query, filter, sort, limit, collect_facets?) -> hits").
type SearchRequest struct {
	Query         string
	Fields        []string // fields to match Query against; FieldAll if empty
	Filters       []Filter
	Sort          []string // e.g. "-last_modified_dv"; nil keeps score order
	Limit         int
	CollectFacets []FacetRequest
	ReturnFields  []string // stored fields to include in each Hit.Fields
}

// Hit is one scored document.
type Hit struct {
	Path      string
	Score     float64
	Fields    map[string]interface{}
	Locations map[string][]string // field -> matched terms, for highlighting
}

// SearchResult is the outcome of a Search call. Facets is passed through
// from Bleve's own result type rather than re-wrapped, since its
// TermFacets/NumericRangeFacets/DateRangeFacets shapes already cover what
// spec.md §4.5's collect_facets contract needs.
type SearchResult struct {
	Hits   []Hit
	Total  uint64
	Facets search.FacetResults
}

// Search runs req against the index. Field boosts (spec.md §4.5) are the
// caller's responsibility to apply when composing a multi-field query —
// this method builds a straightforward disjunction over req.Fields (or
// FieldAll) unweighted, which is what a caller not composing its own
// boosted query gets by default.
func (ix *Index) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return SearchResult{}, engineerr.New(engineerr.CodeIO, "textindex: index is closed", nil)
	}
	if req.Query == "" {
		return SearchResult{}, nil
	}

	fields := req.Fields
	if len(fields) == 0 {
		fields = []string{FieldAll}
	}

	disjunction := bleve.NewDisjunctionQuery()
	for _, f := range fields {
		mq := bleve.NewMatchQuery(req.Query)
		mq.SetField(f)
		disjunction.AddQuery(mq)
	}

	var bq bleve.Query = disjunction
	if len(req.Filters) > 0 {
		conj := bleve.NewConjunctionQuery(bq)
		for _, f := range req.Filters {
			tq := bleve.NewTermQuery(f.Value)
			tq.SetField(f.Field)
			conj.AddQuery(tq)
		}
		bq = conj
	}

	sr := bleve.NewSearchRequest(bq)
	if req.Limit > 0 {
		sr.Size = req.Limit
	} else {
		sr.Size = 50
	}
	sr.IncludeLocations = true
	if len(req.ReturnFields) > 0 {
		sr.Fields = req.ReturnFields
	}
	if len(req.Sort) > 0 {
		sr.SortBy(req.Sort)
	}
	for _, fr := range req.CollectFacets {
		size := fr.Size
		if size <= 0 {
			size = 10
		}
		sr.AddFacet(fr.Field, bleve.NewFacetRequest(fr.Field, size))
	}

	result, err := ix.idx.SearchInContext(ctx, sr)
	if err != nil {
		return SearchResult{}, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: search: %w", err))
	}
	return toSearchResult(result), nil
}

// MoreLikeThis finds documents similar to the one at path, weighting
// fields by fieldWeights and considering at most termLimit significant
// terms per field. Bleve has no native MLT query type (unlike the
// teacher's stack, which never needed one); this builds a disjunction of
// boosted term queries over the source document's own stored/indexed
// field values, which is the standard term-reuse approach to MLT over an
// inverted index.
func (ix *Index) MoreLikeThis(ctx context.Context, path string, fieldWeights map[string]float64, termLimit int) (SearchResult, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return SearchResult{}, engineerr.New(engineerr.CodeIO, "textindex: index is closed", nil)
	}
	if termLimit <= 0 {
		termLimit = 25
	}

	doc, err := ix.idx.Document(path)
	if err != nil {
		return SearchResult{}, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: fetch source document: %w", err))
	}
	if doc == nil {
		return SearchResult{}, engineerr.New(engineerr.CodeNotFound, fmt.Sprintf("textindex: no document at %s", path), nil)
	}

	disjunction := bleve.NewDisjunctionQuery()
	empty := true
	doc.VisitFields(func(f indexapi.Field) {
		name := f.Name()
		weight, ok := fieldWeights[name]
		if !ok || weight <= 0 {
			return
		}
		terms := topTerms(string(f.Value()), termLimit)
		for _, t := range terms {
			tq := bleve.NewTermQuery(t)
			tq.SetField(name)
			tq.SetBoost(weight)
			disjunction.AddQuery(tq)
			empty = false
		}
	})
	if empty {
		return SearchResult{}, nil
	}

	sr := bleve.NewSearchRequest(disjunction)
	sr.Size = 20
	sr.IncludeLocations = false

	result, err := ix.idx.SearchInContext(ctx, sr)
	if err != nil {
		return SearchResult{}, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: more_like_this search: %w", err))
	}
	out := toSearchResult(result)

	filtered := out.Hits[:0]
	for _, h := range out.Hits {
		if h.Path != path {
			filtered = append(filtered, h)
		}
	}
	out.Hits = filtered
	return out, nil
}

// StoredField returns the raw bytes of one stored field of the document
// at path, or ok=false if no document or field exists. Used by startup
// reconciliation to compare a document's stored content against the
// symbol store's content_hash without keeping a redundant hash field on
// Document (spec.md I1).
func (ix *Index) StoredField(ctx context.Context, path, field string) ([]byte, bool, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return nil, false, engineerr.New(engineerr.CodeIO, "textindex: index is closed", nil)
	}

	doc, err := ix.idx.Document(path)
	if err != nil {
		return nil, false, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: fetch document: %w", err))
	}
	if doc == nil {
		return nil, false, nil
	}

	var value []byte
	found := false
	doc.VisitFields(func(f indexapi.Field) {
		if !found && f.Name() == field {
			value = f.Value()
			found = true
		}
	})
	return value, found, nil
}

// AllPaths returns every indexed document path, for consistency checks
// against the canonical symbol store (spec.md I1).
func (ix *Index) AllPaths(ctx context.Context) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if ix.closed {
		return nil, engineerr.New(engineerr.CodeIO, "textindex: index is closed", nil)
	}

	count, err := ix.idx.DocCount()
	if err != nil {
		return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: doc count: %w", err))
	}

	sr := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	sr.Size = int(count)
	sr.Fields = nil

	result, err := ix.idx.SearchInContext(ctx, sr)
	if err != nil {
		return nil, engineerr.Wrap(engineerr.CodeIO, fmt.Errorf("textindex: list all paths: %w", err))
	}
	paths := make([]string, len(result.Hits))
	for i, h := range result.Hits {
		paths[i] = h.ID
	}
	sort.Strings(paths)
	return paths, nil
}

func toSearchResult(result *bleve.SearchResult) SearchResult {
	hits := make([]Hit, 0, len(result.Hits))
	for _, hm := range result.Hits {
		hits = append(hits, Hit{
			Path:      hm.ID,
			Score:     hm.Score,
			Fields:    hm.Fields,
			Locations: matchedTerms(hm),
		})
	}
	return SearchResult{Hits: hits, Total: result.Total, Facets: result.Facets}
}

// topTerms splits a stored field's raw value into its first n distinct
// whitespace-delimited terms, used to build a more_like_this query from a
// source document's own field values (Bleve has no native MLT query type).
func topTerms(value string, n int) []string {
	seen := make(map[string]struct{}, n)
	var out []string
	for _, tok := range splitWords(value) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) >= n {
			break
		}
	}
	return out
}

func splitWords(s string) []string {
	return strings.Fields(s)
}

func matchedTerms(hit *search.DocumentMatch) map[string][]string {
	out := make(map[string][]string, len(hit.Locations))
	for field, locations := range hit.Locations {
		terms := make([]string, 0, len(locations))
		for term := range locations {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		out[field] = terms
	}
	return out
}
