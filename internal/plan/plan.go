package plan

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/codeengine/internal/extract"
	"github.com/standardbeagle/codeengine/internal/score"
	"github.com/standardbeagle/codeengine/internal/symbolstore"
	"github.com/standardbeagle/codeengine/internal/textindex"
)

// typeKinds mirrors internal/ingest's definition of which symbol kinds
// count as top-level type definitions, so type_names/type_def can be
// reconstructed for scoring from the symbol store at query time without
// the index having to store those analyzed-only fields back out.
var typeKinds = map[extract.Kind]bool{
	extract.KindClass:     true,
	extract.KindInterface: true,
	extract.KindStruct:    true,
	extract.KindEnum:      true,
	extract.KindTypeAlias: true,
}

// Planner owns the read-side handles PlanAndExecute fans out across.
type Planner struct {
	Index  *textindex.Index
	Store  *symbolstore.Store
	Scorer *score.Pipeline
}

// NewPlanner wires a planner over an already-open index and symbol store.
// A nil scorer falls back to score.DefaultFactors().
func NewPlanner(index *textindex.Index, store *symbolstore.Store, scorer *score.Pipeline) *Planner {
	if scorer == nil {
		scorer = score.NewPipeline()
	}
	return &Planner{Index: index, Store: store, Scorer: scorer}
}

type branchOutcome struct {
	hits    []Hit
	partial bool
}

type branchFunc func(context.Context) (branchOutcome, error)

// PlanAndExecute classifies q, fans its branches out in parallel each
// under its own Options.BranchDeadline child context, and merges the
// results (spec.md §4.8). A branch that errors or times out degrades the
// composite result to Partial rather than failing the whole call — the
// planner never blocks on, or is broken by, one branch's trouble.
func (p *Planner) PlanAndExecute(ctx context.Context, q Query, opts Options) (CompositeResult, error) {
	opts = opts.withDefaults()

	var branches []branchFunc
	switch q.Kind {
	case KindSymbolSearch:
		branches = []branchFunc{p.exactSymbolBranch(q)}
	case KindTextSearch:
		c := classify(q.Text)
		if c.runSymbol {
			branches = append(branches, p.exactSymbolBranch(q))
		}
		if c.runText {
			branches = append(branches, p.scoredTextBranch(q, opts))
		}
		if c.runLiteral {
			branches = append(branches, p.literalBranch(q))
		}
	case KindFileSearch:
		branches = []branchFunc{p.filenameBranch(q)}
	case KindSimilarFiles:
		branches = []branchFunc{p.similarFilesBranch(q)}
	case KindDirectorySearch:
		branches = []branchFunc{p.directoryBranch(q)}
	case KindRecentFiles:
		branches = []branchFunc{p.recentFilesBranch(q)}
	case KindSizeAnalysis:
		branches = []branchFunc{p.sizeAnalysisBranch(q)}
	default:
		branches = []branchFunc{p.scoredTextBranch(q, opts)}
	}

	outcomes := make([]branchOutcome, len(branches))
	g, gctx := errgroup.WithContext(ctx)
	for i, branch := range branches {
		i, branch := i, branch
		g.Go(func() error {
			branchCtx, cancel := context.WithTimeout(gctx, opts.BranchDeadline)
			defer cancel()
			out, err := branch(branchCtx)
			if err != nil {
				out = branchOutcome{partial: true}
			}
			outcomes[i] = out
			return nil
		})
	}
	_ = g.Wait()

	return merge(outcomes), nil
}

func merge(outcomes []branchOutcome) CompositeResult {
	seenSymbol := make(map[string]bool)
	seenFile := make(map[string]bool)
	result := CompositeResult{}

	for _, out := range outcomes {
		if out.partial {
			result.Partial = true
		}
		rank := 0
		for _, h := range out.hits {
			rank++
			h.Rank = rank
			if h.Tier == TierExact {
				key := h.Path + "|" + strconv.Itoa(h.StartLine)
				if seenSymbol[key] {
					continue
				}
				seenSymbol[key] = true
			} else {
				if seenFile[h.Path] {
					continue
				}
				seenFile[h.Path] = true
			}
			result.Hits = append(result.Hits, h)
		}
	}

	sort.SliceStable(result.Hits, func(i, j int) bool {
		if result.Hits[i].Tier != result.Hits[j].Tier {
			return tierPriority(result.Hits[i].Tier) < tierPriority(result.Hits[j].Tier)
		}
		return result.Hits[i].Score > result.Hits[j].Score
	})
	return result
}

func tierPriority(t Tier) int {
	switch t {
	case TierExact:
		return 0
	case TierScored:
		return 1
	default:
		return 2
	}
}

// exactSymbolBranch looks symbols up by exact name (sub-5ms target,
// spec.md §4.8) and applies the optional symbol-kind filter in-process
// since the symbol store's exact-name index has no kind predicate.
func (p *Planner) exactSymbolBranch(q Query) branchFunc {
	return func(ctx context.Context) (branchOutcome, error) {
		if p.Store == nil {
			return branchOutcome{}, nil
		}
		term := strings.Fields(q.Text)
		name := q.Text
		if len(term) > 0 {
			name = term[0]
		}
		symbols, err := p.Store.GetSymbolsByName(ctx, name)
		if err != nil {
			return branchOutcome{}, err
		}

		var hits []Hit
		for _, sym := range symbols {
			if q.Filters.SymbolKind != "" && string(sym.Kind) != q.Filters.SymbolKind {
				continue
			}
			if q.Filters.Language != "" && sym.Language != q.Filters.Language {
				continue
			}
			hits = append(hits, Hit{
				Path:      sym.FilePath,
				StartLine: sym.StartLine,
				Score:     1.0,
				Tier:      TierExact,
				Fields: map[string]interface{}{
					"symbol_id":   sym.ID,
					"symbol_name": sym.Name,
					"symbol_kind": string(sym.Kind),
					"signature":   sym.Signature,
				},
			})
		}
		return branchOutcome{hits: hits}, nil
	}
}

// scoredTextBranch runs the weighted text-index query (<30ms P50 target,
// spec.md §4.8), applying score.Pipeline on top of Bleve's base score
// using document fields reconstructed from the symbol store, since the
// index's analyzed fields (content_symbols, type_names, type_def,
// filename) are not themselves stored back out of a hit.
func (p *Planner) scoredTextBranch(q Query, opts Options) branchFunc {
	return func(ctx context.Context) (branchOutcome, error) {
		if p.Index == nil {
			return branchOutcome{}, nil
		}
		req := textindex.SearchRequest{
			Query:        q.Text,
			Filters:      buildIndexFilters(q.Filters),
			Sort:         q.Sort,
			Limit:        q.Limit,
			ReturnFields: []string{"path", "extension", "symbol_count", "method_count"},
		}
		result, err := p.Index.Search(ctx, req)
		if err != nil {
			return branchOutcome{}, err
		}

		scoreCtx := score.NewContext(q.Text, opts.Now)
		hits := make([]Hit, 0, len(result.Hits))
		for _, h := range result.Hits {
			fields := p.docFields(ctx, h)
			final := p.Scorer.Score(h.Score, fields, scoreCtx)
			hits = append(hits, Hit{
				Path:      h.Path,
				Score:     final,
				Tier:      TierScored,
				Fields:    h.Fields,
				Locations: h.Locations,
			})
		}
		return branchOutcome{hits: hits}, nil
	}
}

// literalBranch runs the query text against the content field only,
// keeping the index's base score without the score.Pipeline factors, and
// tags hits TierLiteral — a placeholder for the optional trigram/literal
// search spec.md §4.8 allows for queries with syntactic characters the
// analyzed query parser would otherwise mangle, reusing the same index
// path until a dedicated literal scanner is warranted.
func (p *Planner) literalBranch(q Query) branchFunc {
	return func(ctx context.Context) (branchOutcome, error) {
		if p.Index == nil {
			return branchOutcome{}, nil
		}
		result, err := p.Index.Search(ctx, textindex.SearchRequest{
			Query:        q.Text,
			Fields:       []string{textindex.FieldContent},
			Filters:      buildIndexFilters(q.Filters),
			Limit:        q.Limit,
			ReturnFields: []string{"path", "extension"},
		})
		if err != nil {
			return branchOutcome{}, err
		}
		hits := make([]Hit, 0, len(result.Hits))
		for _, h := range result.Hits {
			hits = append(hits, Hit{Path: h.Path, Score: h.Score, Tier: TierLiteral, Fields: h.Fields, Locations: h.Locations})
		}
		return branchOutcome{hits: hits}, nil
	}
}

func (p *Planner) filenameBranch(q Query) branchFunc {
	return func(ctx context.Context) (branchOutcome, error) {
		if p.Index == nil {
			return branchOutcome{}, nil
		}
		result, err := p.Index.Search(ctx, textindex.SearchRequest{
			Query:        q.Text,
			Fields:       []string{textindex.FieldFilename, textindex.FieldPathTokens},
			Filters:      buildIndexFilters(q.Filters),
			Limit:        q.Limit,
			ReturnFields: []string{"path", "extension"},
		})
		if err != nil {
			return branchOutcome{}, err
		}
		hits := make([]Hit, 0, len(result.Hits))
		for _, h := range result.Hits {
			hits = append(hits, Hit{Path: h.Path, Score: h.Score, Tier: TierScored, Fields: h.Fields})
		}
		return branchOutcome{hits: hits}, nil
	}
}

func (p *Planner) similarFilesBranch(q Query) branchFunc {
	return func(ctx context.Context) (branchOutcome, error) {
		if p.Index == nil || q.SeedPath == "" {
			return branchOutcome{}, nil
		}
		result, err := p.Index.MoreLikeThis(ctx, q.SeedPath, textindex.FieldBoosts, 25)
		if err != nil {
			return branchOutcome{}, err
		}
		hits := make([]Hit, 0, len(result.Hits))
		for _, h := range result.Hits {
			if h.Path == q.SeedPath {
				continue
			}
			hits = append(hits, Hit{Path: h.Path, Score: h.Score, Tier: TierScored, Fields: h.Fields})
		}
		return branchOutcome{hits: hits}, nil
	}
}

func (p *Planner) directoryBranch(q Query) branchFunc {
	return func(ctx context.Context) (branchOutcome, error) {
		if p.Index == nil {
			return branchOutcome{}, nil
		}
		result, err := p.Index.Search(ctx, textindex.SearchRequest{
			Query:        q.Text,
			Fields:       []string{textindex.FieldPathTokens},
			Filters:      buildIndexFilters(q.Filters),
			Limit:        q.Limit,
			ReturnFields: []string{"path", "extension"},
		})
		if err != nil {
			return branchOutcome{}, err
		}
		hits := make([]Hit, 0, len(result.Hits))
		for _, h := range result.Hits {
			if q.Filters.PathGlob != "" {
				if ok, _ := filepath.Match(q.Filters.PathGlob, h.Path); !ok {
					continue
				}
			}
			hits = append(hits, Hit{Path: h.Path, Score: h.Score, Tier: TierScored, Fields: h.Fields})
		}
		return branchOutcome{hits: hits}, nil
	}
}

func (p *Planner) recentFilesBranch(q Query) branchFunc {
	return func(ctx context.Context) (branchOutcome, error) {
		if p.Index == nil {
			return branchOutcome{}, nil
		}
		query := q.Text
		if query == "" {
			query = "*"
		}
		result, err := p.Index.Search(ctx, textindex.SearchRequest{
			Query:        query,
			Fields:       []string{textindex.FieldAll},
			Filters:      buildIndexFilters(q.Filters),
			Sort:         []string{"-" + textindex.FieldLastModifiedDV},
			Limit:        q.Limit,
			ReturnFields: []string{"path", "extension"},
		})
		if err != nil {
			return branchOutcome{}, err
		}
		hits := make([]Hit, 0, len(result.Hits))
		for _, h := range result.Hits {
			hits = append(hits, Hit{Path: h.Path, Score: h.Score, Tier: TierScored, Fields: h.Fields})
		}
		return branchOutcome{hits: hits}, nil
	}
}

func (p *Planner) sizeAnalysisBranch(q Query) branchFunc {
	return func(ctx context.Context) (branchOutcome, error) {
		if p.Index == nil {
			return branchOutcome{}, nil
		}
		query := q.Text
		if query == "" {
			query = "*"
		}
		result, err := p.Index.Search(ctx, textindex.SearchRequest{
			Query:        query,
			Fields:       []string{textindex.FieldAll},
			Filters:      buildIndexFilters(q.Filters),
			Sort:         []string{"-" + textindex.FieldSizeDV},
			Limit:        q.Limit,
			ReturnFields: []string{"path", "extension"},
		})
		if err != nil {
			return branchOutcome{}, err
		}
		hits := make([]Hit, 0, len(result.Hits))
		for _, h := range result.Hits {
			hits = append(hits, Hit{Path: h.Path, Score: h.Score, Tier: TierScored, Fields: h.Fields})
		}
		return branchOutcome{hits: hits}, nil
	}
}

func buildIndexFilters(f Filters) []textindex.Filter {
	var out []textindex.Filter
	if f.Language != "" {
		out = append(out, textindex.Filter{Field: textindex.FieldLanguageDV, Value: f.Language})
	}
	return out
}

// docFields reconstructs the scoring inputs for a text-index hit from the
// symbol store, since content_symbols/type_names/type_def/filename are
// analyzed-only in the index and never stored back out (see
// internal/textindex's field mapping).
func (p *Planner) docFields(ctx context.Context, h textindex.Hit) score.DocFields {
	fields := score.DocFields{
		Path:     h.Path,
		Filename: filepath.Base(h.Path),
	}
	if ext, ok := h.Fields["extension"].(string); ok {
		fields.Extension = ext
	}

	if p.Store == nil {
		return fields
	}
	if record, ok, err := p.Store.GetFile(ctx, h.Path); err == nil && ok {
		fields.LastModifiedMs = record.LastModified
	}
	symbols, err := p.Store.GetSymbolsForFile(ctx, h.Path)
	if err != nil {
		return fields
	}
	for _, sym := range symbols {
		fields.ContentSymbols = append(fields.ContentSymbols, sym.Name)
		if typeKinds[sym.Kind] {
			fields.TypeNames = append(fields.TypeNames, sym.Name)
			fields.TypeDef = append(fields.TypeDef, string(sym.Kind)+" "+sym.Name)
			for _, iface := range sym.Interfaces {
				fields.TypeDef = append(fields.TypeDef, "implements "+iface)
			}
		}
	}
	return fields
}
