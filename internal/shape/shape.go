package shape

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/standardbeagle/codeengine/internal/plan"
	"github.com/standardbeagle/codeengine/internal/textindex"
)

// ContentSource fetches a hit's stored content for fragment extraction.
// Kept as an interface over *textindex.Index's exact method set so this
// package depends only on the one call it needs.
type ContentSource interface {
	StoredField(ctx context.Context, path, field string) ([]byte, bool, error)
}

// DetailStore is the subset of the C11 cache the shaper needs to persist
// a full hit set behind a detail handle. Kept as an interface, the same
// way internal/watch decouples from internal/ingest, so this package
// never imports the concrete LRU wiring.
type DetailStore interface {
	Put(handle uint64, hits []ShapedHit, ttl time.Duration)
}

// Shaper turns a planner's CompositeResult into a token-budgeted Response.
type Shaper struct {
	Content ContentSource
	Details DetailStore
	Config  Config

	// forcedMode, when non-empty, overrides every call's requested mode
	// with ModeSummary regardless of Options.Mode (spec.md §5 "beyond
	// pressure-high... the shaper forces summary mode"). Set via
	// ForceSummary/ClearForcedMode from the memory-pressure monitor.
	forcedMode atomic.Value // string
}

// ForceSummary pins every subsequent Shape call to ModeSummary until
// ClearForcedMode is called, regardless of the caller's requested mode.
func (s *Shaper) ForceSummary() {
	s.forcedMode.Store(string(ModeSummary))
}

// ClearForcedMode releases a prior ForceSummary, letting callers' own
// Options.Mode take effect again.
func (s *Shaper) ClearForcedMode() {
	s.forcedMode.Store("")
}

// New builds a Shaper. content may be nil (fragments fall back to
// signature/field-only snippets); details may be nil (handles are still
// minted and returned, just not resolvable until a store is wired in).
func New(content ContentSource, details DetailStore, cfg Config) *Shaper {
	return &Shaper{Content: content, Details: details, Config: cfg.withDefaults()}
}

// Shape builds the full per-hit view, estimates its token cost, and
// returns either that view or a summary-plus-handle view depending on
// opts.Mode and the budget (spec.md §4.10). The invariant "never emit a
// response whose estimated tokens exceed token_budget × 1.1" holds
// regardless of the requested mode: an explicit "full" request that
// would blow the budget is downgraded to "summary" with AutoSwitched set,
// the same as "auto" would be.
func (s *Shaper) Shape(ctx context.Context, result plan.CompositeResult, opts Options) (Response, error) {
	cfg := s.Config
	budget := opts.TokenBudget
	if budget <= 0 {
		budget = cfg.TokenBudgetDefault
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}
	if forced, _ := s.forcedMode.Load().(string); forced != "" {
		mode = Mode(forced)
	}

	full := s.buildFull(ctx, result)
	estimated := cfg.estimateAll(full)
	exceeds := float64(estimated) > float64(budget)*1.1

	resp := Response{
		Total:           len(result.Hits),
		Partial:         result.Partial,
		Facets:          result.Facets,
		TokensEstimated: estimated,
	}

	useSummary := mode == ModeSummary || ((mode == ModeFull || mode == ModeAuto) && exceeds)
	if useSummary {
		resp.Mode = ModeSummary
		resp.AutoSwitched = mode != ModeSummary
		resp.Hits = summarize(full, cfg.SummaryTopK)

		handle := encodeHandle(opts.SnapshotID, opts.Query, uint16(time.Now().Unix()/60))
		if s.Details != nil {
			s.Details.Put(handle, full, cfg.DetailTTL)
		}
		formatted := formatHandle(handle)
		resp.DetailHandle = &formatted
		return resp, nil
	}

	resp.Mode = ModeFull
	resp.Hits = full
	return resp, nil
}

// buildFull converts every plan.Hit into a ShapedHit, fetching stored
// content and slicing highlight fragments where the hit's tier carries
// locations to fragment against (scored/literal tiers; exact-tier symbol
// hits have no indexed content field, so their snippet is their
// signature, already present in Fields).
func (s *Shaper) buildFull(ctx context.Context, result plan.CompositeResult) []ShapedHit {
	cfg := s.Config
	out := make([]ShapedHit, 0, len(result.Hits))

	for _, h := range result.Hits {
		shaped := ShapedHit{
			Path:      h.Path,
			StartLine: h.StartLine,
			Score:     h.Score,
			Tier:      h.Tier,
			Fields:    h.Fields,
		}

		var terms []string
		for _, ts := range h.Locations {
			terms = append(terms, ts...)
		}

		if len(terms) > 0 && s.Content != nil {
			if body, ok, err := s.Content.StoredField(ctx, h.Path, textindex.FieldContent); err == nil && ok {
				shaped.Snippets = fragments(string(body), terms, cfg.MaxFragments, cfg.FragmentSize)
			}
		}
		if len(shaped.Snippets) == 0 {
			if sig, ok := h.Fields["signature"].(string); ok && sig != "" {
				shaped.Snippets = []string{sig}
			}
		}

		out = append(out, shaped)
	}
	return out
}

// summarize keeps the top K hits (by the merge order plan.PlanAndExecute
// already produced) and trims every snippet to a single short fragment,
// matching spec.md §4.10's "top K hits with short snippets" summary view.
func summarize(full []ShapedHit, topK int) []ShapedHit {
	if topK > len(full) {
		topK = len(full)
	}
	out := make([]ShapedHit, topK)
	for i := 0; i < topK; i++ {
		h := full[i]
		if len(h.Snippets) > 1 {
			h.Snippets = h.Snippets[:1]
		}
		out[i] = h
	}
	return out
}

// ResolveDetail slices a cached full hit set by a 1-based, inclusive
// [from, to] range (spec.md §4.10's example 5: "resolve_detail(handle,
// range=1..10)"). Callers resolve the handle to a hit set through their
// own DetailStore lookup before calling this.
func ResolveDetail(hits []ShapedHit, from, to int) []ShapedHit {
	if from < 1 {
		from = 1
	}
	if to > len(hits) {
		to = len(hits)
	}
	if from > to {
		return nil
	}
	return hits[from-1 : to]
}

// DecodeHandle and ValidateHandle expose the handle encoding to callers
// resolving a detail handle (e.g. internal/dispatch's resolve_detail
// tool) without re-deriving the bit layout.
func DecodeHandle(h uint64) (snapshotID uint16, queryHash uint32, unixMinute uint16) {
	return decodeHandle(h)
}

func ValidateHandle(h uint64, snapshotID uint16, query string) bool {
	return validateHandle(h, snapshotID, query)
}

func FormatHandle(h uint64) string { return formatHandle(h) }

func ParseHandle(s string) (uint64, error) { return parseHandle(s) }
