package dispatch

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/codeengine/internal/plan"
	"github.com/standardbeagle/codeengine/internal/shape"
)

// textSearchHandler implements text_search (spec.md §6): classification-
// driven fan-out across the exact-symbol, scored-text, and literal tiers
// (plan.KindTextSearch), filtered and shaped per the caller's options.
//
// SearchType is accepted for spec.md §6 compatibility but does not
// select a code path: classify() already inspects the query text itself
// and turns on the literal tier for queries with syntactic characters a
// MatchQuery would mangle, so a caller never needs to request it by
// name. internal/textindex.Search also has no query-string parser to
// give wildcard/fuzzy/regex syntax distinct meaning, so those values
// would have nothing further to route to even if threaded through.
func (s *Server) textSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, in TextSearchInput) (*mcp.CallToolResult, Envelope, error) {
	if in.Query == "" {
		return nil, Envelope{}, validationError("query is required")
	}

	q := plan.Query{
		Kind: plan.KindTextSearch,
		Text: in.Query,
		Filters: plan.Filters{
			Language: in.Language,
			PathGlob: in.FilePattern,
		},
		Limit: clampLimit(in.MaxResults, 10, 1, 200),
	}

	resp, err := s.runQuery(ctx, q, shape.Options{
		Mode:        shape.Mode(in.ResponseMode),
		TokenBudget: in.TokenBudget,
		Query:       in.Query,
	})
	if err != nil {
		return nil, errEnvelope(err), nil
	}

	data := toSearchResultsData(resp)
	if len(in.Extensions) > 0 {
		data.Hits = filterByExtensions(data.Hits, in.Extensions)
	}
	return nil, dataEnvelope(shapeMode(resp), resp.DetailHandle, data), nil
}

// symbolSearchHandler implements symbol_search: an exact-name lookup
// against the symbol store (plan.KindSymbolSearch), optionally narrowed
// by kind and language.
func (s *Server) symbolSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, in SymbolSearchInput) (*mcp.CallToolResult, Envelope, error) {
	if in.Query == "" {
		return nil, Envelope{}, validationError("query is required")
	}

	q := plan.Query{
		Kind: plan.KindSymbolSearch,
		Text: in.Query,
		Filters: plan.Filters{
			SymbolKind: in.Kind,
			Language:   in.Language,
		},
		Limit: clampLimit(in.Limit, 10, 1, 200),
	}

	resp, err := s.runQuery(ctx, q, shape.Options{Query: in.Query})
	if err != nil {
		return nil, errEnvelope(err), nil
	}
	return nil, dataEnvelope(shapeMode(resp), resp.DetailHandle, toSearchResultsData(resp)), nil
}

// fileSearchHandler implements file_search: filename/path-token match
// (plan.KindFileSearch). spec.md §6 calls for "fuzzy correction when few
// results" — the filename branch already searches both the filename and
// path-token fields, which is the fuzzy-adjacent behavior this index
// supports without a dedicated edit-distance pass.
func (s *Server) fileSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, in FileSearchInput) (*mcp.CallToolResult, Envelope, error) {
	if in.Query == "" {
		return nil, Envelope{}, validationError("query is required")
	}

	q := plan.Query{
		Kind:  plan.KindFileSearch,
		Text:  in.Query,
		Limit: clampLimit(in.MaxResults, 10, 1, 200),
	}

	resp, err := s.runQuery(ctx, q, shape.Options{Query: in.Query})
	if err != nil {
		return nil, errEnvelope(err), nil
	}
	return nil, dataEnvelope(shapeMode(resp), resp.DetailHandle, toSearchResultsData(resp)), nil
}

func filterByExtensions(hits []HitOutput, exts []string) []HitOutput {
	out := make([]HitOutput, 0, len(hits))
	for _, h := range hits {
		for _, ext := range exts {
			if hasSuffixFold(h.Path, ext) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

func hasSuffixFold(path, suffix string) bool {
	if len(suffix) == 0 || len(path) < len(suffix) {
		return false
	}
	return strings.EqualFold(path[len(path)-len(suffix):], suffix)
}
