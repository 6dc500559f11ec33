package dispatch

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/codeengine/internal/plan"
	"github.com/standardbeagle/codeengine/internal/shape"
	"github.com/standardbeagle/codeengine/internal/symbolstore"
)

const referenceMaxDepth = 3

// gotoDefinitionHandler implements goto_definition (spec.md §6): an
// exact-name lookup against the symbol store, the same path
// plan.Planner.exactSymbolBranch uses for the symbol-search tier, called
// directly here since goto_definition wants every matching symbol's full
// location, not a ranked/merged Hit.
func (s *Server) gotoDefinitionHandler(ctx context.Context, _ *mcp.CallToolRequest, in GotoDefinitionInput) (*mcp.CallToolResult, Envelope, error) {
	if in.Symbol == "" {
		return nil, Envelope{}, validationError("symbol is required")
	}

	name := in.Symbol
	if fields := strings.Fields(in.Symbol); len(fields) > 0 {
		name = fields[0]
	}

	symbols, err := s.bundle.Store.GetSymbolsByName(ctx, name)
	if err != nil {
		return nil, errEnvelope(err), nil
	}

	locations := make([]SymbolLocation, 0, len(symbols))
	for _, sym := range symbols {
		if in.Kind != "" && string(sym.Kind) != in.Kind {
			continue
		}
		locations = append(locations, SymbolLocation{
			SymbolID:  sym.ID,
			Name:      sym.Name,
			Kind:      string(sym.Kind),
			Language:  sym.Language,
			Path:      sym.FilePath,
			StartLine: sym.StartLine,
			EndLine:   sym.EndLine,
			Signature: sym.Signature,
		})
	}

	return nil, dataEnvelope("", nil, GotoDefinitionData{Locations: locations}), nil
}

// findReferencesHandler implements find_references (spec.md §6: "symbol_id
// or name -> relationship fan-out from the symbol store, merged with
// text-search mentions"). Relationships come from
// symbolstore.Store.GetRelationships (containment edges only — this
// extractor generation records no cross-file call/implements graph, see
// internal/extract/types.go's Relationship doc comment); the text-search
// half fills the gap by surfacing every other textual occurrence of the
// name, which is as close to "all references" as a non-semantic index
// can get.
func (s *Server) findReferencesHandler(ctx context.Context, _ *mcp.CallToolRequest, in FindReferencesInput) (*mcp.CallToolResult, Envelope, error) {
	if in.Symbol == "" {
		return nil, Envelope{}, validationError("symbol is required")
	}
	limit := clampLimit(in.MaxResults, 20, 1, 200)

	symbols, err := s.bundle.Store.GetSymbolsByName(ctx, in.Symbol)
	if err != nil {
		return nil, errEnvelope(err), nil
	}

	var edges []ReferenceEdge
	for _, sym := range symbols {
		rels, err := s.bundle.Store.GetRelationships(ctx, sym.ID, symbolstore.DirectionBoth, referenceMaxDepth)
		if err != nil {
			continue
		}
		for _, r := range rels {
			edges = append(edges, ReferenceEdge{
				SourceSymbolID: r.SourceSymbolID,
				TargetSymbolID: r.TargetSymbolID,
				Type:           string(r.Type),
				Depth:          r.Depth,
			})
		}
	}

	mentions := []HitOutput{}
	resp, err := s.runQuery(ctx, plan.Query{Kind: plan.KindTextSearch, Text: in.Symbol, Limit: limit}, shape.Options{})
	if err == nil {
		mentions = toHitOutputs(resp.Hits)
	}

	return nil, dataEnvelope("", nil, FindReferencesData{Relationships: edges, Mentions: mentions}), nil
}
