package dispatch

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/codeengine/internal/plan"
	"github.com/standardbeagle/codeengine/internal/shape"
)

// recentFilesHandler implements recent_files (plan.KindRecentFiles):
// most-recently-modified files first, post-filtered against
// timeFrameSince since the text index does not yet expose a date-range
// filter term (internal/plan's buildIndexFilters only wires Language
// through; DateFrom/DateTo ride along on plan.Query.Filters unused by
// the branch itself).
func (s *Server) recentFilesHandler(ctx context.Context, _ *mcp.CallToolRequest, in RecentFilesInput) (*mcp.CallToolResult, Envelope, error) {
	q := plan.Query{
		Kind:    plan.KindRecentFiles,
		Filters: plan.Filters{Language: in.Language},
		Limit:   clampLimit(in.MaxResults, 20, 1, 200),
	}

	resp, err := s.runQuery(ctx, q, shape.Options{})
	if err != nil {
		return nil, errEnvelope(err), nil
	}

	since := timeFrameSince(time.Now(), in.TimeFrame)
	data := toSearchResultsData(resp)
	data.Hits = s.filterSinceLastModified(ctx, data.Hits, since)
	return nil, dataEnvelope(shapeMode(resp), resp.DetailHandle, data), nil
}

// filterSinceLastModified drops hits whose symbol-store FileRecord
// last-modified time is older than since. Bounded by the already-limited
// hit slice, so this stays a handful of store reads per call.
func (s *Server) filterSinceLastModified(ctx context.Context, hits []HitOutput, since time.Time) []HitOutput {
	sinceMs := since.UnixMilli()
	out := make([]HitOutput, 0, len(hits))
	for _, h := range hits {
		record, ok, err := s.bundle.Store.GetFile(ctx, h.Path)
		if err != nil || !ok || record.LastModified >= sinceMs {
			out = append(out, h)
		}
	}
	return out
}

// similarFilesHandler implements similar_files (plan.KindSimilarFiles):
// a more-like-this query over the seed file's own indexed terms.
func (s *Server) similarFilesHandler(ctx context.Context, _ *mcp.CallToolRequest, in SimilarFilesInput) (*mcp.CallToolResult, Envelope, error) {
	if in.SeedPath == "" {
		return nil, Envelope{}, validationError("seed_path is required")
	}

	q := plan.Query{
		Kind:     plan.KindSimilarFiles,
		SeedPath: in.SeedPath,
		Limit:    clampLimit(in.MaxResults, 10, 1, 100),
	}

	resp, err := s.runQuery(ctx, q, shape.Options{})
	if err != nil {
		return nil, errEnvelope(err), nil
	}
	return nil, dataEnvelope(shapeMode(resp), resp.DetailHandle, toSearchResultsData(resp)), nil
}

// directorySearchHandler implements directory_search
// (plan.KindDirectorySearch): path-token match, optionally narrowed by
// a path glob.
func (s *Server) directorySearchHandler(ctx context.Context, _ *mcp.CallToolRequest, in DirectorySearchInput) (*mcp.CallToolResult, Envelope, error) {
	q := plan.Query{
		Kind:    plan.KindDirectorySearch,
		Text:    in.Query,
		Filters: plan.Filters{PathGlob: in.PathGlob},
		Limit:   clampLimit(in.MaxResults, 20, 1, 200),
	}

	resp, err := s.runQuery(ctx, q, shape.Options{})
	if err != nil {
		return nil, errEnvelope(err), nil
	}
	return nil, dataEnvelope(shapeMode(resp), resp.DetailHandle, toSearchResultsData(resp)), nil
}

// fileSizeAnalysisHandler implements file_size_analysis
// (plan.KindSizeAnalysis): largest indexed files first.
func (s *Server) fileSizeAnalysisHandler(ctx context.Context, _ *mcp.CallToolRequest, in FileSizeAnalysisInput) (*mcp.CallToolResult, Envelope, error) {
	q := plan.Query{
		Kind:    plan.KindSizeAnalysis,
		Filters: plan.Filters{Language: in.Language},
		Limit:   clampLimit(in.MaxResults, 20, 1, 200),
	}

	resp, err := s.runQuery(ctx, q, shape.Options{})
	if err != nil {
		return nil, errEnvelope(err), nil
	}
	return nil, dataEnvelope(shapeMode(resp), resp.DetailHandle, toSearchResultsData(resp)), nil
}
