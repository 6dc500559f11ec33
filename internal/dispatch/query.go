package dispatch

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/standardbeagle/codeengine/internal/cache"
	"github.com/standardbeagle/codeengine/internal/plan"
	"github.com/standardbeagle/codeengine/internal/shape"
)

// snapshotID derives the C11 cache's snapshot discriminant from the
// index's current document count (lifecycle.Monitor.checkIndex already
// treats doc-count as the index's freshness signal; reusing it here
// means a result cached against one ingest generation is never served
// against a later one, spec.md §4.11's "never answer a request for a
// snapshot newer than what it holds").
func (s *Server) snapshotID(ctx context.Context) uint16 {
	docs, err := s.bundle.Index.Refresh(ctx)
	if err != nil {
		return 0
	}
	return uint16(docs % 65536)
}

// runQuery executes q through the C11 result cache (falling back to the
// planner on a miss) and shapes the composite result, the same
// cache-then-plan-then-shape path every search-family tool shares.
func (s *Server) runQuery(ctx context.Context, q plan.Query, shapeOpts shape.Options) (shape.Response, error) {
	snap := s.snapshotID(ctx)
	shapeOpts.SnapshotID = snap

	key := cache.ResultKey{
		SnapshotID:     snap,
		CanonicalQuery: canonicalQuery(q),
		FilterSet:      filterSetKey(q.Filters),
		Sort:           strings.Join(q.Sort, ","),
		Limit:          q.Limit,
	}

	result, ok := s.bundle.ResultCache.Get(key)
	if !ok {
		var err error
		result, err = s.bundle.Planner.PlanAndExecute(ctx, q, plan.Options{Now: time.Now()})
		if err != nil {
			return shape.Response{}, err
		}
		s.bundle.ResultCache.Put(key, result)
	}

	return s.bundle.Shaper.Shape(ctx, result, shapeOpts)
}

func canonicalQuery(q plan.Query) string {
	return string(q.Kind) + "|" + strings.ToLower(strings.TrimSpace(q.Text)) + "|" + q.SeedPath
}

func filterSetKey(f plan.Filters) string {
	var b strings.Builder
	b.WriteString(f.SymbolKind)
	b.WriteByte('|')
	b.WriteString(f.Language)
	b.WriteByte('|')
	b.WriteString(f.PathGlob)
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(f.SizeMin, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(f.SizeMax, 10))
	b.WriteByte('|')
	b.WriteString(strconv.FormatInt(f.DateFrom.Unix(), 10))
	return b.String()
}

func toHitOutputs(hits []shape.ShapedHit) []HitOutput {
	out := make([]HitOutput, 0, len(hits))
	for _, h := range hits {
		out = append(out, HitOutput{
			Path:      h.Path,
			StartLine: h.StartLine,
			Score:     h.Score,
			Tier:      string(h.Tier),
			Snippets:  h.Snippets,
			Fields:    h.Fields,
		})
	}
	return out
}

func toSearchResultsData(resp shape.Response) SearchResultsData {
	return SearchResultsData{
		Hits:            toHitOutputs(resp.Hits),
		Total:           resp.Total,
		Partial:         resp.Partial,
		TokensEstimated: resp.TokensEstimated,
	}
}

func shapeMode(resp shape.Response) string {
	return string(resp.Mode)
}

// timeFrameSince resolves spec.md §6's recent_files time_frame enum
// (30m, 4h, 24h, 7d, 4w) to a from-time relative to now, defaulting to
// 24h for an empty or unrecognized value.
func timeFrameSince(now time.Time, frame string) time.Time {
	switch frame {
	case "30m":
		return now.Add(-30 * time.Minute)
	case "4h":
		return now.Add(-4 * time.Hour)
	case "7d":
		return now.Add(-7 * 24 * time.Hour)
	case "4w":
		return now.Add(-28 * 24 * time.Hour)
	default:
		return now.Add(-24 * time.Hour)
	}
}

func clampLimit(limit, defaultVal, min, max int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}
