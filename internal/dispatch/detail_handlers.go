package dispatch

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/codeengine/internal/engineerr"
	"github.com/standardbeagle/codeengine/internal/shape"
)

// resolveDetailHandler implements resolve_detail (spec.md §6: "handle,
// selector -> slice of previously computed result"): decode the opaque
// handle, validate it against the current snapshot, and slice the
// cached full hit set the shaper stashed when it summarized.
func (s *Server) resolveDetailHandler(ctx context.Context, _ *mcp.CallToolRequest, in ResolveDetailInput) (*mcp.CallToolResult, Envelope, error) {
	if in.Handle == "" {
		return nil, Envelope{}, validationError("handle is required")
	}

	handle, err := shape.ParseHandle(in.Handle)
	if err != nil {
		return nil, Envelope{}, validationError("malformed handle: %s", err)
	}

	snapshotID, _, _ := shape.DecodeHandle(handle)
	if snapshotID != s.snapshotID(ctx) {
		return nil, errEnvelope(engineerr.New(engineerr.CodeStaleDetail,
			"detail handle refers to a snapshot the engine has since moved past", nil)), nil
	}

	full, ok := s.bundle.DetailCache.Get(handle)
	if !ok {
		return nil, errEnvelope(engineerr.New(engineerr.CodeStaleDetail,
			"detail handle has expired or was never minted on this engine instance", nil)), nil
	}

	from, to := in.From, in.To
	if from <= 0 {
		from = 1
	}
	if to <= 0 || to > len(full) {
		to = len(full)
	}
	sliced := shape.ResolveDetail(full, from, to)

	return nil, dataEnvelope(string(shape.ModeFull), nil, ResolveDetailData{Hits: toHitOutputs(sliced)}), nil
}
