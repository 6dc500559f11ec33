package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/codeengine/internal/lifecycle"
	"github.com/standardbeagle/codeengine/pkg/version"
)

// Server bridges a running lifecycle.Bundle to the MCP SDK, grounded on
// the teacher's internal/mcp.Server (construct, registerTools, Serve).
type Server struct {
	mcp    *mcp.Server
	bundle *lifecycle.Bundle
	log    *slog.Logger
}

// NewServer wires every tool in spec.md §6's operation list against an
// already-started bundle. bundle must not be nil; Startup (package
// internal/lifecycle) is the only supported way to build one.
func NewServer(bundle *lifecycle.Bundle, log *slog.Logger) (*Server, error) {
	if bundle == nil {
		return nil, fmt.Errorf("dispatch: bundle is required")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &Server{bundle: bundle, log: log}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{Name: "codeengine", Version: version.Version},
		nil, // capabilities are inferred from the tools registered below
	)
	s.registerTools()
	return s, nil
}

// MCPServer returns the underlying SDK server, e.g. for a resource
// registration cmd/codeengine wants to add directly.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// registerTools registers every operation of spec.md §6 with the MCP
// SDK's typed-handler mechanism (mcp.AddTool), the pattern the teacher's
// own registerTools uses for production traffic.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_workspace",
		Description: "Reconcile the symbol store and inverted index against the workspace tree and report the resulting counts. Run once after opening a workspace the engine has not watched continuously.",
	}, s.indexWorkspaceHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "text_search",
		Description: "Full-text search across the indexed workspace, fanning out across exact-symbol, scored-text, and literal tiers and merging the results by rank.",
	}, s.textSearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "symbol_search",
		Description: "Exact-name symbol lookup against the canonical symbol store, optionally filtered by kind and language.",
	}, s.symbolSearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "file_search",
		Description: "Find files by filename or path-token match. No fallback or fuzzy correction runs when few results come back.",
	}, s.fileSearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "recent_files",
		Description: "List recently modified files within a time window (30m, 4h, 24h, 7d, 4w).",
	}, s.recentFilesHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "similar_files",
		Description: "Find files whose indexed terms most overlap a seed file's, via a more-like-this query over the inverted index.",
	}, s.similarFilesHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "directory_search",
		Description: "Find files under path prefixes matching a directory query or glob.",
	}, s.directorySearchHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "file_size_analysis",
		Description: "List indexed files sorted by on-disk size, largest first.",
	}, s.fileSizeAnalysisHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "goto_definition",
		Description: "Resolve a symbol name to its exact definition site(s) in the symbol store.",
	}, s.gotoDefinitionHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "find_references",
		Description: "Find a symbol's containment relationships plus text-search mentions of its name across the workspace.",
	}, s.findReferencesHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "resolve_detail",
		Description: "Resolve a detail handle returned by a summarized search response into a slice of its full hit set.",
	}, s.resolveDetailHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "index_health",
		Description: "Report the index health check (reachability, staleness) with the engine's overall status and current memory pressure.",
	}, s.indexHealthHandler)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "system_health",
		Description: "Report the engine's full health snapshot: every check's status and message (index, symbol store, watcher) plus current memory pressure.",
	}, s.systemHealthHandler)

	s.log.Info("dispatch_tools_registered", slog.Int("count", 13))
}

// Serve runs the MCP server until ctx is cancelled, grounded on the
// teacher's internal/mcp.Server.Serve stdio-transport case — the SSE
// branch is left unimplemented upstream too, so it is not reproduced
// here as a dead stub.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("dispatch_serve_start", slog.String("transport", "stdio"))
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if err != nil && err != context.Canceled {
		s.log.Error("dispatch_serve_failed", slog.String("error", err.Error()))
		return err
	}
	s.log.Info("dispatch_serve_stopped")
	return nil
}
