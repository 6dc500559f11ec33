package dispatch

// Common hit shape every search-family tool's Data field carries a slice
// of, mirroring shape.ShapedHit's JSON-facing projection.
type HitOutput struct {
	Path      string   `json:"path"`
	StartLine int      `json:"start_line,omitempty"`
	Score     float64  `json:"score"`
	Tier      string   `json:"tier"`
	Snippets  []string `json:"snippets,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// SearchResultsData is the Data payload for every tier-fan-out search
// tool (text_search, symbol_search, file_search, recent_files,
// similar_files, directory_search, file_size_analysis).
type SearchResultsData struct {
	Hits            []HitOutput `json:"hits"`
	Total           int         `json:"total"`
	Partial         bool        `json:"partial,omitempty" jsonschema:"true if a branch was cut short by its deadline"`
	TokensEstimated int         `json:"tokens_estimated"`
}

// IndexWorkspaceInput is index_workspace's request (spec.md §6
// "workspace_path, force_rebuild" — workspace_path is fixed at Startup
// time for this engine instance, so only force_rebuild is meaningful
// here).
type IndexWorkspaceInput struct {
	ForceRebuild bool `json:"force_rebuild,omitempty" jsonschema:"also flush pending batched writes after the reconcile walk; files whose content hash already matches the store are still skipped"`
}

// IndexWorkspaceData is index_workspace's successful Data payload.
type IndexWorkspaceData struct {
	FilesReconciled int   `json:"files_reconciled"`
	DurationMS      int64 `json:"duration_ms"`
}

// TextSearchInput is text_search's request (spec.md §6's text_search
// option list). SearchType is accepted but no value changes query
// routing — see handler comment.
type TextSearchInput struct {
	Query        string   `json:"query" jsonschema:"the search text"`
	SearchType   string   `json:"search_type,omitempty" jsonschema:"standard, wildcard, fuzzy, phrase, regex, or literal; accepted but ignored: routing follows the query text itself"`
	Language     string   `json:"language,omitempty" jsonschema:"filter by detected language"`
	Extensions   []string `json:"extensions,omitempty" jsonschema:"filter by file extension, e.g. .go"`
	FilePattern  string   `json:"file_pattern,omitempty" jsonschema:"glob applied to the result path"`
	MaxResults   int      `json:"max_results,omitempty" jsonschema:"default 10"`
	ResponseMode string   `json:"response_mode,omitempty" jsonschema:"full, summary, or auto (default)"`
	TokenBudget  int      `json:"token_budget,omitempty" jsonschema:"overrides the shaper's default token budget for this call"`
}

// SymbolSearchInput is symbol_search's request.
type SymbolSearchInput struct {
	Query    string `json:"query" jsonschema:"symbol name to look up"`
	Kind     string `json:"kind,omitempty" jsonschema:"filter by extract.Kind value, e.g. interface, function"`
	Language string `json:"language,omitempty"`
	Limit    int    `json:"limit,omitempty" jsonschema:"default 10"`
}

// FileSearchInput is file_search's request.
type FileSearchInput struct {
	Query      string `json:"query" jsonschema:"filename or path fragment"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"default 10"`
}

// RecentFilesInput is recent_files' request.
type RecentFilesInput struct {
	TimeFrame string `json:"time_frame,omitempty" jsonschema:"one of 30m, 4h, 24h, 7d, 4w; default 24h"`
	Language  string `json:"language,omitempty"`
	MaxResults int   `json:"max_results,omitempty" jsonschema:"default 20"`
}

// SimilarFilesInput is similar_files' request.
type SimilarFilesInput struct {
	SeedPath   string `json:"seed_path" jsonschema:"workspace-relative path to compare against"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"default 10"`
}

// DirectorySearchInput is directory_search's request.
type DirectorySearchInput struct {
	Query      string `json:"query,omitempty" jsonschema:"path-token search text, e.g. a directory name"`
	PathGlob   string `json:"path_glob,omitempty" jsonschema:"glob the result path must match"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"default 20"`
}

// FileSizeAnalysisInput is file_size_analysis' request.
type FileSizeAnalysisInput struct {
	Language   string `json:"language,omitempty"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"default 20"`
}

// GotoDefinitionInput is goto_definition's request.
type GotoDefinitionInput struct {
	Symbol string `json:"symbol" jsonschema:"symbol name or qualified name"`
	Kind   string `json:"kind,omitempty" jsonschema:"filter by extract.Kind value"`
}

// SymbolLocation is one definition site returned by goto_definition.
type SymbolLocation struct {
	SymbolID  string `json:"symbol_id"`
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Language  string `json:"language"`
	Path      string `json:"path"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Signature string `json:"signature,omitempty"`
}

// GotoDefinitionData is goto_definition's Data payload.
type GotoDefinitionData struct {
	Locations []SymbolLocation `json:"locations"`
}

// FindReferencesInput is find_references' request (spec.md §6
// "symbol_id or name").
type FindReferencesInput struct {
	Symbol     string `json:"symbol" jsonschema:"symbol name to find references for"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"default 20"`
}

// ReferenceEdge is one containment relationship returned alongside
// find_references' text-search mentions.
type ReferenceEdge struct {
	SourceSymbolID string `json:"source_symbol_id"`
	TargetSymbolID string `json:"target_symbol_id"`
	Type           string `json:"type"`
	Depth          int    `json:"depth"`
}

// FindReferencesData is find_references' Data payload: relationship
// fan-out merged with text-search mentions (spec.md §6's exact wording
// for this operation).
type FindReferencesData struct {
	Relationships []ReferenceEdge `json:"relationships"`
	Mentions      []HitOutput     `json:"mentions"`
}

// ResolveDetailInput is resolve_detail's request (spec.md §6 "handle,
// selector").
type ResolveDetailInput struct {
	Handle string `json:"handle" jsonschema:"opaque detail handle from a prior summarized response"`
	From   int    `json:"from" jsonschema:"1-based inclusive start index"`
	To     int    `json:"to" jsonschema:"1-based inclusive end index"`
}

// ResolveDetailData is resolve_detail's Data payload.
type ResolveDetailData struct {
	Hits []HitOutput `json:"hits"`
}

// HealthCheckOutput mirrors one lifecycle.CheckResult.
type HealthCheckOutput struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// IndexHealthInput is index_health's request (no parameters).
type IndexHealthInput struct{}

// IndexHealthData is index_health's Data payload: the subset of
// lifecycle.Report relevant to index freshness.
type IndexHealthData struct {
	Status   string            `json:"status"`
	Check    HealthCheckOutput `json:"check"`
	Pressure string            `json:"pressure"`
}

// SystemHealthInput is system_health's request (no parameters).
type SystemHealthInput struct{}

// SystemHealthData is system_health's Data payload: the full
// lifecycle.Report.
type SystemHealthData struct {
	Overall  string              `json:"overall"`
	Checks   []HealthCheckOutput `json:"checks"`
	Pressure string              `json:"pressure"`
}
