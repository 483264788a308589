package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/FloareDor/gitask-sub001/internal/ingest"
	"github.com/FloareDor/gitask-sub001/internal/searcher"
	"github.com/FloareDor/gitask-sub001/internal/storage"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32001 // Query parameter is empty
	ErrorCodeCorpusEmpty   = -32002 // No corpus loaded yet
	ErrorCodeSnapshotIO    = -32003 // Snapshot file could not be read or written
)

// corpusDocument is the on-disk input format of index_corpus: parsed
// chunks awaiting embeddings, plus raw sources for graph extraction.
type corpusDocument struct {
	Chunks []corpusChunk  `json:"chunks"`
	Files  []corpusSource `json:"files"`
}

type corpusChunk struct {
	ID        string `json:"id"`
	FilePath  string `json:"file_path"`
	Language  string `json:"language"`
	NodeType  string `json:"node_type"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

type corpusSource struct {
	Path     string `json:"path"`
	Language string `json:"language"`
	Content  string `json:"content"`
}

// handleIndexCorpus handles the index_corpus tool invocation
func (s *Server) handleIndexCorpus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}
	if !filepath.IsAbs(path) {
		return nil, newMCPError(ErrorCodeInvalidParams, "path must be absolute", map[string]interface{}{
			"param": "path",
			"value": path,
		})
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "corpus file not readable", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	var doc corpusDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "corpus file is not valid JSON", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	inputs := make([]ingest.ChunkInput, len(doc.Chunks))
	for i, c := range doc.Chunks {
		inputs[i] = ingest.ChunkInput{
			ID:        c.ID,
			FilePath:  c.FilePath,
			Language:  c.Language,
			NodeType:  types.NodeType(c.NodeType),
			Name:      c.Name,
			Code:      c.Code,
			StartLine: c.StartLine,
			EndLine:   c.EndLine,
		}
	}

	if err := s.ingestor.IngestChunks(ctx, inputs); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "corpus ingestion failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	files := make([]ingest.SourceFile, len(doc.Files))
	for i, f := range doc.Files {
		files[i] = ingest.SourceFile{Path: f.Path, Language: f.Language, Content: []byte(f.Content)}
	}
	graph, err := s.ingestor.BuildGraph(ctx, files)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "dependency extraction failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.searcher.InvalidateCache()

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"indexed":        true,
		"chunks_loaded":  len(inputs),
		"graph_files":    len(graph),
		"corpus_chunks":  s.store.Len(),
		"dimension":      s.store.Dimension(),
		"embedder":       s.embedder.Provider(),
		"embedder_model": s.embedder.Model(),
	})), nil
}

// handleSearchCode handles the search_code tool invocation
func (s *Server) handleSearchCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	if s.store.Len() == 0 {
		return nil, newMCPError(ErrorCodeCorpusEmpty, "no corpus loaded", map[string]interface{}{
			"hint": "use index_corpus or load_snapshot first",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	mode := searcher.SearchMode(getStringDefault(args, "mode", string(searcher.SearchModeHybrid)))
	switch mode {
	case searcher.SearchModeHybrid, searcher.SearchModeHybridExact, searcher.SearchModeVector,
		searcher.SearchModeKeyword, searcher.SearchModeRRF, searcher.SearchModeMultiPath,
		searcher.SearchModePageIndex:
	default:
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid mode", map[string]interface{}{
			"param": "mode",
			"value": string(mode),
		})
	}

	req := searcher.Request{
		Query:            query,
		Mode:             mode,
		Limit:            limit,
		CoarseCandidates: getIntDefault(args, "coarse_candidates", 0),
		RRFK:             getFloatDefault(args, "rrf_k", 0),
		PreferenceAlpha:  getFloatDefault(args, "preference_alpha", 0),
		Strategy:         getStringDefault(args, "strategy", ""),
		UseCache:         getBoolDefault(args, "use_cache", true),
	}

	resp, err := s.searcher.Search(ctx, req)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	results := make([]map[string]interface{}, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = map[string]interface{}{
			"rank":       i + 1,
			"id":         r.Chunk.ID,
			"file_path":  r.Chunk.FilePath,
			"language":   r.Chunk.Language,
			"node_type":  string(r.Chunk.NodeType),
			"name":       r.Chunk.Name,
			"start_line": r.Chunk.StartLine,
			"end_line":   r.Chunk.EndLine,
			"score":      r.Score,
			"code":       r.Chunk.Code,
		}
	}

	response := map[string]interface{}{
		"query":         query,
		"mode":          string(resp.Mode),
		"total_results": resp.TotalResults,
		"duration_ms":   resp.Duration.Milliseconds(),
		"cache_hit":     resp.CacheHit,
		"results":       results,
	}
	if len(resp.Variants) > 0 {
		response["variants"] = resp.Variants
	}
	if len(resp.Path) > 0 {
		response["navigation_path"] = resp.Path
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleLoadSnapshot handles the load_snapshot tool invocation
func (s *Server) handleLoadSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := s.snapshotArg(request)

	snap, err := storage.Open(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeSnapshotIO, "snapshot open failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	defer func() { _ = snap.Close() }()

	if err := snap.Load(ctx, s.store); err != nil {
		return nil, newMCPError(ErrorCodeSnapshotIO, "snapshot load failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	s.searcher.InvalidateCache()

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"loaded":        true,
		"path":          path,
		"corpus_chunks": s.store.Len(),
		"dimension":     s.store.Dimension(),
		"graph_files":   len(s.store.Graph()),
	})), nil
}

// handleSaveSnapshot handles the save_snapshot tool invocation
func (s *Server) handleSaveSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store.Len() == 0 {
		return nil, newMCPError(ErrorCodeCorpusEmpty, "no corpus loaded", map[string]interface{}{
			"hint": "use index_corpus or load_snapshot first",
		})
	}

	path := s.snapshotArg(request)

	snap, err := storage.Open(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeSnapshotIO, "snapshot open failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
	defer func() { _ = snap.Close() }()

	if err := snap.Save(ctx, s.store); err != nil {
		return nil, newMCPError(ErrorCodeSnapshotIO, "snapshot save failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"saved":         true,
		"path":          path,
		"corpus_chunks": s.store.Len(),
	})), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{
		"corpus": map[string]interface{}{
			"chunks":      s.store.Len(),
			"dimension":   s.store.Dimension(),
			"graph_files": len(s.store.Graph()),
		},
		"embedder": map[string]interface{}{
			"provider":  s.embedder.Provider(),
			"model":     s.embedder.Model(),
			"dimension": s.embedder.Dimension(),
		},
		"snapshot": map[string]interface{}{
			"path":       s.snapshotPath,
			"build_mode": storage.BuildMode,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// snapshotArg resolves the optional path argument against the configured
// snapshot path.
func (s *Server) snapshotArg(request mcp.CallToolRequest) string {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		if path, ok := args["path"].(string); ok && path != "" {
			return path
		}
	}
	return s.snapshotPath
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getFloatDefault extracts a float parameter with a default value
func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	if val, ok := args[key].(float64); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
