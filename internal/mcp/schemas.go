package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// indexCorpusTool returns the tool definition for index_corpus
func indexCorpusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_corpus",
		Description: "Load a pre-chunked corpus file, embed its chunks, and build the dependency graph",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to a corpus JSON file with chunks and source files",
				},
			},
			Required: []string{"path"},
		},
	}
}

// searchCodeTool returns the tool definition for search_code
func searchCodeTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_code",
		Description: "Search the loaded corpus with natural language or keyword queries",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query (natural language or keywords)",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Retrieval pipeline to run",
					"enum":        []string{"hybrid", "hybrid-exact", "vector", "keyword", "rrf", "multipath", "pageindex"},
					"default":     "hybrid",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"coarse_candidates": map[string]interface{}{
					"type":        "integer",
					"description": "Candidate count for the coarse quantized pass",
					"default":     50,
				},
				"rrf_k": map[string]interface{}{
					"type":        "number",
					"description": "Rank fusion constant",
					"default":     60,
				},
				"preference_alpha": map[string]interface{}{
					"type":        "number",
					"description": "Multipath blend weight on original-query cosine (0-1)",
					"default":     0.7,
				},
				"strategy": map[string]interface{}{
					"type":        "string",
					"description": "Pageindex navigation strategy",
					"enum":        []string{"greedy", "beam"},
					"default":     "greedy",
				},
				"use_cache": map[string]interface{}{
					"type":        "boolean",
					"description": "Serve repeated queries from the response cache",
					"default":     true,
				},
			},
			Required: []string{"query"},
		},
	}
}

// loadSnapshotTool returns the tool definition for load_snapshot
func loadSnapshotTool() mcp.Tool {
	return mcp.Tool{
		Name:        "load_snapshot",
		Description: "Load a previously saved corpus snapshot into memory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Snapshot database path (defaults to the configured snapshot)",
				},
			},
		},
	}
}

// saveSnapshotTool returns the tool definition for save_snapshot
func saveSnapshotTool() mcp.Tool {
	return mcp.Tool{
		Name:        "save_snapshot",
		Description: "Persist the in-memory corpus to a snapshot database",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Snapshot database path (defaults to the configured snapshot)",
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report corpus, embedder, and snapshot status",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
