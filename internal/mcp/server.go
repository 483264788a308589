package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/FloareDor/gitask-sub001/internal/embedder"
	"github.com/FloareDor/gitask-sub001/internal/expand"
	"github.com/FloareDor/gitask-sub001/internal/ingest"
	"github.com/FloareDor/gitask-sub001/internal/llm"
	"github.com/FloareDor/gitask-sub001/internal/searcher"
	"github.com/FloareDor/gitask-sub001/internal/store"
)

const (
	// ServerName is the MCP server name
	ServerName = "codectx-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"

	// EnvSnapshotPath overrides the default snapshot location
	EnvSnapshotPath = "CODECTX_SNAPSHOT_PATH"
	// EnvExpander selects the query expander ("ollama" enables model
	// rewrites; anything else searches the original query only)
	EnvExpander = "CODECTX_EXPANDER"
	// EnvExpanderModel names the chat model used for query rewrites
	EnvExpanderModel = "CODECTX_EXPANDER_MODEL"

	defaultExpanderModel = "llama3.2"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp          *server.MCPServer
	store        *store.Store
	embedder     embedder.Embedder
	searcher     *searcher.Searcher
	ingestor     *ingest.Ingestor
	snapshotPath string
}

// NewServer creates an MCP server instance with the full retrieval stack
// behind it: chunk store, embedding provider from the environment, query
// expander, searcher, and ingestor.
func NewServer(snapshotPath string) (*Server, error) {
	if snapshotPath == "" {
		snapshotPath = os.Getenv(EnvSnapshotPath)
	}
	if snapshotPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		snapshotPath = filepath.Join(home, ".codectx", "snapshot.db")
	}
	if err := os.MkdirAll(filepath.Dir(snapshotPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	emb, err := embedder.NewFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	st := store.New()

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:          mcpServer,
		store:        st,
		embedder:     emb,
		searcher:     searcher.New(st, emb, expanderFromEnv()),
		ingestor:     ingest.New(st, emb),
		snapshotPath: snapshotPath,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// expanderFromEnv wires the query expander. Model rewrites are opt-in:
// they add a chat round-trip per search.
func expanderFromEnv() expand.Expander {
	if os.Getenv(EnvExpander) != "ollama" {
		return expand.Identity{}
	}

	baseURL := os.Getenv(embedder.EnvOllamaURL)
	if baseURL == "" {
		baseURL = embedder.DefaultOllamaURL
	}
	model := os.Getenv(EnvExpanderModel)
	if model == "" {
		model = defaultExpanderModel
	}
	return expand.NewModelExpander(llm.NewOllamaChat(baseURL, model))
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.embedder.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() error {
	s.mcp.AddTool(indexCorpusTool(), s.handleIndexCorpus)
	s.mcp.AddTool(searchCodeTool(), s.handleSearchCode)
	s.mcp.AddTool(loadSnapshotTool(), s.handleLoadSnapshot)
	s.mcp.AddTool(saveSnapshotTool(), s.handleSaveSnapshot)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
	return nil
}
