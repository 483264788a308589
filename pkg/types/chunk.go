package types

import "errors"

// NodeType classifies the syntax construct a chunk was cut from.
type NodeType string

const (
	NodeFunction         NodeType = "function"
	NodeClass            NodeType = "class"
	NodeMethod           NodeType = "method"
	NodeStruct           NodeType = "struct"
	NodeInterface        NodeType = "interface"
	NodeEnum             NodeType = "enum"
	NodeFileSummary      NodeType = "file_summary"
	NodeDirectorySummary NodeType = "directory_summary"
)

// EmbeddedChunk is a code fragment with its embedding vector. Chunks are
// produced by an external parser/chunker and owned by the Store from
// insertion until the store is discarded.
type EmbeddedChunk struct {
	// Identification
	ID       string
	FilePath string
	Language string
	NodeType NodeType
	Name     string

	// Content
	Code      string
	StartLine int
	EndLine   int

	// Embedding holds the fixed-length float vector for this chunk.
	// All chunks within one store share the same dimensionality.
	Embedding []float32
}

// Validate checks structural validity of the chunk.
func (c *EmbeddedChunk) Validate() error {
	if c.ID == "" {
		return errors.New("chunk ID cannot be empty")
	}

	if c.FilePath == "" {
		return errors.New("chunk file path cannot be empty")
	}

	if len(c.Embedding) == 0 {
		return errors.New("chunk embedding cannot be empty")
	}

	if c.StartLine < 0 || c.EndLine < 0 {
		return errors.New("line numbers must be non-negative")
	}

	if c.StartLine > c.EndLine {
		return errors.New("start line must be before or equal to end line")
	}

	return nil
}

// IsSummary reports whether the chunk is a dedicated summary chunk rather
// than ordinary code.
func (c *EmbeddedChunk) IsSummary() bool {
	return c.NodeType == NodeFileSummary || c.NodeType == NodeDirectorySummary
}

// Clone returns a deep copy of the chunk.
func (c *EmbeddedChunk) Clone() *EmbeddedChunk {
	dup := *c
	dup.Embedding = make([]float32, len(c.Embedding))
	copy(dup.Embedding, c.Embedding)
	return &dup
}
