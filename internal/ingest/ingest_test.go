package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/FloareDor/gitask-sub001/internal/embedder"
	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// failingEmbedder fails every call after reporting its metadata.
type failingEmbedder struct{}

func (failingEmbedder) GenerateEmbedding(context.Context, embedder.EmbeddingRequest) (*embedder.Embedding, error) {
	return nil, fmt.Errorf("%w: offline", embedder.ErrProviderFailed)
}

func (failingEmbedder) GenerateBatch(context.Context, embedder.BatchEmbeddingRequest) (*embedder.BatchEmbeddingResponse, error) {
	return nil, fmt.Errorf("%w: offline", embedder.ErrProviderFailed)
}

func (failingEmbedder) Dimension() int   { return 0 }
func (failingEmbedder) Provider() string { return "failing" }
func (failingEmbedder) Model() string    { return "failing" }
func (failingEmbedder) Close() error     { return nil }

func localEmbedder(t *testing.T) embedder.Embedder {
	t.Helper()
	emb, err := embedder.NewLocalProvider(nil)
	if err != nil {
		t.Fatalf("NewLocalProvider failed: %v", err)
	}
	return emb
}

func chunkInputs(count int) []ChunkInput {
	inputs := make([]ChunkInput, count)
	for i := range inputs {
		inputs[i] = ChunkInput{
			ID:        fmt.Sprintf("chunk-%d", i),
			FilePath:  fmt.Sprintf("pkg/file%d.go", i%3),
			Language:  "go",
			NodeType:  types.NodeFunction,
			Name:      fmt.Sprintf("Func%d", i),
			Code:      fmt.Sprintf("func Func%d() int { return %d }", i, i),
			StartLine: 1,
			EndLine:   3,
		}
	}
	return inputs
}

func TestIngestChunks(t *testing.T) {
	st := store.New()
	ing := New(st, localEmbedder(t), WithBatchSize(4), WithConcurrency(2))

	inputs := chunkInputs(10)
	if err := ing.IngestChunks(context.Background(), inputs); err != nil {
		t.Fatalf("IngestChunks failed: %v", err)
	}

	if st.Len() != 10 {
		t.Fatalf("expected 10 stored chunks, got %d", st.Len())
	}
	if st.Dimension() != embedder.LocalDimension {
		t.Errorf("expected dimension %d, got %d", embedder.LocalDimension, st.Dimension())
	}

	// insertion order follows input order across batches
	all := st.GetAll()
	for i, chunk := range all {
		if chunk.ID != inputs[i].ID {
			t.Errorf("position %d: expected %s, got %s", i, inputs[i].ID, chunk.ID)
		}
		if len(chunk.Embedding) != embedder.LocalDimension {
			t.Errorf("chunk %s: expected %d-dim embedding, got %d",
				chunk.ID, embedder.LocalDimension, len(chunk.Embedding))
		}
	}
}

func TestIngestChunksDeterministic(t *testing.T) {
	a, b := store.New(), store.New()
	inputs := chunkInputs(5)

	if err := New(a, localEmbedder(t)).IngestChunks(context.Background(), inputs); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	if err := New(b, localEmbedder(t)).IngestChunks(context.Background(), inputs); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	first, second := a.GetAll(), b.GetAll()
	for i := range first {
		for d := range first[i].Embedding {
			if first[i].Embedding[d] != second[i].Embedding[d] {
				t.Fatalf("chunk %s dim %d differs between runs", first[i].ID, d)
			}
		}
	}
}

func TestIngestChunksEmptyInput(t *testing.T) {
	st := store.New()
	if err := New(st, localEmbedder(t)).IngestChunks(context.Background(), nil); err != nil {
		t.Fatalf("expected nil error for empty input, got %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("expected empty store, got %d chunks", st.Len())
	}
}

func TestIngestFailureLeavesStoreUnchanged(t *testing.T) {
	st := store.New()
	ing := New(st, failingEmbedder{})

	err := ing.IngestChunks(context.Background(), chunkInputs(6))
	if !errors.Is(err, embedder.ErrProviderFailed) {
		t.Fatalf("expected provider failure, got %v", err)
	}
	if st.Len() != 0 {
		t.Errorf("failed ingest must not insert anything, store has %d chunks", st.Len())
	}
}

func TestBuildGraph(t *testing.T) {
	st := store.New()
	ing := New(st, localEmbedder(t))

	files := []SourceFile{
		{
			Path:     "pkg/run.go",
			Language: "go",
			Content:  []byte("package pkg\n\nimport \"fmt\"\n\nfunc Run() { fmt.Println() }\n"),
		},
		{
			Path:     "pkg/data.bin",
			Language: "binary",
			Content:  []byte{0x00, 0x01},
		},
	}

	graph, err := ing.BuildGraph(context.Background(), files)
	if err != nil {
		t.Fatalf("BuildGraph failed: %v", err)
	}

	entry, ok := graph["pkg/run.go"]
	if !ok {
		t.Fatal("expected graph entry for pkg/run.go")
	}
	if len(entry.Imports) != 1 || entry.Imports[0] != "fmt" {
		t.Errorf("expected imports [fmt], got %v", entry.Imports)
	}
	if len(entry.Definitions) != 1 || entry.Definitions[0] != "Run" {
		t.Errorf("expected definitions [Run], got %v", entry.Definitions)
	}

	if _, ok := graph["pkg/data.bin"]; ok {
		t.Error("unsupported language file must be skipped")
	}

	// the graph is installed on the store
	stored := st.Graph()
	if _, ok := stored["pkg/run.go"]; !ok {
		t.Error("expected the store graph to hold pkg/run.go")
	}
}
