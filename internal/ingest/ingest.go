package ingest

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/FloareDor/gitask-sub001/internal/deps"
	"github.com/FloareDor/gitask-sub001/internal/embedder"
	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// DefaultConcurrency bounds how many embedding batches run in flight.
const DefaultConcurrency = 4

// ChunkInput is a parsed chunk awaiting its embedding.
type ChunkInput struct {
	ID        string
	FilePath  string
	Language  string
	NodeType  types.NodeType
	Name      string
	Code      string
	StartLine int
	EndLine   int
}

// SourceFile is one file of the corpus for dependency extraction.
type SourceFile struct {
	Path     string
	Language string
	Content  []byte
}

// Ingestor embeds chunk batches concurrently and loads the results into
// the store as a single atomic insert, so searchers never observe a
// half-embedded corpus.
type Ingestor struct {
	store       *store.Store
	embedder    embedder.Embedder
	batchSize   int
	concurrency int
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithBatchSize sets how many chunk texts go into one embedding request.
func WithBatchSize(n int) Option {
	return func(ing *Ingestor) {
		if n > 0 && n <= embedder.MaxBatchSize {
			ing.batchSize = n
		}
	}
}

// WithConcurrency sets how many batches embed in parallel.
func WithConcurrency(n int) Option {
	return func(ing *Ingestor) {
		if n > 0 {
			ing.concurrency = n
		}
	}
}

// New creates an Ingestor targeting the given store and provider.
func New(st *store.Store, emb embedder.Embedder, opts ...Option) *Ingestor {
	ing := &Ingestor{
		store:       st,
		embedder:    emb,
		batchSize:   embedder.DefaultBatchSize,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestChunks embeds every input and upserts the full set into the
// store. Any embedding failure aborts the whole load; the store is left
// exactly as it was.
func (ing *Ingestor) IngestChunks(ctx context.Context, inputs []ChunkInput) error {
	if len(inputs) == 0 {
		return nil
	}

	chunks := make([]types.EmbeddedChunk, len(inputs))
	for i, in := range inputs {
		chunks[i] = types.EmbeddedChunk{
			ID:        in.ID,
			FilePath:  in.FilePath,
			Language:  in.Language,
			NodeType:  in.NodeType,
			Name:      in.Name,
			Code:      in.Code,
			StartLine: in.StartLine,
			EndLine:   in.EndLine,
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ing.concurrency)

	for start := 0; start < len(inputs); start += ing.batchSize {
		end := start + ing.batchSize
		if end > len(inputs) {
			end = len(inputs)
		}
		start, end := start, end

		g.Go(func() error {
			texts := make([]string, end-start)
			for i := start; i < end; i++ {
				texts[i-start] = inputs[i].Code
			}

			resp, err := ing.embedder.GenerateBatch(gctx, embedder.BatchEmbeddingRequest{Texts: texts})
			if err != nil {
				return fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
			}
			if len(resp.Embeddings) != end-start {
				return fmt.Errorf("embed batch [%d:%d]: %w: got %d embeddings",
					start, end, embedder.ErrProviderFailed, len(resp.Embeddings))
			}

			// Each goroutine writes a disjoint slice range.
			for i := start; i < end; i++ {
				chunks[i].Embedding = resp.Embeddings[i-start].Vector
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if err := ing.store.Insert(chunks); err != nil {
		return fmt.Errorf("insert embedded chunks: %w", err)
	}

	log.Printf("ingested %d chunks (%s/%s, dim %d)",
		len(chunks), ing.embedder.Provider(), ing.embedder.Model(), ing.store.Dimension())
	return nil
}

// BuildGraph extracts each file's dependencies and replaces the store's
// graph wholesale. Files in unsupported languages are skipped, and a
// parse failure in one file skips that file rather than failing the
// corpus: a partial graph only weakens expansion, never correctness.
func (ing *Ingestor) BuildGraph(ctx context.Context, files []SourceFile) (types.DependencyGraph, error) {
	graph := make(types.DependencyGraph, len(files))

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fileDeps, err := deps.ExtractSource(ctx, file.Language, file.Content)
		if err != nil {
			log.Printf("dependency extraction skipped %s: %v", file.Path, err)
			continue
		}
		graph[file.Path] = fileDeps
	}

	ing.store.SetGraph(graph)
	return graph, nil
}
