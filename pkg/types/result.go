package types

// SearchResult pairs a chunk with its relevance score for one ranking
// call. Scores are comparable only within the call that produced them.
type SearchResult struct {
	Chunk *EmbeddedChunk

	// Score is the ranking signal of the stage that produced the result;
	// higher is better.
	Score float64

	// Embedding is the chunk's float vector, exposed for downstream
	// reranking without another store lookup.
	Embedding []float32
}

// Validate checks if the search result is usable.
func (sr *SearchResult) Validate() error {
	if sr.Chunk == nil {
		return ErrMissingChunk
	}
	return sr.Chunk.Validate()
}
