package searcher

import (
	"fmt"

	"github.com/FloareDor/gitask-sub001/internal/quantize"
	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// hybridOptions toggles pipeline stages for the ablation modes.
type hybridOptions struct {
	exactCoarse   bool // cosine coarse pass instead of Hamming
	skipRerank    bool // keep the fused RRF order, no cosine rerank
	skipExpansion bool // no one-hop graph expansion
}

// hybridSearch runs the coarse-to-fine pipeline: a cheap coarse pass over
// quantized codes, a keyword pass, rank fusion of the two, an exact
// cosine rerank of the fused candidates, then one-hop graph expansion
// before the final truncation to limit.
func hybridSearch(s *store.Store, query string, queryEmbedding []float32, coarseLimit int, rrfK float64, limit int, opts hybridOptions) ([]types.SearchResult, error) {
	coarseScores, err := coarsePass(s, queryEmbedding, coarseLimit, opts.exactCoarse)
	if err != nil {
		return nil, err
	}
	keywordScores := KeywordSearch(s, query)

	fused := ReciprocalRankFusion([]map[string]float64{coarseScores, keywordScores}, rrfK)
	if len(fused) > coarseLimit {
		// The candidate pool stays bounded by coarseLimit: fused ids past
		// it never reach the rerank, however many the keyword pass hit.
		fused = fused[:coarseLimit]
	}

	if opts.skipRerank {
		return resolveEntries(s, fused, limit), nil
	}

	candidates := chunksForEntries(s, fused)
	ranked := cosineRank(s, candidates, queryEmbedding)

	if !opts.skipExpansion {
		if expanded := expandOneHop(s, ranked, limit); len(expanded) > 0 {
			candidates = append(candidates, expanded...)
			ranked = cosineRank(s, candidates, queryEmbedding)
		}
	}

	return resolveEntries(s, ranked, limit), nil
}

// coarsePass produces the initial candidate scores. The default path
// binarizes the query and ranks by Hamming distance over packed codes;
// the exact path ranks by cosine, trading speed for the true ordering.
func coarsePass(s *store.Store, queryEmbedding []float32, coarseLimit int, exact bool) (map[string]float64, error) {
	if exact {
		return VectorSearch(s, queryEmbedding, coarseLimit)
	}

	scores, err := s.CoarseSearch(quantize.Binarize(queryEmbedding), coarseLimit)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}
	return scores, nil
}

// expandOneHop collects chunks from files directly imported by the files
// of the top seedCount ranked entries. Expansion is whole-file: every
// chunk of a neighbor file joins the candidate pool unless already
// present, and competes on its own cosine score.
func expandOneHop(s *store.Store, ranked []RankedEntry, seedCount int) []*types.EmbeddedChunk {
	if seedCount > len(ranked) {
		seedCount = len(ranked)
	}

	present := make(map[string]bool, len(ranked))
	for _, entry := range ranked {
		present[entry.ID] = true
	}

	seedFiles := make(map[string]bool)
	var neighborFiles []string
	seenFile := make(map[string]bool)

	for _, entry := range ranked[:seedCount] {
		chunk, ok := s.Get(entry.ID)
		if !ok {
			continue
		}
		if seedFiles[chunk.FilePath] {
			continue
		}
		seedFiles[chunk.FilePath] = true

		for _, neighbor := range s.GraphNeighborsOf(chunk.FilePath) {
			if seenFile[neighbor] {
				continue
			}
			seenFile[neighbor] = true
			neighborFiles = append(neighborFiles, neighbor)
		}
	}

	var added []*types.EmbeddedChunk
	for _, file := range neighborFiles {
		for _, chunk := range s.ChunksByFile(file) {
			if present[chunk.ID] {
				continue
			}
			present[chunk.ID] = true
			added = append(added, chunk)
		}
	}
	return added
}

// chunksForEntries resolves ranked entries to their stored chunks,
// dropping any id the store no longer holds.
func chunksForEntries(s *store.Store, entries []RankedEntry) []*types.EmbeddedChunk {
	chunks := make([]*types.EmbeddedChunk, 0, len(entries))
	for _, entry := range entries {
		if chunk, ok := s.Get(entry.ID); ok {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// resolveEntries materializes the limit best entries as search results.
func resolveEntries(s *store.Store, entries []RankedEntry, limit int) []types.SearchResult {
	if limit > len(entries) {
		limit = len(entries)
	}
	if limit < 0 {
		limit = 0
	}

	results := make([]types.SearchResult, 0, limit)
	for _, entry := range entries[:limit] {
		chunk, ok := s.Get(entry.ID)
		if !ok {
			continue
		}
		results = append(results, types.SearchResult{
			Chunk:     chunk,
			Score:     entry.Score,
			Embedding: chunk.Embedding,
		})
	}
	return results
}
