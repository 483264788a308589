package searcher

import (
	"fmt"
	"sort"

	"github.com/FloareDor/gitask-sub001/internal/quantize"
	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// VectorSearch scores every stored chunk by exact cosine similarity to
// the query embedding and returns the limit best as an id→score map. The
// query embedding must match the store's dimension.
func VectorSearch(s *store.Store, queryEmbedding []float32, limit int) (map[string]float64, error) {
	if dim := s.Dimension(); dim != 0 && len(queryEmbedding) != dim {
		return nil, fmt.Errorf("vector search: %w: query length %d, store dimension %d",
			types.ErrDimensionMismatch, len(queryEmbedding), dim)
	}

	ranked := cosineRank(s, s.GetAll(), queryEmbedding)
	if limit > len(ranked) {
		limit = len(ranked)
	}
	if limit < 0 {
		limit = 0
	}

	scores := make(map[string]float64, limit)
	for _, entry := range ranked[:limit] {
		scores[entry.ID] = entry.Score
	}
	return scores, nil
}

// cosineRank orders chunks by exact cosine similarity to queryEmbedding,
// highest first, first-insertion order on ties.
func cosineRank(s *store.Store, chunks []*types.EmbeddedChunk, queryEmbedding []float32) []RankedEntry {
	type scored struct {
		entry    RankedEntry
		position int
	}

	candidates := make([]scored, 0, len(chunks))
	for _, chunk := range chunks {
		pos, _ := s.InsertionIndex(chunk.ID)
		candidates = append(candidates, scored{
			entry: RankedEntry{
				ID:    chunk.ID,
				Score: quantize.CosineSimilarity(queryEmbedding, chunk.Embedding),
			},
			position: pos,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].entry.Score != candidates[j].entry.Score {
			return candidates[i].entry.Score > candidates[j].entry.Score
		}
		return candidates[i].position < candidates[j].position
	})

	ranked := make([]RankedEntry, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.entry
	}
	return ranked
}
