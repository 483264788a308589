package searcher

import (
	"context"
	"fmt"
	"sort"

	"github.com/FloareDor/gitask-sub001/internal/quantize"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// DefaultPreferenceAlpha weights the original-query cosine term in the
// multi-path blend. The remainder weights the normalized fusion score.
const DefaultPreferenceAlpha = 0.7

// multiPathSearch runs the hybrid pipeline once per query variant, fuses
// the per-path rankings, and blends the fused score with cosine
// similarity against the ORIGINAL query embedding so rewrites can widen
// recall without hijacking the user's intent.
func (s *Searcher) multiPathSearch(ctx context.Context, req Request) ([]types.SearchResult, []string, error) {
	variants, err := s.expander.Expand(ctx, req.Query)
	if err != nil {
		return nil, nil, fmt.Errorf("multi-path search: %w", err)
	}
	if len(variants) == 0 {
		variants = []string{req.Query}
	}

	originalEmbedding, err := s.embedQuery(ctx, variants[0])
	if err != nil {
		return nil, nil, err
	}

	lists := make([][]string, 0, len(variants))
	for i, variant := range variants {
		embedding := originalEmbedding
		if i > 0 {
			embedding, err = s.embedQuery(ctx, variant)
			if err != nil {
				return nil, nil, err
			}
		}

		pathResults, err := hybridSearch(s.store, variant, embedding, req.CoarseCandidates, req.RRFK, req.Limit, hybridOptions{})
		if err != nil {
			return nil, nil, err
		}

		ids := make([]string, len(pathResults))
		for j, r := range pathResults {
			ids[j] = r.Chunk.ID
		}
		lists = append(lists, ids)
	}

	fused := fuseRanked(lists, req.RRFK)
	if len(fused) == 0 {
		return nil, variants, nil
	}

	normalized := minMaxNormalize(fused)

	type blended struct {
		entry     RankedEntry
		fusedRank int
	}
	candidates := make([]blended, 0, len(fused))
	for i, entry := range fused {
		chunk, ok := s.store.Get(entry.ID)
		if !ok {
			continue
		}
		cos := quantize.CosineSimilarity(chunk.Embedding, originalEmbedding)
		score := req.PreferenceAlpha*cos + (1-req.PreferenceAlpha)*normalized[i]
		candidates = append(candidates, blended{
			entry:     RankedEntry{ID: entry.ID, Score: score},
			fusedRank: i,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].entry.Score != candidates[j].entry.Score {
			return candidates[i].entry.Score > candidates[j].entry.Score
		}
		return candidates[i].fusedRank < candidates[j].fusedRank
	})

	entries := make([]RankedEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
	}

	return resolveEntries(s.store, entries, req.Limit), variants, nil
}

// minMaxNormalize rescales fused scores into [0,1]. A degenerate range
// (all scores equal, including the single-entry case) maps to 1.0 so the
// blend falls back to pure cosine ordering.
func minMaxNormalize(entries []RankedEntry) []float64 {
	minScore, maxScore := entries[0].Score, entries[0].Score
	for _, e := range entries[1:] {
		if e.Score < minScore {
			minScore = e.Score
		}
		if e.Score > maxScore {
			maxScore = e.Score
		}
	}

	normalized := make([]float64, len(entries))
	if maxScore == minScore {
		for i := range normalized {
			normalized[i] = 1.0
		}
		return normalized
	}

	for i, e := range entries {
		normalized[i] = (e.Score - minScore) / (maxScore - minScore)
	}
	return normalized
}
