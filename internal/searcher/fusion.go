package searcher

import "sort"

// DefaultRRFK is the standard rank-fusion constant. Larger values
// flatten the contribution gap between adjacent ranks.
const DefaultRRFK = 60.0

// RankedEntry is one fused candidate: a chunk id and its fusion score.
type RankedEntry struct {
	ID    string
	Score float64
}

// fuseRanked applies reciprocal rank fusion over ordered id lists: each
// appearance of an id at rank r (1-based) contributes 1/(k+r). Ties in
// fused score break by first appearance scanning the lists in order,
// which keeps fusion deterministic regardless of map iteration.
func fuseRanked(lists [][]string, k float64) []RankedEntry {
	if k <= 0 {
		k = DefaultRRFK
	}

	scores := make(map[string]float64)
	firstSeen := make(map[string]int)
	next := 0

	for _, list := range lists {
		for rank, id := range list {
			if _, ok := firstSeen[id]; !ok {
				firstSeen[id] = next
				next++
			}
			scores[id] += 1.0 / (k + float64(rank+1))
		}
	}

	fused := make([]RankedEntry, 0, len(scores))
	for id, score := range scores {
		fused = append(fused, RankedEntry{ID: id, Score: score})
	}

	sort.Slice(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return firstSeen[fused[i].ID] < firstSeen[fused[j].ID]
	})

	return fused
}

// ReciprocalRankFusion fuses score maps from independent rankers. Each
// map is first ordered into a ranked list (score descending, id
// ascending on ties) so the fusion is reproducible, then fused with
// constant k (k<=0 selects DefaultRRFK).
func ReciprocalRankFusion(rankings []map[string]float64, k float64) []RankedEntry {
	lists := make([][]string, 0, len(rankings))
	for _, scores := range rankings {
		lists = append(lists, rankScores(scores))
	}
	return fuseRanked(lists, k)
}

// rankScores orders a score map into an id list, highest score first,
// ids ascending on equal scores.
func rankScores(scores map[string]float64) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if scores[ids[i]] != scores[ids[j]] {
			return scores[ids[i]] > scores[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}
