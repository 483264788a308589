package searcher

import (
	"strings"

	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/internal/token"
)

// exactNameBonus rewards a chunk whose name equals the whole query,
// case-insensitively. A user typing an exact identifier almost always
// wants that definition first.
const exactNameBonus = 2.0

// KeywordSearch scores every stored chunk by lexical relevance to the
// query: the count of query tokens present in the chunk's name and code,
// plus exactNameBonus for a whole-query name match. Chunks with zero
// score are omitted.
func KeywordSearch(s *store.Store, query string) map[string]float64 {
	queryTokens := token.Split(query)
	trimmed := strings.TrimSpace(query)

	scores := make(map[string]float64)
	for _, chunk := range s.GetAll() {
		score := float64(token.Overlap(queryTokens, token.Set(chunk.Name+" "+chunk.Code)))
		if strings.EqualFold(trimmed, chunk.Name) {
			score += exactNameBonus
		}
		if score > 0 {
			scores[chunk.ID] = score
		}
	}
	return scores
}
