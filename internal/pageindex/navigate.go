package pageindex

import (
	"fmt"
	"sort"

	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/internal/token"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// Strategy selects how navigation descends the tree.
type Strategy string

const (
	// StrategyGreedy follows the single best-scoring child at each level.
	StrategyGreedy Strategy = "greedy"
	// StrategyBeam keeps the best beamWidth nodes at each level.
	StrategyBeam Strategy = "beam"

	beamWidth = 2
)

// ParseStrategy validates a strategy name, defaulting empty to greedy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "":
		return StrategyGreedy, nil
	case StrategyGreedy, StrategyBeam:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("unknown navigation strategy %q", name)
	}
}

// NavResult is the outcome of one navigation: the ranked chunks of the
// selected file node(s) and the node ids visited on the way down.
type NavResult struct {
	Results []types.SearchResult
	Path    []string
}

// Search descends the tree from the root by lexical relevance and ranks
// the chunks under the selected file node(s). It is fully deterministic:
// ties break by the sorted child order fixed at build time.
func Search(tree *Tree, s *store.Store, query string, strategy Strategy, limit int) NavResult {
	if tree.Empty() || limit <= 0 {
		return NavResult{}
	}

	queryTokens := token.Split(query)

	var files []*Node
	var path []string
	switch strategy {
	case StrategyBeam:
		files, path = descendBeam(tree, queryTokens)
	default:
		files, path = descendGreedy(tree, queryTokens)
	}

	return NavResult{
		Results: rankChunks(s, files, queryTokens, limit),
		Path:    path,
	}
}

// nodeScore is the lexical relevance of a node: query token overlap
// against its summary and its path.
func nodeScore(n *Node, queryTokens []string) int {
	return token.Overlap(queryTokens, token.Set(n.Summary+" "+n.Path))
}

// bestChildren returns the childCount highest-scoring children of node,
// ties broken by child order.
func bestChildren(tree *Tree, node *Node, queryTokens []string, childCount int) []*Node {
	type scored struct {
		node  *Node
		score int
		order int
	}

	children := make([]scored, 0, len(node.ChildIDs))
	for i, id := range node.ChildIDs {
		child, ok := tree.Nodes[id]
		if !ok {
			continue
		}
		children = append(children, scored{node: child, score: nodeScore(child, queryTokens), order: i})
	}

	sort.Slice(children, func(i, j int) bool {
		if children[i].score != children[j].score {
			return children[i].score > children[j].score
		}
		return children[i].order < children[j].order
	})

	if childCount > len(children) {
		childCount = len(children)
	}
	out := make([]*Node, 0, childCount)
	for _, c := range children[:childCount] {
		out = append(out, c.node)
	}
	return out
}

// descendGreedy walks root→directory→file picking the single best child
// at each level.
func descendGreedy(tree *Tree, queryTokens []string) ([]*Node, []string) {
	node := tree.Root()
	path := []string{node.ID}

	for node.Level != LevelFile {
		next := bestChildren(tree, node, queryTokens, 1)
		if len(next) == 0 {
			return nil, path
		}
		node = next[0]
		path = append(path, node.ID)
	}

	return []*Node{node}, path
}

// descendBeam walks the tree keeping the beamWidth best nodes per level,
// trading one extra file visit for recall on queries that straddle
// directories.
func descendBeam(tree *Tree, queryTokens []string) ([]*Node, []string) {
	frontier := []*Node{tree.Root()}
	path := []string{tree.RootID}

	for len(frontier) > 0 && frontier[0].Level != LevelFile {
		var expanded []*Node
		for _, node := range frontier {
			expanded = append(expanded, bestChildren(tree, node, queryTokens, beamWidth)...)
		}
		if len(expanded) == 0 {
			return nil, path
		}

		sort.SliceStable(expanded, func(i, j int) bool {
			return nodeScore(expanded[i], queryTokens) > nodeScore(expanded[j], queryTokens)
		})
		if len(expanded) > beamWidth {
			expanded = expanded[:beamWidth]
		}

		frontier = expanded
		for _, node := range frontier {
			path = append(path, node.ID)
		}
	}

	return frontier, path
}

// rankChunks orders the chunks under the selected file nodes by query
// token overlap against name plus code, ties by chunk id order within
// the node.
func rankChunks(s *store.Store, files []*Node, queryTokens []string, limit int) []types.SearchResult {
	var results []types.SearchResult
	seen := make(map[string]bool)

	for _, file := range files {
		for _, chunkID := range file.ChunkIDs {
			if seen[chunkID] {
				continue
			}
			seen[chunkID] = true

			chunk, ok := s.Get(chunkID)
			if !ok {
				continue
			}
			score := token.Overlap(queryTokens, token.Set(chunk.Name+" "+chunk.Code))
			results = append(results, types.SearchResult{
				Chunk:     chunk,
				Score:     float64(score),
				Embedding: chunk.Embedding,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit < len(results) {
		results = results[:limit]
	}
	return results
}
