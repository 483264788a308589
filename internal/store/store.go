package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/FloareDor/gitask-sub001/internal/quantize"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// Store holds the embedded chunks of one loaded corpus, their quantized
// codes, and an optional dependency graph. A store has a single logical
// writer (one corpus load at a time) and any number of concurrent
// readers; Insert and SetGraph apply as atomic, all-or-nothing updates.
type Store struct {
	mu        sync.RWMutex
	chunks    map[string]*types.EmbeddedChunk
	codes     map[string][]uint32
	order     []string       // ids in first-insertion order
	positions map[string]int // id → index into order
	dim       int
	graph     types.DependencyGraph
}

// New creates an empty store.
func New() *Store {
	return &Store{
		chunks:    make(map[string]*types.EmbeddedChunk),
		codes:     make(map[string][]uint32),
		positions: make(map[string]int),
	}
}

// Insert upserts chunks by id, computing each chunk's quantized code.
// All chunks within one store must share embedding dimensionality; a
// mismatch rejects the whole batch and leaves the store unchanged.
func (s *Store) Insert(chunks []types.EmbeddedChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the full batch before touching any state.
	dim := s.dim
	for i := range chunks {
		c := &chunks[i]
		if err := c.Validate(); err != nil {
			return fmt.Errorf("chunk %q: %w", c.ID, err)
		}
		if dim == 0 {
			dim = len(c.Embedding)
		}
		if len(c.Embedding) != dim {
			return fmt.Errorf("chunk %q: %w: embedding length %d, store dimension %d",
				c.ID, types.ErrDimensionMismatch, len(c.Embedding), dim)
		}
	}

	for i := range chunks {
		c := chunks[i].Clone()
		if _, exists := s.chunks[c.ID]; !exists {
			s.positions[c.ID] = len(s.order)
			s.order = append(s.order, c.ID)
		}
		s.chunks[c.ID] = c
		s.codes[c.ID] = quantize.Binarize(c.Embedding)
	}
	s.dim = dim

	return nil
}

// SetGraph replaces the dependency graph atomically. The graph is built
// once per corpus by the dependency extractor and supplied wholesale;
// partial graphs are tolerated by every reader.
func (s *Store) SetGraph(graph types.DependencyGraph) {
	clone := graph.Clone()

	s.mu.Lock()
	s.graph = clone
	s.mu.Unlock()
}

// Graph returns the current dependency graph. Callers must not mutate it.
func (s *Store) Graph() types.DependencyGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph
}

// GetAll returns every stored chunk in first-insertion order.
func (s *Store) GetAll() []*types.EmbeddedChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*types.EmbeddedChunk, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.chunks[id])
	}
	return all
}

// Get returns the chunk with the given id.
func (s *Store) Get(id string) (*types.EmbeddedChunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chunks[id]
	return c, ok
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Dimension returns the embedding dimensionality of the corpus, or 0 for
// an empty store.
func (s *Store) Dimension() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dim
}

// InsertionIndex returns the first-insertion position of a chunk id.
// Rankers call it per candidate as the stable tie-break when scores are
// equal, so the lookup is O(1).
func (s *Store) InsertionIndex(id string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pos, ok := s.positions[id]
	return pos, ok
}

// ChunksByFile returns the chunks of one file in first-insertion order.
func (s *Store) ChunksByFile(filePath string) []*types.EmbeddedChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.EmbeddedChunk
	for _, id := range s.order {
		if c := s.chunks[id]; c.FilePath == filePath {
			out = append(out, c)
		}
	}
	return out
}

// CoarseSearch ranks all chunks by ascending Hamming distance to
// queryCode and returns the limit closest as an id→score map.
//
// Score convention: score = -distance, so that "higher is better" holds
// uniformly across every scorer feeding rank fusion. Ties in distance
// break by first-insertion order.
func (s *Store) CoarseSearch(queryCode []uint32, limit int) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || len(s.order) == 0 {
		return map[string]float64{}, nil
	}

	type candidate struct {
		id       string
		distance int
		position int
	}

	candidates := make([]candidate, 0, len(s.order))
	for pos, id := range s.order {
		distance, err := quantize.HammingDistance(queryCode, s.codes[id])
		if err != nil {
			return nil, fmt.Errorf("coarse search: %w", err)
		}
		candidates = append(candidates, candidate{id: id, distance: distance, position: pos})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].position < candidates[j].position
	})

	if limit > len(candidates) {
		limit = len(candidates)
	}

	scores := make(map[string]float64, limit)
	for _, c := range candidates[:limit] {
		scores[c.id] = -float64(c.distance)
	}
	return scores, nil
}
