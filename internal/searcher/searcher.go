package searcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/FloareDor/gitask-sub001/internal/embedder"
	"github.com/FloareDor/gitask-sub001/internal/expand"
	"github.com/FloareDor/gitask-sub001/internal/pageindex"
	"github.com/FloareDor/gitask-sub001/internal/store"
	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// SearchMode selects the retrieval pipeline.
type SearchMode string

const (
	SearchModeHybrid      SearchMode = "hybrid"       // coarse + keyword + RRF + rerank + expansion
	SearchModeHybridExact SearchMode = "hybrid-exact" // hybrid with an exact cosine coarse pass
	SearchModeVector      SearchMode = "vector"       // exact cosine only
	SearchModeKeyword     SearchMode = "keyword"      // lexical scoring only
	SearchModeRRF         SearchMode = "rrf"          // hybrid stopped at fusion, no rerank
	SearchModeMultiPath   SearchMode = "multipath"    // query variants fused across paths
	SearchModePageIndex   SearchMode = "pageindex"    // hierarchical tree navigation
)

// Request contains parameters for one search operation.
type Request struct {
	Query            string
	Mode             SearchMode
	Limit            int
	CoarseCandidates int     // coarse pass candidate count
	RRFK             float64 // rank fusion constant
	PreferenceAlpha  float64 // multipath blend weight on original-query cosine
	Strategy         string  // pageindex navigation strategy
	UseCache         bool
	CacheTTL         time.Duration
}

// Response contains the ranked results and search metadata.
type Response struct {
	Results      []types.SearchResult
	TotalResults int
	Mode         SearchMode
	Duration     time.Duration
	CacheHit     bool
	Variants     []string // multipath: the query variants searched
	Path         []string // pageindex: node ids visited during navigation
}

// cacheEntry is a cached response with its expiration time.
type cacheEntry struct {
	response  *Response
	expiresAt time.Time
}

// Searcher coordinates the retrieval pipelines over one loaded corpus.
type Searcher struct {
	store    *store.Store
	embedder embedder.Embedder
	expander expand.Expander
	cache    *lru.Cache[[32]byte, *cacheEntry]
	cacheMu  sync.RWMutex
}

// New creates a Searcher. A nil expander disables query rewriting: the
// multipath mode still works, searching the original query alone.
func New(st *store.Store, emb embedder.Embedder, exp expand.Expander) *Searcher {
	cache, err := lru.New[[32]byte, *cacheEntry](1000)
	if err != nil {
		// Unreachable with a positive size.
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	if exp == nil {
		exp = expand.Identity{}
	}

	return &Searcher{
		store:    st,
		embedder: emb,
		expander: exp,
		cache:    cache,
	}
}

// Search performs a search based on the request parameters.
func (s *Searcher) Search(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()

	if s.embedder == nil {
		return nil, fmt.Errorf("embedder not initialized")
	}
	if err := s.validateRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid search request: %w", err)
	}

	if req.UseCache {
		if cached, ok := s.checkCache(req); ok {
			cached.CacheHit = true
			cached.Duration = time.Since(startTime)
			return cached, nil
		}
	}

	response, err := s.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}

	response.Duration = time.Since(startTime)
	response.Mode = req.Mode
	response.TotalResults = len(response.Results)

	if req.UseCache && len(response.Results) > 0 {
		s.storeInCache(req, response)
	}

	return response, nil
}

func (s *Searcher) dispatch(ctx context.Context, req Request) (*Response, error) {
	switch req.Mode {
	case SearchModeHybrid:
		return s.hybrid(ctx, req, hybridOptions{})
	case SearchModeHybridExact:
		return s.hybrid(ctx, req, hybridOptions{exactCoarse: true})
	case SearchModeRRF:
		return s.hybrid(ctx, req, hybridOptions{skipRerank: true, skipExpansion: true})
	case SearchModeVector:
		return s.vector(ctx, req)
	case SearchModeKeyword:
		return s.keyword(req)
	case SearchModeMultiPath:
		results, variants, err := s.multiPathSearch(ctx, req)
		if err != nil {
			return nil, err
		}
		return &Response{Results: results, Variants: variants}, nil
	case SearchModePageIndex:
		return s.pageIndex(req)
	default:
		return nil, fmt.Errorf("unsupported search mode: %s", req.Mode)
	}
}

func (s *Searcher) hybrid(ctx context.Context, req Request, opts hybridOptions) (*Response, error) {
	embedding, err := s.embedQuery(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	results, err := hybridSearch(s.store, req.Query, embedding, req.CoarseCandidates, req.RRFK, req.Limit, opts)
	if err != nil {
		return nil, err
	}
	return &Response{Results: results}, nil
}

func (s *Searcher) vector(ctx context.Context, req Request) (*Response, error) {
	embedding, err := s.embedQuery(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	if dim := s.store.Dimension(); dim != 0 && len(embedding) != dim {
		return nil, fmt.Errorf("vector search: %w: query length %d, store dimension %d",
			types.ErrDimensionMismatch, len(embedding), dim)
	}

	ranked := cosineRank(s.store, s.store.GetAll(), embedding)
	return &Response{Results: resolveEntries(s.store, ranked, req.Limit)}, nil
}

func (s *Searcher) keyword(req Request) (*Response, error) {
	scores := KeywordSearch(s.store, req.Query)

	entries := make([]RankedEntry, 0, len(scores))
	for _, id := range rankScores(scores) {
		entries = append(entries, RankedEntry{ID: id, Score: scores[id]})
	}
	return &Response{Results: resolveEntries(s.store, entries, req.Limit)}, nil
}

func (s *Searcher) pageIndex(req Request) (*Response, error) {
	strategy, err := pageindex.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}

	tree := pageindex.Build(s.store)
	nav := pageindex.Search(tree, s.store, req.Query, strategy, req.Limit)
	return &Response{Results: nav.Results, Path: nav.Path}, nil
}

// embedQuery generates the query embedding through the configured
// provider. No fallback: provider failures surface to the caller.
func (s *Searcher) embedQuery(ctx context.Context, text string) ([]float32, error) {
	emb, err := s.embedder.GenerateEmbedding(ctx, embedder.EmbeddingRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}
	return emb.Vector, nil
}

// validateRequest applies defaults and rejects unusable requests.
func (s *Searcher) validateRequest(req *Request) error {
	if strings.TrimSpace(req.Query) == "" {
		return fmt.Errorf("query cannot be empty")
	}

	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.CoarseCandidates <= 0 {
		req.CoarseCandidates = 50
	}
	if req.Mode == "" {
		req.Mode = SearchModeHybrid
	}
	if req.RRFK <= 0 {
		req.RRFK = DefaultRRFK
	}
	if req.PreferenceAlpha <= 0 || req.PreferenceAlpha > 1 {
		req.PreferenceAlpha = DefaultPreferenceAlpha
	}
	if req.CacheTTL <= 0 {
		req.CacheTTL = 1 * time.Hour
	}

	return nil
}

// checkCache looks up a live cached response for the request.
func (s *Searcher) checkCache(req Request) (*Response, bool) {
	hash := computeQueryHash(req)
	now := time.Now()

	s.cacheMu.RLock()
	entry, found := s.cache.Get(hash)
	if !found {
		s.cacheMu.RUnlock()
		return nil, false
	}

	if now.After(entry.expiresAt) {
		s.cacheMu.RUnlock()
		s.cacheMu.Lock()
		s.cache.Remove(hash)
		s.cacheMu.Unlock()
		return nil, false
	}

	response := copyResponse(entry.response)
	s.cacheMu.RUnlock()

	return response, true
}

// storeInCache saves a response copy under the request hash.
func (s *Searcher) storeInCache(req Request, response *Response) {
	entry := &cacheEntry{
		response:  copyResponse(response),
		expiresAt: time.Now().Add(req.CacheTTL),
	}

	s.cacheMu.Lock()
	s.cache.Add(computeQueryHash(req), entry)
	s.cacheMu.Unlock()
}

// InvalidateCache drops every cached response. Called after corpus
// mutations, which are rare compared to queries, so a full purge beats
// per-entry bookkeeping.
func (s *Searcher) InvalidateCache() {
	s.cacheMu.Lock()
	s.cache.Purge()
	s.cacheMu.Unlock()
}

// copyResponse returns a response whose slices the caller may keep.
// Chunks are shared pointers into the store, which never mutates a chunk
// in place.
func copyResponse(src *Response) *Response {
	if src == nil {
		return nil
	}

	dst := &Response{
		TotalResults: src.TotalResults,
		Mode:         src.Mode,
		Duration:     src.Duration,
		CacheHit:     src.CacheHit,
		Results:      make([]types.SearchResult, len(src.Results)),
		Variants:     append([]string(nil), src.Variants...),
		Path:         append([]string(nil), src.Path...),
	}
	copy(dst.Results, src.Results)

	return dst
}

// computeQueryHash derives a deterministic cache key from every request
// field that affects the result set.
func computeQueryHash(req Request) [32]byte {
	var data strings.Builder
	data.WriteString(req.Query)
	data.WriteString("|")
	data.WriteString(string(req.Mode))
	data.WriteString("|")
	fmt.Fprintf(&data, "%d|%d|%.4f|%.4f|%s",
		req.Limit, req.CoarseCandidates, req.RRFK, req.PreferenceAlpha, req.Strategy)

	return sha256.Sum256([]byte(data.String()))
}
