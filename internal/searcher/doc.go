// Package searcher implements the retrieval pipelines over the chunk
// store: exact cosine search, lexical keyword scoring, the coarse-to-fine
// hybrid pipeline with reciprocal rank fusion and one-hop graph
// expansion, multi-path search over query variants, and navigation of
// the hierarchical page index. Responses are cached by request hash with
// TTL-bounded LRU eviction.
package searcher
