// Package embedder turns text into fixed-dimension float vectors via a
// pluggable provider.
//
// Providers:
//   - ollama: local Ollama instance (/api/embed), the default
//   - openai: OpenAI embeddings API, gated on OPENAI_API_KEY
//   - local:  deterministic hash-derived vectors for offline and test use
//
// All providers share an LRU cache keyed by the SHA-256 of the input
// text and retry transient API failures with exponential backoff. The
// embedding dimension is fixed per provider and per corpus/session.
package embedder
