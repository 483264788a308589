// Package mcp implements the Model Context Protocol (MCP) server for the
// retrieval engine.
//
// The server exposes five tools to AI coding assistants:
//   - index_corpus: embed a pre-chunked corpus and build its dependency graph
//   - search_code: query the corpus (hybrid, vector, keyword, rrf,
//     multipath, or pageindex mode)
//   - load_snapshot: restore a persisted corpus into memory
//   - save_snapshot: persist the in-memory corpus
//   - get_status: report corpus, embedder, and snapshot state
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport; stdout is
// reserved for protocol messages, so all logging goes to stderr.
package mcp
