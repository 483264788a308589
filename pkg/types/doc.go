// Package types provides shared type definitions for the hybrid code
// retrieval engine.
//
// The core type is EmbeddedChunk, a code fragment paired with its
// embedding vector:
//
//	chunk := &types.EmbeddedChunk{
//	    ID:        "src/db.ts:connectDatabase",
//	    FilePath:  "src/db.ts",
//	    Language:  "typescript",
//	    NodeType:  types.NodeFunction,
//	    Name:      "connectDatabase",
//	    Code:      source,
//	    Embedding: vector,
//	}
//
// DependencyGraph maps file paths to their imports and definitions and
// drives one-hop graph expansion during hybrid search.
//
// SearchResult is the ephemeral output record of every retrieval path;
// scores are comparable only within a single ranking call.
package types
