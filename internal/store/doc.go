// Package store provides the in-memory chunk store of the retrieval
// engine.
//
// A Store owns the embedded chunks of one loaded corpus, the binary
// quantized code derived from each embedding, and the dependency graph
// supplied by the extractor. It is the single mutable resource of a
// retrieval session: created at corpus-load time, mutated only by
// Insert and SetGraph, and discarded on corpus switch.
//
// # Coarse search
//
// CoarseSearch is the approximate first-pass filter of hybrid search. It
// ranks every chunk by Hamming distance between quantized codes and
// reports score = -distance, keeping the "higher is better" convention
// shared by all scorers that feed rank fusion.
//
// # Import resolution
//
// GraphNeighborsOf resolves import specifiers to corpus file paths:
// relative specifiers against the importer's directory, bare specifiers
// as corpus-rooted, each with extension inference and index-file
// fallback. Specifiers that resolve to nothing are silently dropped.
package store
