// Package quantize provides the numeric primitives of the retrieval
// engine: binary sign quantization, Hamming distance over bit-packed
// codes, and exact cosine similarity over float vectors.
//
// Quantized codes are derived data. They are recomputed whenever a chunk
// is inserted and never persisted independently of their source vector.
package quantize
