package types

import "errors"

// Domain errors shared across packages
var (
	// ErrDimensionMismatch is returned when two vectors or quantized codes
	// of different lengths are compared. This is a programming error, not
	// a recoverable retrieval condition.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrMissingChunk is returned when a search result has no chunk.
	ErrMissingChunk = errors.New("search result chunk is required")
)
