package quantize

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/FloareDor/gitask-sub001/pkg/types"
)

// WordBits is the number of dimensions packed into one code word.
const WordBits = 32

// Binarize compresses a float vector to one bit per dimension by sign:
// bit d is set iff vector[d] > 0 (zero counts as 0). Bit d%32 of word
// d/32 holds dimension d.
func Binarize(vector []float32) []uint32 {
	words := make([]uint32, (len(vector)+WordBits-1)/WordBits)
	for d, v := range vector {
		if v > 0 {
			words[d/WordBits] |= 1 << uint(d%WordBits)
		}
	}
	return words
}

// HammingDistance returns the number of differing bits between two
// bit-packed codes. Codes of different word counts are contradictory
// inputs and fail with types.ErrDimensionMismatch.
func HammingDistance(a, b []uint32) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: code lengths %d and %d", types.ErrDimensionMismatch, len(a), len(b))
	}

	distance := 0
	for i := range a {
		distance += bits.OnesCount32(a[i] ^ b[i])
	}
	return distance, nil
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|) with float64
// accumulation. It returns 0 (not NaN, not an error) when either operand
// has zero norm or when the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
