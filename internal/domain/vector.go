package domain

import (
	"errors"
	"math"
)

// ErrDegenerateEmbedding indicates a zero-norm embedding that cannot be
// unit-normalized. Propagating it beats silently producing NaN scores.
var ErrDegenerateEmbedding = errors.New("degenerate zero-norm embedding")

// Vector is an embedding vector.
type Vector []float64

// Dot returns the dot product of two vectors. For unit-normalized vectors
// this is the cosine similarity, in [-1, 1].
func (v Vector) Dot(other Vector) float64 {
	n := len(v)
	if len(other) < n {
		n = len(other)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += v[i] * other[i]
	}
	return sum
}

// Norm returns the L2 norm of the vector.
func (v Vector) Norm() float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Normalized returns a unit-L2-norm copy of the vector.
// Returns ErrDegenerateEmbedding if the norm is zero.
func (v Vector) Normalized() (Vector, error) {
	norm := v.Norm()
	if norm == 0 {
		return nil, ErrDegenerateEmbedding
	}
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out, nil
}
