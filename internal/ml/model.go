// Package ml holds the read-only model capabilities the API serves:
// text vectorizers, a label classifier and the job vector matrix.
//
// Every type here is immutable once constructed and safe for concurrent use.
package ml

import (
	"errors"
	"math"
)

// ErrDimensionMismatch is returned when a vector does not fit the space of
// the model it is handed to.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Vectorizer maps normalized text into a fixed-dimensional feature space.
type Vectorizer interface {
	Transform(text string) (SparseVector, error)
	Dim() int
}

// Classifier maps a feature vector to one label of a fixed label set.
type Classifier interface {
	Predict(vec SparseVector) (string, error)
	Classes() []string
	Dim() int
}

// SparseVector is a feature vector with strictly increasing indices.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// Norm returns the euclidean length of v.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dense expands v into a slice of length v.Dim.
func (v SparseVector) Dense() []float64 {
	out := make([]float64, v.Dim)
	for i, idx := range v.Indices {
		out[idx] = v.Values[i]
	}
	return out
}
