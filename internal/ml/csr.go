package ml

import (
	"fmt"
	"math"
	"sort"
)

// CSRMatrix is a compressed sparse row matrix. Row i holds the values
// Data[Indptr[i]:Indptr[i+1]] at columns Indices[Indptr[i]:Indptr[i+1]].
type CSRMatrix struct {
	rows, cols int
	indptr     []int
	indices    []int
	data       []float64
	norms      []float64
}

// NewCSRMatrix checks the CSR invariants and precomputes row norms.
// The slices are owned by the matrix afterwards.
func NewCSRMatrix(rows, cols int, indptr, indices []int, data []float64) (*CSRMatrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid matrix shape (%d, %d)", rows, cols)
	}
	if len(indptr) != rows+1 {
		return nil, fmt.Errorf("indptr has length %d, want %d", len(indptr), rows+1)
	}
	if len(indices) != len(data) {
		return nil, fmt.Errorf("indices (%d) and data (%d) lengths differ", len(indices), len(data))
	}
	if indptr[0] != 0 || indptr[rows] != len(data) {
		return nil, fmt.Errorf("indptr must span [0, %d], got [%d, %d]", len(data), indptr[0], indptr[rows])
	}

	norms := make([]float64, rows)
	for i := 0; i < rows; i++ {
		start, end := indptr[i], indptr[i+1]
		if end < start || end > len(data) {
			return nil, fmt.Errorf("indptr is not monotonic at row %d", i)
		}
		var sum float64
		for j := start; j < end; j++ {
			if indices[j] < 0 || indices[j] >= cols {
				return nil, fmt.Errorf("column index %d in row %d out of range [0,%d)", indices[j], i, cols)
			}
			sum += data[j] * data[j]
		}
		norms[i] = math.Sqrt(sum)
	}

	return &CSRMatrix{
		rows:    rows,
		cols:    cols,
		indptr:  indptr,
		indices: indices,
		data:    data,
		norms:   norms,
	}, nil
}

func (m *CSRMatrix) Rows() int { return m.rows }

func (m *CSRMatrix) Cols() int { return m.cols }

// NNZ returns the number of stored values.
func (m *CSRMatrix) NNZ() int { return len(m.data) }

// CosineSimilarities scores vec against every row. Rows or queries with a
// zero norm score 0.
func (m *CSRMatrix) CosineSimilarities(vec SparseVector) ([]float64, error) {
	if vec.Dim != m.cols {
		return nil, fmt.Errorf("matrix has %d columns, query has %d: %w", m.cols, vec.Dim, ErrDimensionMismatch)
	}

	scores := make([]float64, m.rows)
	qNorm := vec.Norm()
	if qNorm == 0 {
		return scores, nil
	}

	query := vec.Dense()
	for i := 0; i < m.rows; i++ {
		if m.norms[i] == 0 {
			continue
		}
		var dot float64
		for j := m.indptr[i]; j < m.indptr[i+1]; j++ {
			dot += m.data[j] * query[m.indices[j]]
		}
		scores[i] = dot / (qNorm * m.norms[i])
	}
	return scores, nil
}

// TopK returns the indices of the k largest scores, highest first.
// Equal scores are ordered by ascending index.
func TopK(scores []float64, k int) []int {
	if k > len(scores) {
		k = len(scores)
	}
	if k <= 0 {
		return []int{}
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	return order[:k]
}
