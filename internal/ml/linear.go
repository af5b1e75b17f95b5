package ml

import (
	"fmt"
	"strings"
)

// FormatLinear identifies the linear classifier artifact format.
const FormatLinear = "linear/v1"

// LinearSpec is the exported state of a fitted linear classifier.
// Coef has one row per class, or a single row for a two-class model.
type LinearSpec struct {
	Format    string      `json:"format"`
	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// LinearClassifier predicts the class with the highest linear decision score.
type LinearClassifier struct {
	classes   []string
	coef      [][]float64
	intercept []float64
	dim       int
}

// NewLinearClassifier validates spec and builds a classifier from it.
func NewLinearClassifier(spec LinearSpec) (*LinearClassifier, error) {
	if spec.Format != FormatLinear {
		return nil, fmt.Errorf("unsupported classifier format %q", spec.Format)
	}
	if len(spec.Classes) < 2 {
		return nil, fmt.Errorf("classifier needs at least 2 classes, got %d", len(spec.Classes))
	}

	seen := make(map[string]struct{}, len(spec.Classes))
	for _, class := range spec.Classes {
		if strings.TrimSpace(class) == "" {
			return nil, fmt.Errorf("classifier has an empty class label")
		}
		if _, ok := seen[class]; ok {
			return nil, fmt.Errorf("classifier class %q is listed twice", class)
		}
		seen[class] = struct{}{}
	}

	binary := len(spec.Coef) == 1 && len(spec.Classes) == 2
	if !binary && len(spec.Coef) != len(spec.Classes) {
		return nil, fmt.Errorf("classifier has %d coefficient rows for %d classes", len(spec.Coef), len(spec.Classes))
	}

	dim := len(spec.Coef[0])
	if dim == 0 {
		return nil, fmt.Errorf("classifier coefficient rows are empty")
	}
	coef := make([][]float64, len(spec.Coef))
	for i, row := range spec.Coef {
		if len(row) != dim {
			return nil, fmt.Errorf("coefficient row %d has width %d, want %d: %w", i, len(row), dim, ErrDimensionMismatch)
		}
		coef[i] = append([]float64(nil), row...)
	}

	intercept := make([]float64, len(coef))
	switch len(spec.Intercept) {
	case 0:
	case len(coef):
		copy(intercept, spec.Intercept)
	default:
		return nil, fmt.Errorf("classifier has %d intercepts for %d coefficient rows", len(spec.Intercept), len(coef))
	}

	return &LinearClassifier{
		classes:   append([]string(nil), spec.Classes...),
		coef:      coef,
		intercept: intercept,
		dim:       dim,
	}, nil
}

func (c *LinearClassifier) Dim() int { return c.dim }

// Classes returns the label set in model order. The slice is a copy.
func (c *LinearClassifier) Classes() []string {
	return append([]string(nil), c.classes...)
}

// Predict returns the label with the highest decision score for vec.
// The first class wins ties.
func (c *LinearClassifier) Predict(vec SparseVector) (string, error) {
	if vec.Dim != c.dim {
		return "", fmt.Errorf("classifier expects %d features, got %d: %w", c.dim, vec.Dim, ErrDimensionMismatch)
	}

	if len(c.coef) == 1 {
		if c.score(0, vec) > 0 {
			return c.classes[1], nil
		}
		return c.classes[0], nil
	}

	best := 0
	bestScore := c.score(0, vec)
	for k := 1; k < len(c.coef); k++ {
		if s := c.score(k, vec); s > bestScore {
			best, bestScore = k, s
		}
	}
	return c.classes[best], nil
}

func (c *LinearClassifier) score(k int, vec SparseVector) float64 {
	row := c.coef[k]
	s := c.intercept[k]
	for i, idx := range vec.Indices {
		s += row[idx] * vec.Values[i]
	}
	return s
}
