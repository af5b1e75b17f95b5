package ml

import (
	"fmt"
	"math"
	"sort"

	"github.com/fadilmartias/jobmate-ml-api/internal/nlp"
)

// FormatTFIDF identifies the TF-IDF vectorizer artifact format.
const FormatTFIDF = "tfidf/v1"

// TFIDFSpec is the exported state of a fitted TF-IDF vectorizer.
type TFIDFSpec struct {
	Format       string         `json:"format"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	NGramRange   [2]int         `json:"ngram_range"`
	StopWords    []string       `json:"stop_words"`
	TokenPattern string         `json:"token_pattern"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Binary       bool           `json:"binary"`
	// Norm is "l2" (also when empty), "l1" or "none".
	Norm   string `json:"norm"`
	UseIDF *bool  `json:"use_idf"`
}

// TFIDFVectorizer turns normalized text into a weighted bag-of-n-grams vector.
type TFIDFVectorizer struct {
	tokenizer   *nlp.Tokenizer
	vocabulary  map[string]int
	idf         []float64
	minN, maxN  int
	sublinearTF bool
	binary      bool
	norm        string
	dim         int
}

// NewTFIDFVectorizer validates spec and builds a vectorizer from it.
func NewTFIDFVectorizer(spec TFIDFSpec) (*TFIDFVectorizer, error) {
	if spec.Format != FormatTFIDF {
		return nil, fmt.Errorf("unsupported vectorizer format %q", spec.Format)
	}
	dim := len(spec.Vocabulary)
	if dim == 0 {
		return nil, fmt.Errorf("vectorizer vocabulary is empty")
	}

	seen := make([]bool, dim)
	for term, idx := range spec.Vocabulary {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("vocabulary index %d of term %q out of range [0,%d)", idx, term, dim)
		}
		if seen[idx] {
			return nil, fmt.Errorf("vocabulary index %d is assigned twice", idx)
		}
		seen[idx] = true
	}

	useIDF := spec.UseIDF == nil || *spec.UseIDF
	var idf []float64
	if useIDF {
		if len(spec.IDF) != dim {
			return nil, fmt.Errorf("idf has %d weights for %d vocabulary terms: %w", len(spec.IDF), dim, ErrDimensionMismatch)
		}
		idf = append([]float64(nil), spec.IDF...)
	}

	minN, maxN := spec.NGramRange[0], spec.NGramRange[1]
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("invalid ngram_range [%d, %d]", minN, maxN)
	}

	norm := spec.Norm
	switch norm {
	case "":
		norm = "l2"
	case "l1", "l2", "none":
	default:
		return nil, fmt.Errorf("unsupported norm %q", spec.Norm)
	}

	tokenizer, err := nlp.NewTokenizer(spec.TokenPattern, spec.StopWords)
	if err != nil {
		return nil, err
	}

	vocabulary := make(map[string]int, dim)
	for term, idx := range spec.Vocabulary {
		vocabulary[term] = idx
	}

	return &TFIDFVectorizer{
		tokenizer:   tokenizer,
		vocabulary:  vocabulary,
		idf:         idf,
		minN:        minN,
		maxN:        maxN,
		sublinearTF: spec.SublinearTF,
		binary:      spec.Binary,
		norm:        norm,
		dim:         dim,
	}, nil
}

func (v *TFIDFVectorizer) Dim() int { return v.dim }

// Transform counts vocabulary n-grams of text and weights them.
func (v *TFIDFVectorizer) Transform(text string) (SparseVector, error) {
	terms := nlp.NGrams(v.tokenizer.Tokens(text), v.minN, v.maxN)

	counts := make(map[int]float64)
	for _, term := range terms {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if v.idf != nil {
			tf *= v.idf[idx]
		}
		values[i] = tf
	}

	vec := SparseVector{Dim: v.dim, Indices: indices, Values: values}
	normalize(vec.Values, v.norm)
	return vec, nil
}

func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case "l2":
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
