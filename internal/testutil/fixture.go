// Package testutil builds a small artifact set whose vectorizers, classifier,
// job table and job vectors are mutually consistent. It is only imported by
// tests.
package testutil

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/sbinet/npyio/npz"

	"github.com/fadilmartias/jobmate-ml-api/internal/ml"
	"github.com/fadilmartias/jobmate-ml-api/internal/model"
	"github.com/fadilmartias/jobmate-ml-api/internal/nlp"
)

// MetadataColumns is the header of the fixture metadata table.
var MetadataColumns = []string{"id", "Job Title", "Job Description", "Category", "Salary", "Remote"}

// StopWords are removed by both fixture vectorizers.
var StopWords = []string{"and", "for", "in", "the", "to", "with"}

type FixtureJob struct {
	ID          int64
	Title       string
	Description string
	Category    string
	Salary      float64
	Remote      bool
}

var fixtureJobs = []FixtureJob{
	{101, "Backend Engineer", "Build backend services in Python and Go; deploy them to the cloud (AWS).", "Engineering", 18.5, true},
	{102, "Cloud Engineer", "Manage cloud infrastructure with Terraform, Kubernetes and Python automation.", "Engineering", 20.5, true},
	{103, "Frontend Developer", "Develop React interfaces with TypeScript and CSS for web users.", "Engineering", 15.5, false},
	{104, "Data Scientist", "Train machine learning models with Python, pandas and statistics.", "Data Science", 19.5, false},
	{105, "Data Analyst", "Analyze sales data with SQL and dashboards; report insights to managers.", "Data Science", 12.5, false},
	{106, "ML Engineer", "Deploy machine learning models to production cloud pipelines using Python.", "Data Science", 22.5, true},
	{107, "Marketing Specialist", "Plan social media campaigns and measure marketing performance.", "Marketing", 10.5, false},
	{108, "Content Writer", "Write blog content and marketing copy for search engine optimization.", "Marketing", 8.5, true},
	{109, "UI Designer", "Design user interfaces and prototypes in Figma for mobile apps.", "Design", 13.5, true},
	{110, "UX Researcher", "Interview users, run usability tests and design research reports.", "Design", 14.5, false},
}

// ClassOrder is the label order of the fixture classifier. It is
// intentionally not sorted.
var ClassOrder = []string{"Engineering", "Data Science", "Marketing", "Design"}

// FixtureJobs returns the rows of the fixture table in order.
func FixtureJobs() []FixtureJob {
	out := make([]FixtureJob, len(fixtureJobs))
	copy(out, fixtureJobs)
	return out
}

type Fixture struct {
	Jobs         []model.Job
	Unsupervised *ml.TFIDFVectorizer
	Supervised   *ml.TFIDFVectorizer
	Classifier   *ml.LinearClassifier
	Vectors      *ml.CSRMatrix

	VectorizerJSON []byte
	ClassifierJSON []byte
	MetadataCSV    []byte
	VectorsNPZ     []byte
}

// NewFixture builds the fixture and panics if any part of it is inconsistent.
func NewFixture() *Fixture {
	f, err := buildFixture()
	if err != nil {
		panic(fmt.Sprintf("testutil: build fixture: %v", err))
	}
	return f
}

func buildFixture() (*Fixture, error) {
	docs := make([]string, len(fixtureJobs))
	for i, j := range fixtureJobs {
		docs[i] = nlp.Normalize(j.Description)
	}

	spec, err := fitTFIDF(docs)
	if err != nil {
		return nil, err
	}
	unsupervised, err := ml.NewTFIDFVectorizer(spec)
	if err != nil {
		return nil, err
	}
	supervised, err := ml.NewTFIDFVectorizer(spec)
	if err != nil {
		return nil, err
	}

	var indptr, indices []int
	var data []float64
	indptr = append(indptr, 0)
	centroids := make(map[string][]float64, len(ClassOrder))
	for _, class := range ClassOrder {
		centroids[class] = make([]float64, unsupervised.Dim())
	}
	for i, doc := range docs {
		vec, err := unsupervised.Transform(doc)
		if err != nil {
			return nil, err
		}
		indices = append(indices, vec.Indices...)
		data = append(data, vec.Values...)
		indptr = append(indptr, len(data))

		centroid := centroids[fixtureJobs[i].Category]
		for k, idx := range vec.Indices {
			centroid[idx] += vec.Values[k]
		}
	}
	vectors, err := ml.NewCSRMatrix(len(docs), unsupervised.Dim(), indptr, indices, data)
	if err != nil {
		return nil, err
	}

	linear := ml.LinearSpec{Format: ml.FormatLinear, Classes: ClassOrder, Intercept: make([]float64, len(ClassOrder))}
	for _, class := range ClassOrder {
		linear.Coef = append(linear.Coef, centroids[class])
	}
	classifier, err := ml.NewLinearClassifier(linear)
	if err != nil {
		return nil, err
	}

	vectorizerJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}
	classifierJSON, err := json.Marshal(linear)
	if err != nil {
		return nil, err
	}
	metadata, err := metadataCSV()
	if err != nil {
		return nil, err
	}
	vectorsNPZ, err := EncodeNPZ(len(docs), unsupervised.Dim(), indptr, indices, data)
	if err != nil {
		return nil, err
	}

	return &Fixture{
		Jobs:           Jobs(),
		Unsupervised:   unsupervised,
		Supervised:     supervised,
		Classifier:     classifier,
		Vectors:        vectors,
		VectorizerJSON: vectorizerJSON,
		ClassifierJSON: classifierJSON,
		MetadataCSV:    metadata,
		VectorsNPZ:     vectorsNPZ,
	}, nil
}

// Jobs returns the job records a metadata parser must produce from the
// fixture table.
func Jobs() []model.Job {
	jobs := make([]model.Job, len(fixtureJobs))
	for i, j := range fixtureJobs {
		jobs[i] = model.NewJob(i, j.ID, j.Title, j.Description, map[string]any{
			"id":              j.ID,
			"Job Title":       j.Title,
			"Job Description": j.Description,
			"Category":        j.Category,
			"Salary":          j.Salary,
			"Remote":          j.Remote,
		})
	}
	return jobs
}

// fitTFIDF computes a smoothed idf over docs the same way a default
// scikit-learn TfidfVectorizer would.
func fitTFIDF(docs []string) (ml.TFIDFSpec, error) {
	tokenizer, err := nlp.NewTokenizer(nlp.DefaultTokenPattern, StopWords)
	if err != nil {
		return ml.TFIDFSpec{}, err
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range tokenizer.Tokens(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return ml.TFIDFSpec{
		Format:     ml.FormatTFIDF,
		Vocabulary: vocabulary,
		IDF:        idf,
		NGramRange: [2]int{1, 1},
		StopWords:  StopWords,
		Norm:       "l2",
	}, nil
}

func metadataCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(MetadataColumns); err != nil {
		return nil, err
	}
	for _, j := range fixtureJobs {
		remote := "False"
		if j.Remote {
			remote = "True"
		}
		record := []string{
			strconv.FormatInt(j.ID, 10),
			j.Title,
			j.Description,
			j.Category,
			strconv.FormatFloat(j.Salary, 'f', -1, 64),
			remote,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// EncodeNPZ writes a CSR matrix with the arrays and dtypes of scipy.sparse.save_npz.
func EncodeNPZ(rows, cols int, indptr, indices []int, data []float64) ([]byte, error) {
	toInt32 := func(vals []int) []int32 {
		out := make([]int32, len(vals))
		for i, v := range vals {
			out[i] = int32(v)
		}
		return out
	}

	var buf bytes.Buffer
	w := npz.NewWriter(&buf)
	for _, a := range []struct {
		name  string
		value any
	}{
		{"indices", toInt32(indices)},
		{"indptr", toInt32(indptr)},
		{"format", "csr"},
		{"shape", []int64{int64(rows), int64(cols)}},
		{"data", data},
	} {
		if err := w.Write(a.name, a.value); err != nil {
			return nil, fmt.Errorf("write %s: %w", a.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
