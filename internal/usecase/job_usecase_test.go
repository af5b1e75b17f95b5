package usecase

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fadilmartias/jobmate-ml-api/internal/ml"
	"github.com/fadilmartias/jobmate-ml-api/internal/model"
	"github.com/fadilmartias/jobmate-ml-api/internal/repository"
	"github.com/fadilmartias/jobmate-ml-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixtureUsecase(t *testing.T) *JobUsecase {
	t.Helper()
	f := testutil.NewFixture()
	repo, err := repository.NewJobRepository(f.Jobs, f.Vectors)
	require.NoError(t, err)
	return NewJobUsecase(repo, f.Unsupervised, f.Supervised, f.Classifier)
}

func TestRecommend(t *testing.T) {
	t.Parallel()
	uc := newFixtureUsecase(t)

	recs, err := uc.Recommend("Looking for a backend engineer role with Python and cloud experience")
	require.NoError(t, err)
	require.Len(t, recs, TopK)

	assert.Equal(t, int64(101), recs[0].JobID)
	assert.Equal(t, "Backend Engineer", recs[0].JobTitle)
	assert.Equal(t, "Build backend services in Python and Go; deploy them to the cloud (AWS).", recs[0].Description)

	for i, r := range recs {
		assert.GreaterOrEqual(t, r.SimilarityScore, 0.0)
		assert.LessOrEqual(t, r.SimilarityScore, 1.0)
		scaled := r.SimilarityScore * 1e4
		assert.InDelta(t, math.Round(scaled), scaled, 1e-6, "score %v is not rounded to 4 places", r.SimilarityScore)
		if i > 0 {
			assert.GreaterOrEqual(t, recs[i-1].SimilarityScore, r.SimilarityScore)
		}
	}
}

func TestRecommendIsCaseAndPunctuationInsensitive(t *testing.T) {
	t.Parallel()
	uc := newFixtureUsecase(t)

	plain, err := uc.Recommend("backend python cloud")
	require.NoError(t, err)
	noisy, err := uc.Recommend("  BACKEND!!! Python,\tCloud... 2024 ")
	require.NoError(t, err)

	assert.Equal(t, plain, noisy)
}

func TestRecommendEmptyResumeStillReturnsTopK(t *testing.T) {
	t.Parallel()
	uc := newFixtureUsecase(t)

	recs, err := uc.Recommend("")
	require.NoError(t, err)
	require.Len(t, recs, TopK)
	for i, r := range recs {
		assert.Equal(t, 0.0, r.SimilarityScore)
		assert.Equal(t, int64(101+i), r.JobID)
	}
}

func TestRecommendTruncatesDescriptions(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 250) + " python " + strings.Repeat("x", 200)
	spec := ml.TFIDFSpec{Format: ml.FormatTFIDF, Vocabulary: map[string]int{"python": 0}, IDF: []float64{1}, NGramRange: [2]int{1, 1}}
	vectorizer, err := ml.NewTFIDFVectorizer(spec)
	require.NoError(t, err)
	vectors, err := ml.NewCSRMatrix(1, 1, []int{0, 1}, []int{0}, []float64{1})
	require.NoError(t, err)
	repo, err := repository.NewJobRepository([]model.Job{model.NewJob(0, 7, "Long", long, nil)}, vectors)
	require.NoError(t, err)
	classifier, err := ml.NewLinearClassifier(ml.LinearSpec{Format: ml.FormatLinear, Classes: []string{"a", "b"}, Coef: [][]float64{{1}}})
	require.NoError(t, err)

	uc := NewJobUsecase(repo, vectorizer, vectorizer, classifier)
	recs, err := uc.Recommend("python")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	assert.Equal(t, DescriptionLimit, utf8.RuneCountInString(recs[0].Description))
	assert.True(t, strings.HasPrefix(long, recs[0].Description))
	assert.Equal(t, 1.0, recs[0].SimilarityScore)
}

func TestPredictCategory(t *testing.T) {
	t.Parallel()
	uc := newFixtureUsecase(t)

	tests := []struct {
		description string
		expect      string
	}{
		{description: "Train deep learning models with Python and pandas", expect: "Data Science"},
		{description: "Plan social media marketing campaigns", expect: "Marketing"},
		{description: "Design prototypes in Figma for mobile users", expect: "Design"},
		{description: "Manage Kubernetes cloud infrastructure", expect: "Engineering"},
		{description: "", expect: "Engineering"},
	}

	for _, tt := range tests {
		t.Run(tt.expect+"/"+tt.description, func(t *testing.T) {
			t.Parallel()
			got, err := uc.PredictCategory(tt.description)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
			assert.Contains(t, uc.Categories(), got)
		})
	}
}

func TestCategoriesSortedAndUnique(t *testing.T) {
	t.Parallel()
	uc := newFixtureUsecase(t)

	categories := uc.Categories()
	assert.Equal(t, []string{"Data Science", "Design", "Engineering", "Marketing"}, categories)

	categories[0] = "mutated"
	assert.Equal(t, "Data Science", uc.Categories()[0])
}

func TestJobDetail(t *testing.T) {
	t.Parallel()
	uc := newFixtureUsecase(t)

	record, err := uc.JobDetail(108)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":              int64(108),
		"Job Title":       "Content Writer",
		"Job Description": "Write blog content and marketing copy for search engine optimization.",
		"Category":        "Marketing",
		"Salary":          8.5,
		"Remote":          true,
	}, record)

	_, err = uc.JobDetail(99999)
	assert.True(t, errors.Is(err, repository.ErrJobNotFound))
}

type failingClassifier struct{ ml.Classifier }

func (failingClassifier) Predict(ml.SparseVector) (string, error) {
	return "", errors.New("boom")
}

func TestPredictCategoryPropagatesErrors(t *testing.T) {
	t.Parallel()
	f := testutil.NewFixture()
	repo, err := repository.NewJobRepository(f.Jobs, f.Vectors)
	require.NoError(t, err)

	uc := NewJobUsecase(repo, f.Unsupervised, f.Supervised, failingClassifier{f.Classifier})
	_, err = uc.PredictCategory("anything")
	require.ErrorContains(t, err, "boom")
}
