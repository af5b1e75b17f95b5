package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/fadilmartias/jobmate-ml-api/internal/dto"
	"github.com/fadilmartias/jobmate-ml-api/internal/ml"
	"github.com/fadilmartias/jobmate-ml-api/internal/nlp"
	"github.com/fadilmartias/jobmate-ml-api/internal/repository"
)

const (
	// TopK is the number of recommendations returned per resume.
	TopK = 5
	// DescriptionLimit is the number of runes of a job description that a
	// recommendation carries.
	DescriptionLimit = 300
)

type JobUsecase struct {
	jobRepo      *repository.JobRepository
	unsupervised ml.Vectorizer
	supervised   ml.Vectorizer
	classifier   ml.Classifier
	categories   []string
}

func NewJobUsecase(jobRepo *repository.JobRepository, unsupervised, supervised ml.Vectorizer, classifier ml.Classifier) *JobUsecase {
	return &JobUsecase{
		jobRepo:      jobRepo,
		unsupervised: unsupervised,
		supervised:   supervised,
		classifier:   classifier,
		categories:   sortedUnique(classifier.Classes()),
	}
}

// Recommend returns the TopK jobs most similar to a resume, best first.
func (uc *JobUsecase) Recommend(resume string) ([]dto.Recommendation, error) {
	vec, err := uc.unsupervised.Transform(nlp.Normalize(resume))
	if err != nil {
		return nil, fmt.Errorf("vectorize resume: %w", err)
	}

	scored, err := uc.jobRepo.SearchJobs(vec, TopK)
	if err != nil {
		return nil, err
	}

	recommendations := make([]dto.Recommendation, 0, len(scored))
	for _, s := range scored {
		recommendations = append(recommendations, dto.Recommendation{
			JobID:           s.Job.ID,
			JobTitle:        s.Job.Title,
			Description:     truncate(s.Job.Description, DescriptionLimit),
			SimilarityScore: round4(s.Score),
		})
	}
	return recommendations, nil
}

// PredictCategory returns the label the classifier assigns to a job description.
func (uc *JobUsecase) PredictCategory(description string) (string, error) {
	vec, err := uc.supervised.Transform(nlp.Normalize(description))
	if err != nil {
		return "", fmt.Errorf("vectorize description: %w", err)
	}
	category, err := uc.classifier.Predict(vec)
	if err != nil {
		return "", fmt.Errorf("predict category: %w", err)
	}
	return category, nil
}

// Categories lists every label the classifier can produce, sorted.
func (uc *JobUsecase) Categories() []string {
	return append([]string(nil), uc.categories...)
}

// JobDetail returns every metadata column of the job with the given id.
func (uc *JobUsecase) JobDetail(id int64) (map[string]any, error) {
	job, err := uc.jobRepo.FindJobByID(id)
	if err != nil {
		return nil, err
	}
	return job.Record(), nil
}

func sortedUnique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
