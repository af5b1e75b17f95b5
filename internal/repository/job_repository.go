package repository

import (
	"errors"
	"fmt"

	"github.com/fadilmartias/jobmate-ml-api/internal/ml"
	"github.com/fadilmartias/jobmate-ml-api/internal/model"
)

var ErrJobNotFound = errors.New("job not found")

// ScoredJob is a job with its cosine similarity to a query vector.
type ScoredJob struct {
	Job   model.Job
	Score float64
}

// JobRepository serves the job table and its vector matrix from memory.
// It is immutable after construction and safe for concurrent use.
type JobRepository struct {
	jobs    []model.Job
	byID    map[int64]int
	vectors *ml.CSRMatrix
}

func NewJobRepository(jobs []model.Job, vectors *ml.CSRMatrix) (*JobRepository, error) {
	if vectors == nil {
		return nil, errors.New("job vectors are required")
	}
	if vectors.Rows() != len(jobs) {
		return nil, fmt.Errorf("job vector matrix has %d rows but metadata has %d jobs", vectors.Rows(), len(jobs))
	}

	byID := make(map[int64]int, len(jobs))
	for i, job := range jobs {
		if job.Row != i {
			return nil, fmt.Errorf("job %d is at position %d but claims row %d", job.ID, i, job.Row)
		}
		if prev, dup := byID[job.ID]; dup {
			return nil, fmt.Errorf("duplicate job id %d at rows %d and %d", job.ID, prev, i)
		}
		byID[job.ID] = i
	}

	return &JobRepository{jobs: jobs, byID: byID, vectors: vectors}, nil
}

// SearchJobs ranks every job by cosine similarity to vec and returns the best
// topK. Equal scores keep table order.
func (r *JobRepository) SearchJobs(vec ml.SparseVector, topK int) ([]ScoredJob, error) {
	scores, err := r.vectors.CosineSimilarities(vec)
	if err != nil {
		return nil, fmt.Errorf("score jobs: %w", err)
	}

	rows := ml.TopK(scores, topK)
	result := make([]ScoredJob, len(rows))
	for i, row := range rows {
		result[i] = ScoredJob{Job: r.jobs[row], Score: scores[row]}
	}
	return result, nil
}

func (r *JobRepository) FindJobByID(id int64) (model.Job, error) {
	row, ok := r.byID[id]
	if !ok {
		return model.Job{}, fmt.Errorf("%w: %d", ErrJobNotFound, id)
	}
	return r.jobs[row], nil
}

func (r *JobRepository) GetJobs() []model.Job {
	jobs := make([]model.Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

func (r *JobRepository) Len() int {
	return len(r.jobs)
}
