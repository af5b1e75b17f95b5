package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fadilmartias/jobmate-ml-api/internal/artifact"
	"github.com/fadilmartias/jobmate-ml-api/internal/repository"
	"github.com/fadilmartias/jobmate-ml-api/internal/usecase"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Download and validate the model artifacts, then exit",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		cfg, logger := mustSetup()
		defer func() { _ = logger.Sync() }()

		bundle, err := loadArtifacts(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("loading model artifacts", zap.Error(err))
		}
		jobRepo, err := repository.NewJobRepository(bundle.Jobs, bundle.Vectors)
		if err != nil {
			logger.Fatal("building job repository", zap.Error(err))
		}
		uc := usecase.NewJobUsecase(jobRepo, bundle.Unsupervised, bundle.Supervised, bundle.Classifier)

		s := summarize(jobRepo, uc)
		if s.Untitled > 0 {
			logger.Warn("jobs without a title", zap.Int("count", s.Untitled))
		}
		fmt.Println(s)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

type artifactSummary struct {
	Jobs       int
	Untitled   int
	Categories int
}

func (s artifactSummary) String() string {
	return fmt.Sprintf("artifacts ok: %d jobs (%d untitled), %d categories", s.Jobs, s.Untitled, s.Categories)
}

func summarize(jobRepo *repository.JobRepository, uc *usecase.JobUsecase) artifactSummary {
	jobs := jobRepo.GetJobs()
	s := artifactSummary{Jobs: len(jobs), Categories: len(uc.Categories())}
	for _, job := range jobs {
		if job.Title == artifact.DefaultTitle {
			s.Untitled++
		}
	}
	return s
}
