package main

import (
	"context"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fadilmartias/jobmate-ml-api/internal/config"
	"github.com/fadilmartias/jobmate-ml-api/internal/domain/fiber/handler"
	"github.com/fadilmartias/jobmate-ml-api/internal/repository"
	"github.com/fadilmartias/jobmate-ml-api/internal/server"
	"github.com/fadilmartias/jobmate-ml-api/internal/usecase"
	"github.com/fadilmartias/jobmate-ml-api/internal/util"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the model artifacts and serve the HTTP API",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "", "port to listen on (overrides PORT)")
	if err := v.BindPFlag(config.KeyPort, serveCmd.Flags().Lookup("port")); err != nil {
		panic(err)
	}
}

func serve(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger := mustSetup()
	defer func() { _ = logger.Sync() }()

	logger.Info("starting the service",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
	)

	bundle, err := loadArtifacts(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("loading model artifacts", zap.Error(err))
	}

	jobRepo, err := repository.NewJobRepository(bundle.Jobs, bundle.Vectors)
	if err != nil {
		logger.Fatal("building job repository", zap.Error(err))
	}
	uc := usecase.NewJobUsecase(jobRepo, bundle.Unsupervised, bundle.Supervised, bundle.Classifier)
	h := handler.NewJobHandler(uc, util.ExtractPDFText, logger)

	app := server.New(cfg, h, logger)

	if cfg.App.Debug {
		go monitorGoroutines(ctx, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func monitorGoroutines(ctx context.Context, logger *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Debug("active goroutines", zap.Int("count", runtime.NumGoroutine()))
		}
	}
}
