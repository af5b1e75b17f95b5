package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fadilmartias/jobmate-ml-api/internal/artifact"
	"github.com/fadilmartias/jobmate-ml-api/internal/config"
	"github.com/fadilmartias/jobmate-ml-api/internal/logger"
)

const app = "jobmate-ml-api"

var (
	v = config.NewViper()

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "jobmate-ml-api serves job recommendations and category predictions over HTTP",
		// Without a subcommand the service starts, same as "serve".
		Run: func(cmd *cobra.Command, _ []string) {
			serve(cmd.Context())
		},
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	if err := v.BindPFlag(config.KeyDebug, rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		log.Fatalf("binding debug flag: %v", err)
	}
	if err := v.BindPFlag(config.KeyLogJSON, rootCmd.PersistentFlags().Lookup("json")); err != nil {
		log.Fatalf("binding json flag: %v", err)
	}
}

// setup reads the configuration and builds the logger. A logger is returned
// even when validation fails so the caller can report the problem.
func setup() (*config.Config, *zap.Logger, error) {
	cfg := config.Load(v)

	l, err := logger.New(cfg.App.LogJSON, cfg.App.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, l, err
	}
	if cfg.App.UsesDefaultToken() {
		l.Warn("API_TOKEN is not set, falling back to the default token")
	}
	return cfg, l, nil
}

// loadArtifacts downloads every model artifact from the configured store.
func loadArtifacts(ctx context.Context, cfg *config.Config, l *zap.Logger) (*artifact.Bundle, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Storage.Timeout)
	defer cancel()

	store, err := artifact.NewBlobStore(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening artifact store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			l.Warn("closing artifact store", zap.Error(err))
		}
	}()

	l.Info("using artifact store",
		zap.String("store", cfg.Storage.Backend),
		zap.String("bucket", cfg.Storage.Bucket),
	)
	return artifact.NewLoader(store, cfg.Storage.Paths, l).Load(ctx)
}

func mustSetup() (*config.Config, *zap.Logger) {
	cfg, l, err := setup()
	if err != nil {
		if l == nil {
			log.Fatal(err)
		}
		l.Fatal("getting a config", zap.Error(err))
	}
	return cfg, l
}
