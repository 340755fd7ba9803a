package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"litgraph/internal/adapter/repo"
	"litgraph/internal/extract"
	"litgraph/internal/infra"
	"litgraph/internal/jobs"
	"litgraph/internal/providers/genai"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	if err := repo.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("worker: migration failed")
	}

	client, err := genai.NewClient(genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure gemini client")
	}

	validator, err := extract.NewSchemaValidator()
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to compile graph schema")
	}

	extractor := extract.NewExtractor(client, extract.ExtractorOptions{
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Validator:       validator,
		Logger:          logger,
	})

	jobRepo := repo.NewJobRepository(pool, cfg.RedeliveryAfter)
	analyticsRepo := repo.NewAnalyticsRepository(pool)
	source := jobs.NewStoreSource(jobRepo, cfg.ClaimInterval)
	worker := extract.NewWorker(jobRepo, extractor, analyticsRepo, logger)

	if err := worker.Run(ctx, source); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
