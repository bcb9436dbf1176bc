package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/resumatch/resumatch/internal/ai"
	"github.com/resumatch/resumatch/internal/ai/gemini"
	"github.com/resumatch/resumatch/internal/jobs"
	"github.com/resumatch/resumatch/internal/resume"
	"github.com/resumatch/resumatch/internal/secrets"
	"github.com/resumatch/resumatch/internal/store"
	"go.uber.org/zap"
)

func newStore(config *Config) (resume.Store, error) {
	if config.Storage == nil || config.Storage.Driver == "" || config.Storage.Driver == "memory" {
		return store.NewMemory(), nil
	}

	switch config.Storage.Driver {
	case "postgres":
		if config.Storage.DSN == "" {
			return nil, errors.New("storage.dsn is required for the postgres driver")
		}
		return store.NewPostgres(config.Storage.DSN)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", config.Storage.Driver)
	}
}

func newAnalyzer(ctx context.Context, config *Config, logger *zap.Logger) (ai.Analyzer, error) {
	geminiCfg := &GeminiConfig{}
	if config.AI != nil && config.AI.Gemini != nil {
		geminiCfg = config.AI.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: geminiCfg.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  geminiCfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	aiLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("primary_model", geminiCfg.PrimaryModel),
		zap.String("fallback_model", geminiCfg.FallbackModel),
	)

	return gemini.New(ctx, apiKey, geminiCfg.PrimaryModel, geminiCfg.FallbackModel, geminiCfg.MaxLogLength, aiLogger)
}

// newSearcher returns nil when no job-search credentials are configured; the
// matcher then serves the builtin catalog instead of attempting the call.
func newSearcher(config *Config, logger *zap.Logger) jobs.Searcher {
	searchCfg := &JobSearchConfig{}
	if config.JobSearch != nil {
		searchCfg = config.JobSearch
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "job search api key",
		Value: searchCfg.APIKey,
		Env:   "JSEARCH_API_KEY",
		File:  searchCfg.APIKeyFile,
	})
	if err != nil {
		logger.Warn("job search credentials not configured, builtin catalog will be used", zap.Error(err))
		return nil
	}

	return jobs.NewClient(apiKey, logger)
}
