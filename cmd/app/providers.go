package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/poppy/internal/domain/discovery"
	"github.com/yanqian/poppy/internal/infra/catalog/tmdb"
	"github.com/yanqian/poppy/internal/infra/config"
	"github.com/yanqian/poppy/internal/infra/llm/chatgpt"
	"github.com/yanqian/poppy/internal/infra/sessionrepo"
	"github.com/yanqian/poppy/internal/infra/streaming/rapidapi"
)

func provideDiscoveryConfig(cfg *config.Config) discovery.Config {
	return discovery.Config{
		Model:           cfg.LLM.Model,
		Temperature:     cfg.LLM.Temperature,
		Prompt:          cfg.Discovery.Prompt,
		MaxCandidates:   cfg.Discovery.MaxCandidates,
		HistoryLimit:    cfg.Discovery.HistoryLimit,
		Country:         cfg.Streaming.Country,
		PosterBaseURL:   cfg.Discovery.PosterBaseURL,
		BackdropBaseURL: cfg.Discovery.BackdropBaseURL,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
}

func provideCatalogClient(cfg *config.Config) *tmdb.Client {
	return tmdb.NewClient(cfg.Catalog.APIKey, cfg.Catalog.APIBaseURL)
}

func provideAvailabilityClient(cfg *config.Config) *rapidapi.Client {
	return rapidapi.NewClient(cfg.Streaming.APIKey, cfg.Streaming.APIHost)
}

func provideSessionRepository(cfg *config.Config, logger *slog.Logger) discovery.SessionRepository {
	fallback := sessionrepo.NewMemoryRepository()
	dsn := strings.TrimSpace(cfg.Discovery.Postgres.DSN)
	if dsn == "" {
		logger.Info("session postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if db := strings.TrimSpace(cfg.Discovery.Postgres.Database); db != "" {
		poolConfig.ConnConfig.Database = db
	}
	if cfg.Discovery.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Discovery.Postgres.MaxConns
	}
	if cfg.Discovery.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Discovery.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("session postgres repository enabled")
	return sessionrepo.NewPostgresRepository(pool)
}
