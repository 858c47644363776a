package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/mood-engine/internal/domain/mood"
	"github.com/yanqian/mood-engine/internal/domain/session"
	"github.com/yanqian/mood-engine/internal/infra/config"
	"github.com/yanqian/mood-engine/internal/infra/generator"
	"github.com/yanqian/mood-engine/internal/infra/historystore"
	"github.com/yanqian/mood-engine/internal/infra/llm/chatgpt"
	"github.com/yanqian/mood-engine/internal/infra/llm/gemini"
	"github.com/yanqian/mood-engine/internal/infra/responsecache"
)

func provideMoodConfig(cfg *config.Config) mood.Config {
	return mood.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
		Retry: mood.RetryConfig{
			Attempts: cfg.LLM.Retry.Attempts,
			Delay:    cfg.LLM.Retry.Delay,
			MaxDelay: cfg.LLM.Retry.MaxDelay,
		},
	}
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{HistoryLimit: cfg.History.Limit}
}

func provideGenerator(cfg *config.Config, logger *slog.Logger) mood.Generator {
	if cfg.LLM.APIKey == "" {
		logger.Warn("llm api key not set, analyses will fail until one is configured", "provider", cfg.LLM.Provider)
	}
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		logger.Info("mood generator enabled", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
		return generator.NewChatGPT(chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout))
	default:
		logger.Info("mood generator enabled", "provider", config.ProviderGemini, "model", cfg.LLM.Model)
		return generator.NewGemini(gemini.NewClient(cfg.LLM.APIKey, logger))
	}
}

func provideResponseCache(cfg *config.Config, logger *slog.Logger) mood.ResponseCache {
	if cfg.LLM.CacheTTL <= 0 {
		return mood.NopCache{}
	}
	logger.Info("llm response cache enabled", "ttl", cfg.LLM.CacheTTL, "size", cfg.LLM.CacheSize)
	return responsecache.NewOtterCache(cfg.LLM.CacheSize, cfg.LLM.CacheTTL, logger)
}

// provideHistoryStore prefers valkey, then postgres, and falls back to memory
// when neither is configured or reachable.
func provideHistoryStore(cfg *config.Config, logger *slog.Logger) session.HistoryStore {
	if store, ok := valkeyHistoryStore(cfg, logger); ok {
		return store
	}
	if store, ok := postgresHistoryStore(cfg, logger); ok {
		return store
	}
	logger.Info("analysis history kept in memory", "limit", cfg.History.Limit)
	return historystore.NewMemoryStore(cfg.History.Limit)
}

func valkeyHistoryStore(cfg *config.Config, logger *slog.Logger) (session.HistoryStore, bool) {
	if !cfg.History.Valkey.Enabled {
		return nil, false
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, skipping valkey history", "error", err)
		return nil, false
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, skipping valkey history", "error", err)
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, skipping valkey history", "error", err)
		client.Close()
		return nil, false
	}
	logger.Info("valkey analysis history enabled", "addr", cfg.History.Valkey.Addr, "key", cfg.History.Valkey.Key)
	return historystore.NewValkeyStore(client, cfg.History.Valkey.Key, cfg.History.Limit), true
}

func postgresHistoryStore(cfg *config.Config, logger *slog.Logger) (session.HistoryStore, bool) {
	dsn := strings.TrimSpace(cfg.History.Postgres.DSN)
	if dsn == "" {
		return nil, false
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, skipping postgres history", "error", err)
		return nil, false
	}
	if cfg.History.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.History.Postgres.MaxConns
	}
	if cfg.History.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.History.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, skipping postgres history", "error", err)
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, skipping postgres history", "error", err)
		pool.Close()
		return nil, false
	}
	store := historystore.NewPostgresStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to prepare history table, skipping postgres history", "error", err)
		pool.Close()
		return nil, false
	}
	logger.Info("postgres analysis history enabled")
	return store, true
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.History.Valkey.Addr, "://") {
		return valkey.ParseURL(cfg.History.Valkey.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.History.Valkey.Addr}}, nil
}
