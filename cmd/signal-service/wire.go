package main

import (
	"context"
	"fmt"

	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/repository"
	"wealth-signals/internal/signals/service"
	"wealth-signals/pkg/common"
	"wealth-signals/pkg/logger"
	"wealth-signals/pkg/redis"

	"google.golang.org/genai"
)

// app holds the wired signal pipeline and the resources it must release.
type app struct {
	signals  service.SignalService
	closers  []func() error
	provider string
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

func newApp(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (*app, error) {
	a := &app{}

	aiRepo, err := newAIRepository(ctx, cfg, appLogger)
	if err != nil {
		return nil, err
	}
	a.provider = aiRepo.Provider()
	if !aiRepo.Available() {
		appLogger.Warn("Language model is not configured, signals will use the RSI heuristic", logger.StringField("provider", a.provider))
	}

	cache, err := newSignalCache(cfg, appLogger, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	marketData := repository.NewYahooFinanceRepository(cfg, appLogger)
	newsRepo := repository.NewRSSNewsRepository(cfg, appLogger)

	summarySvc := service.NewMarketSummaryService(cfg, appLogger, marketData)
	newsSvc := service.NewNewsSummarizer(cfg, appLogger, newsRepo)
	resolver := service.NewSignalResolver(cfg, appLogger, aiRepo, cache)
	a.signals = service.NewSignalService(cfg, appLogger, summarySvc, newsSvc, resolver, aiRepo.Provider(), aiRepo.Available())

	return a, nil
}

// newAIRepository selects the language model provider. Missing credentials are
// not an error: the repository reports itself unavailable instead.
func newAIRepository(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (repository.AIRepository, error) {
	switch cfg.AI.Provider {
	case common.AIProviderGroq:
		return repository.NewGroqAIRepository(cfg, appLogger), nil
	case common.AIProviderGemini:
		var genAiClient *genai.Client
		if cfg.Gemini.APIKey != "" {
			c, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  cfg.Gemini.APIKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				appLogger.Error("Failed to initialize Gemini AI client", logger.ErrorField(err))
			} else {
				genAiClient = c
			}
		}
		return repository.NewGeminiAIRepository(cfg, appLogger, genAiClient), nil
	default:
		return nil, fmt.Errorf("invalid AI provider %q", cfg.AI.Provider)
	}
}

func newSignalCache(cfg *config.Config, appLogger *logger.Logger, a *app) (repository.SignalCacheRepository, error) {
	ttl := cfg.Signals.CacheTTLDuration()
	switch cfg.Cache.Driver {
	case "", common.CacheDriverMemory:
		return repository.NewMemorySignalCache(ttl, nil), nil
	case common.CacheDriverRedis:
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		a.closers = append(a.closers, redisClient.Close)
		return repository.NewRedisSignalCache(redisClient.Client, cfg.Cache.KeyPrefix, ttl, nil, appLogger), nil
	default:
		return nil, fmt.Errorf("invalid cache driver %q", cfg.Cache.Driver)
	}
}
