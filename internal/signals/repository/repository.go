package repository

import (
	"context"

	"wealth-signals/internal/entity"
	"wealth-signals/internal/signals/dto"
)

// MarketDataRepository fetches price history and company metadata for a ticker.
type MarketDataRepository interface {
	GetHistory(ctx context.Context, ticker string) (dto.PriceSeries, error)
	GetMetadata(ctx context.Context, ticker string) (dto.Metadata, error)
}

// NewsRepository fetches recent headlines for a ticker, newest first.
type NewsRepository interface {
	GetNews(ctx context.Context, ticker string, limit int) ([]dto.NewsItem, error)
}

// AIRepository completes prompts with a language model.
type AIRepository interface {
	Complete(ctx context.Context, req dto.CompletionRequest) (string, error)
	Provider() string
	Available() bool
}

// SignalCacheRepository stores the latest resolved signal per ticker.
// Get reports false for missing or expired entries.
type SignalCacheRepository interface {
	Get(ctx context.Context, ticker string) (entity.Signal, bool)
	Put(ctx context.Context, ticker string, signal entity.Signal)
}
