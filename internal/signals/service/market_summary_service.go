package service

import (
	"context"
	"strings"
	"time"

	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/dto"
	"wealth-signals/internal/signals/repository"
	"wealth-signals/pkg/logger"
)

// MarketSummaryService builds the IndicatorSet of a ticker from its price history and metadata.
type MarketSummaryService interface {
	Summarize(ctx context.Context, ticker string) (dto.IndicatorSet, error)
}

type marketSummaryService struct {
	cfg        *config.Config
	log        *logger.Logger
	marketData repository.MarketDataRepository
	now        func() time.Time
}

// NewMarketSummaryService creates a new MarketSummaryService.
func NewMarketSummaryService(cfg *config.Config, log *logger.Logger, marketData repository.MarketDataRepository) MarketSummaryService {
	return &marketSummaryService{
		cfg:        cfg,
		log:        log,
		marketData: marketData,
		now:        time.Now,
	}
}

// Summarize fails only when the history cannot be fetched. A metadata failure
// leaves the name as the bare ticker and every fundamental at 0.
func (s *marketSummaryService) Summarize(ctx context.Context, ticker string) (dto.IndicatorSet, error) {
	series, err := s.marketData.GetHistory(ctx, ticker)
	if err != nil {
		return dto.IndicatorSet{}, err
	}

	indicators, err := CalculateIndicators(series)
	if err != nil {
		return dto.IndicatorSet{}, err
	}

	meta, err := s.marketData.GetMetadata(ctx, ticker)
	if err != nil {
		s.log.WarnContext(ctx, "Metadata unavailable, using neutral defaults", logger.StringField("ticker", ticker), logger.ErrorField(err))
		meta = dto.Metadata{}
	}

	bare := strings.TrimSuffix(ticker, s.cfg.Signals.TickerSuffix)
	indicators.Ticker = bare
	indicators.LongName = meta.String("longName", bare)
	indicators.Fundamentals = make(map[string]float64, len(dto.FundamentalKeys))
	for _, key := range dto.FundamentalKeys {
		indicators.Fundamentals[key] = meta.Float(key, 0)
	}
	indicators.FetchedAt = s.now().UTC()

	return indicators, nil
}
