package service

import (
	"context"
	"strings"

	"wealth-signals/internal/entity"
	"wealth-signals/internal/signals/config"
	"wealth-signals/pkg/logger"
)

// SignalService produces signals for the configured ticker universe.
type SignalService interface {
	GetSignals(ctx context.Context, limit int) []entity.Signal
	Provider() string
	ModelAvailable() bool
}

type signalService struct {
	cfg        *config.Config
	log        *logger.Logger
	summary    MarketSummaryService
	news       NewsSummarizer
	resolver   SignalResolver
	provider   string
	modelReady bool
}

// NewSignalService creates a new SignalService. provider and modelReady describe
// the configured language model and are reported by the health endpoint.
func NewSignalService(cfg *config.Config, log *logger.Logger,
	summary MarketSummaryService,
	news NewsSummarizer,
	resolver SignalResolver,
	provider string,
	modelReady bool) SignalService {
	return &signalService{
		cfg:        cfg,
		log:        log,
		summary:    summary,
		news:       news,
		resolver:   resolver,
		provider:   provider,
		modelReady: modelReady,
	}
}

func (s *signalService) Provider() string { return s.provider }

func (s *signalService) ModelAvailable() bool { return s.modelReady }

// GetSignals walks the first limit tickers of the universe one at a time, in
// order. Tickers whose market data cannot be fetched are left out.
func (s *signalService) GetSignals(ctx context.Context, limit int) []entity.Signal {
	tickers := s.cfg.Signals.Tickers
	if limit < 0 {
		limit = 0
	}
	if limit < len(tickers) {
		tickers = tickers[:limit]
	}

	signals := make([]entity.Signal, 0, len(tickers))
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			s.log.WarnContext(ctx, "Signal computation cancelled", logger.ErrorField(err))
			break
		}

		indicators, err := s.summary.Summarize(ctx, ticker)
		if err != nil {
			s.log.WarnContext(ctx, "Skipping ticker, market data unavailable", logger.StringField("ticker", ticker), logger.ErrorField(err))
			continue
		}

		newsText := s.news.Summarize(ctx, ticker)
		bare := strings.TrimSuffix(ticker, s.cfg.Signals.TickerSuffix)
		signals = append(signals, s.resolver.Resolve(ctx, bare, indicators, newsText))
	}

	s.log.InfoContext(ctx, "Signals computed", logger.IntField("requested", len(tickers)), logger.IntField("returned", len(signals)))
	return signals
}
