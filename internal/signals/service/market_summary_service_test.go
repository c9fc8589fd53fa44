package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"wealth-signals/internal/signals/config"
	"wealth-signals/internal/signals/dto"
	"wealth-signals/internal/signals/repository"
	"wealth-signals/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarketDataRepository struct {
	history    map[string]dto.PriceSeries
	meta       dto.Metadata
	metaErr    error
	historyErr error
}

func (f *fakeMarketDataRepository) GetHistory(_ context.Context, ticker string) (dto.PriceSeries, error) {
	if f.historyErr != nil {
		return dto.PriceSeries{}, f.historyErr
	}
	series, ok := f.history[ticker]
	if !ok {
		return dto.PriceSeries{}, &repository.DataFetchError{Ticker: ticker, Op: "history", Err: errors.New("not found")}
	}
	return series, nil
}

func (f *fakeMarketDataRepository) GetMetadata(_ context.Context, _ string) (dto.Metadata, error) {
	return f.meta, f.metaErr
}

func newSummaryTestService(repo repository.MarketDataRepository, now time.Time) MarketSummaryService {
	cfg := &config.Config{Signals: config.Signals{TickerSuffix: ".NS"}}
	svc := NewMarketSummaryService(cfg, logger.NewNop(), repo).(*marketSummaryService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestMarketSummaryServiceMergesMetadata(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeMarketDataRepository{
		history: map[string]dto.PriceSeries{"INFY.NS": seriesFromCloses(linearCloses(1, 20)...)},
		meta:    dto.Metadata{"longName": "Infosys Limited", "trailingPE": 24.5, "beta": "n/a"},
	}

	set, err := newSummaryTestService(repo, now).Summarize(context.Background(), "INFY.NS")
	require.NoError(t, err)

	assert.Equal(t, "INFY", set.Ticker)
	assert.Equal(t, "Infosys Limited", set.LongName)
	assert.Equal(t, 20.0, set.CurrentPrice)
	assert.Equal(t, 24.5, set.Fundamentals["trailingPE"])
	assert.Equal(t, 0.0, set.Fundamentals["beta"], "non-numeric values fall back to 0")
	assert.Len(t, set.Fundamentals, len(dto.FundamentalKeys))
	assert.Equal(t, now, set.FetchedAt)
	assert.Equal(t, "2024-05-01T10:00:00Z", set.Metrics()["fetched_at"])
}

func TestMarketSummaryServiceMetadataFailureIsNotFatal(t *testing.T) {
	repo := &fakeMarketDataRepository{
		history: map[string]dto.PriceSeries{"TCS.NS": seriesFromCloses(linearCloses(1, 5)...)},
		metaErr: errors.New("quote summary down"),
	}

	set, err := newSummaryTestService(repo, time.Now()).Summarize(context.Background(), "TCS.NS")
	require.NoError(t, err)

	assert.Equal(t, "TCS", set.LongName)
	for _, key := range dto.FundamentalKeys {
		assert.Equal(t, 0.0, set.Fundamentals[key], key)
	}
}

func TestMarketSummaryServiceHistoryFailure(t *testing.T) {
	repo := &fakeMarketDataRepository{historyErr: repository.ErrInsufficientData}

	_, err := newSummaryTestService(repo, time.Now()).Summarize(context.Background(), "TCS.NS")

	assert.ErrorIs(t, err, repository.ErrInsufficientData)
}
