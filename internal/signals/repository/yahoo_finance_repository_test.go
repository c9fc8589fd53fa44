package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wealth-signals/internal/signals/config"
	"wealth-signals/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{"chart":{"result":[{
  "timestamp":[1704240000,1704153600,1704326400],
  "indicators":{"quote":[{
    "open":[101,100,null],
    "high":[103,102,null],
    "low":[99,98,null],
    "close":[102,101,null],
    "volume":[2000,1000,null]
  }]}
}],"error":null}}`

const quoteSummaryFixture = `{"quoteSummary":{"result":[{
  "price":{"longName":"Infosys Limited","marketCap":{"raw":6.2e12,"fmt":"6.2T"}},
  "summaryDetail":{"beta":{"raw":0.9,"fmt":"0.90"},"marketCap":{"raw":1,"fmt":"1"},"trailingPE":{}},
  "defaultKeyStatistics":{"priceToBook":{"raw":7.5},"52WeekChange":null},
  "financialData":{"returnOnEquity":{"raw":0.31},"financialCurrency":"INR"}
}],"error":null}}`

func newYahooTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasPrefix(r.URL.Path, "/chart/INFY.NS"):
			assert.Equal(t, "1d", r.URL.Query().Get("interval"))
			assert.Equal(t, "1y", r.URL.Query().Get("range"))
			_, _ = w.Write([]byte(chartFixture))
		case strings.HasPrefix(r.URL.Path, "/summary/INFY.NS"):
			assert.Equal(t, "price,summaryDetail,defaultKeyStatistics,financialData", r.URL.Query().Get("modules"))
			_, _ = w.Write([]byte(quoteSummaryFixture))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
		}
	}))
}

func newYahooTestConfig(baseURL string) *config.Config {
	return &config.Config{
		YahooFinance: config.YahooFinance{
			ChartURL:        baseURL + "/chart",
			QuoteSummaryURL: baseURL + "/summary",
			HistoryRange:    "1y",
			Timeout:         5 * time.Second,
		},
	}
}

func TestYahooFinanceRepositoryGetHistory(t *testing.T) {
	srv := newYahooTestServer(t)
	defer srv.Close()

	repo := NewYahooFinanceRepository(newYahooTestConfig(srv.URL), logger.NewNop())
	series, err := repo.GetHistory(context.Background(), "INFY.NS")
	require.NoError(t, err)

	assert.Equal(t, "INFY.NS", series.Ticker)
	require.Len(t, series.Bars, 2, "null bars are dropped")
	assert.True(t, series.Bars[0].Date.Before(series.Bars[1].Date), "bars are sorted oldest first")
	assert.Equal(t, []float64{101, 102}, series.Closes())
	assert.Equal(t, 100.0, series.Bars[0].Open)
	assert.Equal(t, 2000.0, series.Bars[1].Volume)
}

func TestYahooFinanceRepositoryGetHistoryUnknownTicker(t *testing.T) {
	srv := newYahooTestServer(t)
	defer srv.Close()

	repo := NewYahooFinanceRepository(newYahooTestConfig(srv.URL), logger.NewNop())
	_, err := repo.GetHistory(context.Background(), "NOPE.NS")

	var fetchErr *DataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "NOPE.NS", fetchErr.Ticker)
	assert.Equal(t, "history", fetchErr.Op)
}

func TestYahooFinanceRepositoryGetMetadata(t *testing.T) {
	srv := newYahooTestServer(t)
	defer srv.Close()

	repo := NewYahooFinanceRepository(newYahooTestConfig(srv.URL), logger.NewNop())
	meta, err := repo.GetMetadata(context.Background(), "INFY.NS")
	require.NoError(t, err)

	assert.Equal(t, "Infosys Limited", meta.String("longName", ""))
	assert.Equal(t, 6.2e12, meta.Float("marketCap", 0), "first module carrying a key wins")
	assert.Equal(t, 0.9, meta.Float("beta", 0))
	assert.Equal(t, 7.5, meta.Float("priceToBook", 0))
	assert.Equal(t, 0.31, meta.Float("returnOnEquity", 0))
	assert.Equal(t, "INR", meta.String("financialCurrency", ""))

	_, ok := meta["trailingPE"]
	assert.False(t, ok, "empty objects carry no value")
	_, ok = meta["52WeekChange"]
	assert.False(t, ok, "null values are skipped")
}

func TestYahooFinanceRepositoryGetMetadataCrumbHandshake(t *testing.T) {
	var crumbsIssued, summaryCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cookie":
			http.SetCookie(w, &http.Cookie{Name: "A3", Value: "session", Path: "/"})
			w.WriteHeader(http.StatusNotFound)
		case "/crumb":
			if _, err := r.Cookie("A3"); err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			crumbsIssued++
			_, _ = fmt.Fprintf(w, "crumb-%d", crumbsIssued)
		case "/summary/INFY.NS":
			summaryCalls++
			_, cookieErr := r.Cookie("A3")
			// the first crumb is treated as expired
			if cookieErr != nil || r.URL.Query().Get("crumb") != "crumb-2" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"finance":{"error":{"code":"Unauthorized","description":"Invalid Crumb"}}}`))
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(quoteSummaryFixture))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := newYahooTestConfig(srv.URL)
	cfg.YahooFinance.CookieURL = srv.URL + "/cookie"
	cfg.YahooFinance.CrumbURL = srv.URL + "/crumb"
	repo := NewYahooFinanceRepository(cfg, logger.NewNop())

	meta, err := repo.GetMetadata(context.Background(), "INFY.NS")
	require.NoError(t, err)
	assert.Equal(t, "Infosys Limited", meta.String("longName", ""))
	assert.Equal(t, 2, crumbsIssued, "an expired crumb is replaced once")
	assert.Equal(t, 2, summaryCalls)

	_, err = repo.GetMetadata(context.Background(), "INFY.NS")
	require.NoError(t, err)
	assert.Equal(t, 2, crumbsIssued, "a valid crumb is reused")
	assert.Equal(t, 3, summaryCalls)
}

func TestYahooFinanceRepositoryGetMetadataCrumbFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := newYahooTestConfig(srv.URL)
	cfg.YahooFinance.CrumbURL = srv.URL + "/crumb"
	repo := NewYahooFinanceRepository(cfg, logger.NewNop())

	_, err := repo.GetMetadata(context.Background(), "INFY.NS")

	var fetchErr *DataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "metadata", fetchErr.Op)
}
